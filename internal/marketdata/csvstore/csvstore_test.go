package csvstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
)

func sampleKlines(n int) []*domain.Kline {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]*domain.Kline, n)
	for i := range klines {
		price := 100 + float64(i)
		klines[i] = &domain.Kline{
			OpenTime:  start.Add(time.Duration(i) * time.Hour),
			CloseTime: start.Add(time.Duration(i+1)*time.Hour - time.Millisecond),
			Symbol:    "PETR4",
			Interval:  "1h",
			Open:      price, High: price + 0.5, Low: price - 0.5, Close: price + 0.25,
			Volume: 1000,
		}
	}
	return klines
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petr4.csv")
	want := sampleKlines(5)

	if err := WriteKlines(want, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadKlines(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d klines, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].OpenTime.Equal(want[i].OpenTime) {
			t.Errorf("row %d: open time mismatch", i)
		}
		if got[i].Close != want[i].Close || got[i].Volume != want[i].Volume {
			t.Errorf("row %d: values mismatch: %+v vs %+v", i, got[i], want[i])
		}
		if got[i].Symbol != "PETR4" || got[i].Interval != "1h" {
			t.Errorf("row %d: symbol/interval mismatch", i)
		}
		if !got[i].IsFinal {
			t.Errorf("row %d: stored klines are final", i)
		}
	}
}

func TestReadKlinesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadKlines(path)
	if !errors.Is(err, ports.ErrInsufficientData) {
		t.Errorf("expected insufficient-data error, got %v", err)
	}
}

func TestReadKlinesBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadKlines(path); err == nil {
		t.Error("expected header error")
	}
}

func TestReadKlinesRejectsUnorderedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unordered.csv")
	klines := sampleKlines(3)
	klines[2].OpenTime = klines[0].OpenTime

	if err := WriteKlines(klines, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ReadKlines(path)
	if !errors.Is(err, ports.ErrUnorderedSeries) {
		t.Errorf("expected unordered-series error, got %v", err)
	}
}

func TestReadKlinesMissingFile(t *testing.T) {
	if _, err := ReadKlines(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
