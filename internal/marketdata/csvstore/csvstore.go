// Package csvstore reads and writes kline series as CSV files, the on-disk
// interchange format between the fetch command and the batch runner.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
)

var header = []string{"open_time", "close_time", "symbol", "interval", "open", "high", "low", "close", "volume"}

// WriteKlines writes the series to filename, header first.
func WriteKlines(klines []*domain.Kline, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(header)
	for _, k := range klines {
		writer.Write([]string{
			k.OpenTime.Format(time.RFC3339),
			k.CloseTime.Format(time.RFC3339),
			k.Symbol,
			k.Interval,
			strconv.FormatFloat(k.Open, 'f', -1, 64),
			strconv.FormatFloat(k.High, 'f', -1, 64),
			strconv.FormatFloat(k.Low, 'f', -1, 64),
			strconv.FormatFloat(k.Close, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// ReadKlines loads a series previously written by WriteKlines. The rows must
// be in ascending open-time order; the batch runner relies on that and the
// check here turns a bad file into a skippable per-asset error instead of a
// wrong simulation.
func ReadKlines(filename string) ([]*domain.Kline, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", ports.ErrInsufficientData, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", filename, err)
	}
	if len(first) != len(header) || first[0] != header[0] {
		return nil, fmt.Errorf("%s: unexpected header %v", filename, first)
	}

	var klines []*domain.Kline
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", filename, line, err)
		}
		k, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", filename, line, err)
		}
		if n := len(klines); n > 0 && !k.OpenTime.After(klines[n-1].OpenTime) {
			return nil, fmt.Errorf("%w: %s line %d not after previous row", ports.ErrUnorderedSeries, filename, line)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

func parseRecord(record []string) (*domain.Kline, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(header), len(record))
	}

	openTime, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return nil, fmt.Errorf("open_time: %w", err)
	}
	closeTime, err := time.Parse(time.RFC3339, record[1])
	if err != nil {
		return nil, fmt.Errorf("close_time: %w", err)
	}

	prices := make([]float64, 5)
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v, err := strconv.ParseFloat(record[4+i], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		prices[i] = v
	}

	return &domain.Kline{
		OpenTime:  openTime,
		CloseTime: closeTime,
		Symbol:    record[2],
		Interval:  record[3],
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
		IsFinal:   true,
	}, nil
}
