package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"stock-backtest-lab/internal/domain"
)

// CSV loader errors
var (
	ErrBadCSVHeader = errors.New("unexpected csv header")
)

// csvHeader is the expected column layout, matching the export format of
// the report generator.
var csvHeader = []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

// LoadCSV reads daily bars for one ticker from r. The first row must be
// the header date,open,high,low,close,adj_close,volume and dates must be
// in 2006-01-02 form. The output is raw; run it through Clean before use.
func LoadCSV(r io.Reader, ticker string) ([]*domain.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadCSVHeader, i, header[i], col)
		}
	}

	var bars []*domain.PriceBar
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		bar, err := parseCSVRecord(record, ticker)
		if err != nil {
			return nil, fmt.Errorf("parse csv line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	return bars, nil
}

// LoadCSVFile reads daily bars for one ticker from a file path.
func LoadCSVFile(path, ticker string) ([]*domain.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	return LoadCSV(f, ticker)
}

func parseCSVRecord(record []string, ticker string) (*domain.PriceBar, error) {
	date, err := time.ParseInLocation("2006-01-02", record[0], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		fields[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", csvHeader[i+1], err)
		}
	}

	volume, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}

	return &domain.PriceBar{
		Ticker:   ticker,
		Date:     date,
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		AdjClose: fields[4],
		Volume:   volume,
	}, nil
}
