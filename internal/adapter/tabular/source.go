// Package tabular loads the brewery file: a header row followed by one record
// per line, from a local path or an http(s) URL.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/brewmap/internal/domain"
)

// Source implements session.Source for delimited files.
type Source struct {
	location string
	client   *resty.Client
	logger   *slog.Logger
}

// NewSource creates a Source reading location. URLs are fetched with the given
// timeout and retried on transport errors.
func NewSource(location string, timeout time.Duration, logger *slog.Logger) *Source {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Source{location: location, client: client, logger: logger}
}

// Fetch reads and parses the whole file.
func (s *Source) Fetch(ctx context.Context) (domain.Table, error) {
	start := time.Now()

	r, err := s.open(ctx)
	if err != nil {
		return domain.Table{}, err
	}
	defer r.Close()

	table, err := Parse(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse %s: %w", s.location, err)
	}

	s.logger.Info("tabular file fetched",
		"location", s.location,
		"rows", len(table.Rows),
		"columns", len(table.Fields),
		"duration", time.Since(start),
	)
	return table, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !isURL(s.location) {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		return f, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv, text/plain, */*").
		Get(s.location)
	if err != nil {
		return nil, fmt.Errorf("fetch data file: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch data file: status %d", resp.StatusCode())
	}
	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}

func isURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("header is missing required columns")

// Parse reads a header row and the records below it. Blank lines are skipped
// and short rows leave their trailing cells absent. Latitude and longitude
// cells become float64 when they parse to a finite number; anything else stays
// a string.
func Parse(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, errors.New("empty file: no header row")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = strings.TrimSpace(h)
	}
	fields[0] = strings.TrimPrefix(fields[0], "\ufeff")

	if missing := missingColumns(fields); len(missing) > 0 {
		return domain.Table{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows := make([]domain.RawRow, 0, 1024)
	lines := make([]int, 0, 1024)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, toRow(fields, record))
		lines = append(lines, line)
	}

	return domain.Table{Rows: rows, Fields: fields, Lines: lines}, nil
}

func toRow(fields, record []string) domain.RawRow {
	row := make(domain.RawRow, len(fields))
	for i, name := range fields {
		if i >= len(record) {
			break
		}
		row[name] = typedCell(name, record[i])
	}
	return row
}

// typedCell converts coordinate cells to numbers.
func typedCell(name, v string) any {
	if name != domain.ColLatitude && name != domain.ColLongitude {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	return f
}

func missingColumns(fields []string) []string {
	have := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		have[f] = struct{}{}
	}
	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
