// Package ledger loads and normalizes trade logs.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// ErrMalformedCSV indicates the input is not readable as CSV
var ErrMalformedCSV = errors.New("malformed csv")

const utf8BOM = "\ufeff"

// ReadCSV reads a trade log export into a raw table.
// Header names are trimmed; an empty input yields an empty table.
func ReadCSV(r io.Reader) (models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, nil
	}
	if err != nil {
		return models.RawTable{}, readError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	table := models.RawTable{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, readError(err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// readError separates CSV syntax errors from failures of the underlying reader
func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	return fmt.Errorf("failed to read trade log: %w", err)
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
