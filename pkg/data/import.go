package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImportResult summarizes one CSV import batch.
type ImportResult struct {
	BatchID             string   `json:"batch_id" yaml:"batch_id"`
	File                string   `json:"file" yaml:"file"`
	Rows                int      `json:"rows" yaml:"rows"`
	Columns             []string `json:"columns" yaml:"columns"`
	HasRequiredFeatures bool     `json:"has_required_features" yaml:"has_required_features"`
}

// ImportCSV parses a CSV of measurement records and stores every row.
// Blank and non-numeric cells are stored as nulls; validation happens at
// scoring time, not here. The result reports whether the file's columns
// cover the required feature schema.
func ImportCSV(db *sql.DB, path string, required []string) (*ImportResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if path == "" {
		return nil, errors.New("path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading header from: %s", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Features, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading row %d from: %s", len(rows)+2, path)
		}

		row := make(Features, len(header))
		for i, col := range header {
			if i >= len(rec) {
				row[col] = nil
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				row[col] = nil
				continue
			}
			v, convErr := strconv.ParseFloat(cell, 64)
			if convErr != nil {
				row[col] = nil
				continue
			}
			row[col] = &v
		}
		rows = append(rows, row)
	}

	batchID := uuid.NewString()
	source := filepath.Base(path)

	saved, err := SaveSamples(db, batchID, source, rows)
	if err != nil {
		return nil, errors.Wrapf(err, "error saving samples from: %s", path)
	}

	slog.Info("imported samples", "file", source, "rows", saved, "batch", batchID)

	return &ImportResult{
		BatchID:             batchID,
		File:                source,
		Rows:                saved,
		Columns:             header,
		HasRequiredFeatures: hasAll(header, required),
	}, nil
}

func hasAll(columns, required []string) bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	for _, name := range required {
		if !set[name] {
			return false
		}
	}
	return true
}
