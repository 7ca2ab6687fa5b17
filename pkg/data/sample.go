package data

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	insertSampleSQL = `INSERT INTO sample (batch_id, source, features, created_at)
		VALUES (?, ?, ?, ?)
	`

	selectSampleSQL = `SELECT id, batch_id, source, features, created_at
		FROM sample
		WHERE id = ?
	`

	selectFirstSampleSQL = `SELECT id, batch_id, source, features, created_at
		FROM sample
		ORDER BY id ASC
		LIMIT 1
	`

	selectSamplesSQL = `SELECT id, batch_id, source, features, created_at
		FROM sample
		ORDER BY id ASC
		LIMIT ?
	`

	countSamplesSQL = `SELECT COUNT(*) FROM sample`
)

// ErrSampleNotFound is returned when a requested sample id does not exist.
var ErrSampleNotFound = errors.New("sample not found")

// Features is one stored measurement row. A nil value is a blank cell from
// the imported file.
type Features map[string]*float64

// Sample is one stored measurement record.
type Sample struct {
	ID       int64    `json:"id" yaml:"id"`
	BatchID  string   `json:"batch_id" yaml:"batch_id"`
	Source   string   `json:"source" yaml:"source"`
	Features Features `json:"features" yaml:"features"`
	Created  string   `json:"created_at" yaml:"created_at"`
}

// SaveSamples stores the rows of one import batch in a single transaction.
func SaveSamples(db *sql.DB, batchID, source string, rows []Features) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if batchID == "" {
		return 0, errors.New("batchID is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "error starting sample tx")
	}

	stmt, err := tx.Prepare(insertSampleSQL)
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "error preparing sample insert")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0
	for i, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			rollbackTransaction(tx)
			return 0, errors.Wrapf(err, "error encoding row %d", i)
		}
		if _, err := stmt.Exec(batchID, source, string(b), now); err != nil {
			rollbackTransaction(tx)
			return 0, errors.Wrapf(err, "error inserting row %d", i)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "error committing sample tx")
	}

	return saved, nil
}

// GetSample returns one stored record by id.
func GetSample(db *sql.DB, id int64) (*Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	return scanSample(db.QueryRow(selectSampleSQL, id))
}

// GetFirstSample returns the oldest stored record, used as demo data.
func GetFirstSample(db *sql.DB) (*Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	return scanSample(db.QueryRow(selectFirstSampleSQL))
}

// ListSamples returns stored records in insertion order.
func ListSamples(db *sql.DB, limit int) ([]*Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectSamplesSQL, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to query samples")
	}
	defer rows.Close()

	list := make([]*Sample, 0)
	for rows.Next() {
		var s Sample
		var featuresJSON string
		if err := rows.Scan(&s.ID, &s.BatchID, &s.Source, &featuresJSON, &s.Created); err != nil {
			return nil, errors.Wrap(err, "failed to scan sample row")
		}
		if err := json.Unmarshal([]byte(featuresJSON), &s.Features); err != nil {
			return nil, errors.Wrapf(err, "failed to decode features for sample %d", s.ID)
		}
		list = append(list, &s)
	}

	return list, rows.Err()
}

// CountSamples returns the number of stored records.
func CountSamples(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	var count int
	if err := db.QueryRow(countSamplesSQL).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count samples")
	}
	return count, nil
}

func scanSample(row *sql.Row) (*Sample, error) {
	var s Sample
	var featuresJSON string
	if err := row.Scan(&s.ID, &s.BatchID, &s.Source, &featuresJSON, &s.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSampleNotFound
		}
		return nil, errors.Wrap(err, "failed to scan sample")
	}
	if err := json.Unmarshal([]byte(featuresJSON), &s.Features); err != nil {
		return nil, errors.Wrapf(err, "failed to decode features for sample %d", s.ID)
	}
	return &s, nil
}
