package store

import (
	"context"
	"fmt"
	"time"
)

type UploadRecord struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	Recognized bool      `json:"recognized"`
	Latex      string    `json:"latex,omitempty"`
	CreatedUTC time.Time `json:"created_utc"`
}

func (s *Store) RecordUpload(ctx context.Context, rec UploadRecord) (int64, error) {
	if rec.CreatedUTC.IsZero() {
		rec.CreatedUTC = time.Now().UTC()
	}
	recognized := 0
	if rec.Recognized {
		recognized = 1
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (filename, size_bytes, recognized, latex, created_utc)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Filename, rec.SizeBytes, recognized, rec.Latex, rec.CreatedUTC.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("upload id: %w", err)
	}
	return id, nil
}

func (s *Store) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, size_bytes, recognized, latex, created_utc
		FROM uploads
		ORDER BY id DESC
		LIMIT ?
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	out := []UploadRecord{}
	for rows.Next() {
		var (
			rec        UploadRecord
			recognized int
			createdUTC string
		)
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.SizeBytes, &recognized, &rec.Latex, &createdUTC); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		rec.Recognized = recognized != 0
		if t, err := time.Parse(time.RFC3339Nano, createdUTC); err == nil {
			rec.CreatedUTC = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return out, nil
}
