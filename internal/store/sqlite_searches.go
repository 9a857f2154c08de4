package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type SearchRecord struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	Encoded     string    `json:"encoded"`
	Variant     string    `json:"variant"`
	Languages   []string  `json:"languages"`
	Start       int       `json:"start"`
	ResultCount int       `json:"result_count"`
	RemoteAddr  string    `json:"-"`
	CreatedUTC  time.Time `json:"created_utc"`
}

func (s *Store) RecordSearch(ctx context.Context, rec SearchRecord) (int64, error) {
	if rec.CreatedUTC.IsZero() {
		rec.CreatedUTC = time.Now().UTC()
	}
	langs := rec.Languages
	if langs == nil {
		langs = []string{}
	}
	langsJSON, _ := json.Marshal(langs)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (query_text, encoded, variant, languages_json, start_pos, result_count, remote_addr, created_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Query, rec.Encoded, rec.Variant, string(langsJSON), rec.Start, rec.ResultCount, rec.RemoteAddr, rec.CreatedUTC.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert search: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("search id: %w", err)
	}
	return id, nil
}

// ListSearches returns the most recent searches first.
func (s *Store) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query_text, encoded, variant, languages_json, start_pos, result_count, remote_addr, created_utc
		FROM searches
		ORDER BY id DESC
		LIMIT ?
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	out := []SearchRecord{}
	for rows.Next() {
		var (
			rec        SearchRecord
			langsJSON  string
			createdUTC string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Encoded, &rec.Variant, &langsJSON, &rec.Start, &rec.ResultCount, &rec.RemoteAddr, &createdUTC); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		_ = json.Unmarshal([]byte(langsJSON), &rec.Languages)
		if t, err := time.Parse(time.RFC3339Nano, createdUTC); err == nil {
			rec.CreatedUTC = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return out, nil
}

// FlushSearches deletes the whole search history and returns the number of
// removed rows.
func (s *Store) FlushSearches(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("flush searches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
