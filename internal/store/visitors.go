package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Visit is one tracked page view. The client IP is stored only as a salted
// hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Lang      string    `json:"lang,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	VisitedAt time.Time `json:"visited_at"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.VisitedAt.IsZero() {
		v.VisitedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, lang, theme, visited_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Lang, v.Theme, v.VisitedAt.Unix())
	return errors.Wrap(err, "record visit")
}

// RecentVisits returns the latest visits, newest first.
func (s *Store) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''),
		       COALESCE(lang, ''), COALESCE(theme, ''), visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query visits")
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Lang, &v.Theme, &at); err != nil {
			return nil, errors.Wrap(err, "scan visit")
		}
		v.VisitedAt = time.Unix(at, 0).UTC()
		out = append(out, v)
	}
	return out, errors.Wrap(rows.Err(), "iterate visits")
}

// PruneVisits deletes visits older than cutoff and returns how many were
// removed.
func (s *Store) PruneVisits(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, errors.Wrap(err, "prune visits")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
