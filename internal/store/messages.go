package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elvannunal/portfolio/internal/contact"
)

// Message is a stored contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveMessage records a new submission.
func (s *Store) SaveMessage(ctx context.Context, id string, f contact.Form, status string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, f.Name, f.Email, f.Message, status, at.Unix(), at.Unix())
	return errors.Wrap(err, "save message")
}

// UpdateMessageStatus sets a message's delivery status.
func (s *Store) UpdateMessageStatus(ctx context.Context, id, status, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET status = ?, reason = ?, updated_at = ? WHERE id = ?
	`, status, reason, s.now().Unix(), id)
	if err != nil {
		return errors.Wrap(err, "update message status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(ErrNotFound, id)
	}
	return nil
}

// Messages returns the latest messages, newest first.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, message, status, COALESCE(reason, ''), created_at, updated_at
		FROM messages
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query messages")
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var created, updated int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Status, &m.Reason, &created, &updated); err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		m.CreatedAt = time.Unix(created, 0).UTC()
		m.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, m)
	}
	return out, errors.Wrap(rows.Err(), "iterate messages")
}

// DeleteMessage removes a message.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete message")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(ErrNotFound, id)
	}
	return nil
}
