package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elvannunal/portfolio/internal/logger"
)

// Message statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Store records submissions and their delivery status.
type Store interface {
	SaveMessage(ctx context.Context, id string, f Form, status string, at time.Time) error
	UpdateMessageStatus(ctx context.Context, id, status, reason string) error
}

// Observer is told the outcome of every submission: sent, failed or
// invalid.
type Observer func(outcome string)

// Service validates, records and relays submissions. A failed relay is
// reported to the caller; there is no automatic retry.
type Service struct {
	relay   Relay
	store   Store
	log     logger.Logger
	observe Observer
	now     func() time.Time
	newID   func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore records submissions in s.
func WithStore(s Store) ServiceOption { return func(svc *Service) { svc.store = s } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ServiceOption { return func(svc *Service) { svc.log = l } }

// WithObserver registers an outcome callback.
func WithObserver(o Observer) ServiceOption { return func(svc *Service) { svc.observe = o } }

// NewService builds a Service around relay.
func NewService(relay Relay, opts ...ServiceOption) *Service {
	svc := &Service{
		relay: relay,
		log:   logger.Nop(),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Relay returns the configured relay.
func (s *Service) Relay() Relay { return s.relay }

// Submit validates f and relays it. Invalid forms return a
// *ValidationError and are never relayed. The returned id identifies the
// stored message.
func (s *Service) Submit(ctx context.Context, f Form) (string, error) {
	f = f.Normalize()
	if fields := Validate(f); fields != nil {
		s.report("invalid")
		return "", &ValidationError{Fields: fields}
	}

	id := s.newID()
	if s.store != nil {
		if err := s.store.SaveMessage(ctx, id, f, StatusPending, s.now()); err != nil {
			s.log.Error(ctx, "failed to record contact message", logger.String("id", id), logger.Err(err))
			s.report(StatusFailed)
			return "", errors.Wrap(err, "record contact message")
		}
	}

	err := s.relay.Send(ctx, Submission{ID: id, Name: f.Name, Email: f.Email, Message: f.Message})
	status, reason := StatusSent, ""
	if err != nil {
		status, reason = StatusFailed, err.Error()
		s.log.Warn(ctx, "contact relay failed", logger.String("id", id), logger.String("relay", s.relay.Name()), logger.Err(err))
	} else {
		s.log.Info(ctx, "contact message relayed", logger.String("id", id), logger.String("relay", s.relay.Name()))
	}

	if s.store != nil {
		if uerr := s.store.UpdateMessageStatus(ctx, id, status, reason); uerr != nil {
			s.log.Error(ctx, "failed to update contact message status", logger.String("id", id), logger.Err(uerr))
		}
	}
	s.report(status)
	return id, err
}

func (s *Service) report(outcome string) {
	if s.observe != nil {
		s.observe(outcome)
	}
}
