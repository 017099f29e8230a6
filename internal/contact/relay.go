package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrRelay marks a failed hand-off to the relay.
var ErrRelay = errors.New("contact relay failed")

// Submission is a validated message ready to relay.
type Submission struct {
	ID      string
	Name    string
	Email   string
	Message string
}

// Relay delivers submissions to the site owner.
type Relay interface {
	Name() string
	Send(ctx context.Context, s Submission) error
}

// FormspreeRelay posts submissions to a Formspree form endpoint.
type FormspreeRelay struct {
	Endpoint string
	Client   *http.Client
}

// NewFormspreeRelay builds a relay for formID under baseURL
// (https://formspree.io/f/).
func NewFormspreeRelay(baseURL, formID string, timeout time.Duration) *FormspreeRelay {
	return &FormspreeRelay{
		Endpoint: strings.TrimRight(baseURL, "/") + "/" + formID,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (r *FormspreeRelay) Name() string { return "formspree" }

func (r *FormspreeRelay) Send(ctx context.Context, s Submission) error {
	body, err := json.Marshal(map[string]string{
		"name":    s.Name,
		"email":   s.Email,
		"message": s.Message,
	})
	if err != nil {
		return errors.Wrap(err, "encode submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build formspree request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrRelay, "formspree: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(ErrRelay, "formspree: status %d", resp.StatusCode)
	}
	return nil
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPRelay mails submissions to the owner's inbox.
type SMTPRelay struct {
	Host     string
	Port     string
	User     string
	Password string
	To       string

	sendMail SendMailFunc
}

// NewSMTPRelay returns a relay sending through host:port.
func NewSMTPRelay(host, port, user, password, to string) *SMTPRelay {
	return &SMTPRelay{Host: host, Port: port, User: user, Password: password, To: to, sendMail: smtp.SendMail}
}

func (r *SMTPRelay) Name() string { return "smtp" }

func (r *SMTPRelay) Send(_ context.Context, s Submission) error {
	if r.User == "" || r.Password == "" {
		return errors.Wrap(ErrRelay, "smtp credentials not configured")
	}
	to := r.To
	if to == "" {
		to = r.User
	}

	auth := smtp.PlainAuth("", r.User, r.Password, r.Host)
	if err := r.sendMail(r.Host+":"+r.Port, auth, r.User, []string{to}, composeMail(r.User, to, s)); err != nil {
		return errors.Wrapf(ErrRelay, "smtp: %v", err)
	}
	return nil
}

func composeMail(from, to string, s Submission) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(s.Name))
	body := fmt.Sprintf("New contact form submission from your portfolio:\r\n\r\nName: %s\r\nEmail: %s\r\nMessage:\r\n%s\r\n\r\n---\r\nSubmission %s\r\n",
		headerSafe(s.Name), headerSafe(s.Email), s.Message, s.ID)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(s.Email) + "\r\n" +
		"\r\n" +
		body)
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// NopRelay accepts every submission. Used when no relay is configured.
type NopRelay struct{}

func (NopRelay) Name() string                           { return "none" }
func (NopRelay) Send(context.Context, Submission) error { return nil }
