package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Given contact forms", t, func() {
		Convey("A complete form is valid", func() {
			f := Form{Name: "Ada", Email: "ada@example.com", Message: "Let's build something."}
			So(Validate(f), ShouldBeNil)
		})

		Convey("Empty fields are required", func() {
			fe := Validate(Form{}.Normalize())
			So(fe, ShouldResemble, FieldErrors{"name": CodeRequired, "email": CodeRequired, "message": CodeRequired})
			So(fe.MessageKey("name"), ShouldEqual, "nameError")
		})

		Convey("Whitespace-only fields are required after normalizing", func() {
			fe := Validate(Form{Name: "  ", Email: "a@b.co", Message: "\n\t Long enough text"}.Normalize())
			So(fe, ShouldResemble, FieldErrors{"name": CodeRequired})
		})

		Convey("Malformed emails are rejected", func() {
			for _, email := range []string{"ada", "ada@example", "a da@example.com", "@example.com"} {
				fe := Validate(Form{Name: "Ada", Email: email, Message: "Long enough text"})
				So(fe["email"], ShouldEqual, CodeEmail)
				So(fe.MessageKey("email"), ShouldEqual, "emailInvalid")
			}
		})

		Convey("Messages under 10 characters are rejected", func() {
			fe := Validate(Form{Name: "Ada", Email: "ada@example.com", Message: "Too short"})
			So(fe["message"], ShouldEqual, CodeMin)
			So(fe.MessageKey("message"), ShouldEqual, "messageMinLength")

			So(Validate(Form{Name: "Ada", Email: "ada@example.com", Message: "Merhabalar"}), ShouldBeNil)
		})
	})
}

func TestFormspreeRelay(t *testing.T) {
	Convey("Given a Formspree endpoint", t, func() {
		var got map[string]string
		var path, accept string
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path, accept = r.URL.Path, r.Header.Get("Accept")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(status)
		}))
		defer srv.Close()

		relay := NewFormspreeRelay(srv.URL+"/f/", "abc123", time.Second)
		sub := Submission{ID: "1", Name: "Ada", Email: "ada@example.com", Message: "Hello there!"}

		Convey("A 2xx response is a successful send", func() {
			So(relay.Send(context.Background(), sub), ShouldBeNil)
			So(path, ShouldEqual, "/f/abc123")
			So(accept, ShouldEqual, "application/json")
			So(got, ShouldResemble, map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello there!"})
		})

		Convey("A non-2xx response is a relay error", func() {
			status = http.StatusUnprocessableEntity
			err := relay.Send(context.Background(), sub)
			So(errors.Is(err, ErrRelay), ShouldBeTrue)
		})
	})
}

func TestSMTPRelay(t *testing.T) {
	Convey("Given an SMTP relay", t, func() {
		var addr string
		var msg []byte
		relay := NewSMTPRelay("smtp.example.com", "587", "me@example.com", "secret", "")
		relay.sendMail = func(a string, _ smtp.Auth, _ string, _ []string, m []byte) error {
			addr, msg = a, m
			return nil
		}

		Convey("It mails the owner with a header-safe subject", func() {
			err := relay.Send(context.Background(), Submission{ID: "x", Name: "Ada\r\nBcc: evil@example.com", Email: "ada@example.com", Message: "Hello there!"})
			So(err, ShouldBeNil)
			So(addr, ShouldEqual, "smtp.example.com:587")
			So(string(msg), ShouldContainSubstring, "To: me@example.com\r\n")
			So(strings.Contains(string(msg), "\r\nBcc:"), ShouldBeFalse)
		})

		Convey("Missing credentials fail without dialing", func() {
			relay.Password = ""
			err := relay.Send(context.Background(), Submission{})
			So(errors.Is(err, ErrRelay), ShouldBeTrue)
			So(addr, ShouldEqual, "")
		})
	})
}

type memStore struct {
	statuses map[string]string
	reasons  map[string]string
}

func (m *memStore) SaveMessage(_ context.Context, id string, _ Form, status string, _ time.Time) error {
	m.statuses[id] = status
	return nil
}

func (m *memStore) UpdateMessageStatus(_ context.Context, id, status, reason string) error {
	m.statuses[id] = status
	m.reasons[id] = reason
	return nil
}

type stubRelay struct {
	err   error
	calls int
}

func (s *stubRelay) Name() string { return "stub" }
func (s *stubRelay) Send(context.Context, Submission) error {
	s.calls++
	return s.err
}

func TestService(t *testing.T) {
	Convey("Given a contact service", t, func() {
		store := &memStore{statuses: map[string]string{}, reasons: map[string]string{}}
		relay := &stubRelay{}
		var outcomes []string
		svc := NewService(relay, WithStore(store), WithObserver(func(o string) { outcomes = append(outcomes, o) }))
		svc.newID = func() string { return "msg-1" }
		valid := Form{Name: " Ada ", Email: "ada@example.com", Message: "I would like to talk."}

		Convey("Invalid forms are rejected before relaying", func() {
			_, err := svc.Submit(context.Background(), Form{Name: "Ada"})
			var verr *ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Fields["email"], ShouldEqual, CodeRequired)
			So(relay.calls, ShouldEqual, 0)
			So(store.statuses, ShouldBeEmpty)
			So(outcomes, ShouldResemble, []string{"invalid"})
		})

		Convey("Valid forms are recorded and relayed", func() {
			id, err := svc.Submit(context.Background(), valid)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "msg-1")
			So(relay.calls, ShouldEqual, 1)
			So(store.statuses["msg-1"], ShouldEqual, StatusSent)
			So(outcomes, ShouldResemble, []string{StatusSent})
		})

		Convey("Relay failures are surfaced and not retried", func() {
			relay.err = ErrRelay
			_, err := svc.Submit(context.Background(), valid)
			So(errors.Is(err, ErrRelay), ShouldBeTrue)
			So(relay.calls, ShouldEqual, 1)
			So(store.statuses["msg-1"], ShouldEqual, StatusFailed)
			So(store.reasons["msg-1"], ShouldNotBeEmpty)
		})
	})
}
