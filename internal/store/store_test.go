package store

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/elvannunal/portfolio/internal/contact"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestVisits(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := openTestStore(t)
		now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return now }

		So(s.RecordVisit(ctx, Visit{HashedIP: "aaa", Path: "/", Lang: "tr"}), ShouldBeNil)
		So(s.RecordVisit(ctx, Visit{HashedIP: "aaa", Path: "/", VisitedAt: now.Add(-3 * 24 * time.Hour)}), ShouldBeNil)
		So(s.RecordVisit(ctx, Visit{HashedIP: "bbb", Path: "/privacy", VisitedAt: now.Add(-400 * 24 * time.Hour)}), ShouldBeNil)

		Convey("Recent visits come newest first", func() {
			vs, err := s.RecentVisits(ctx, 10)
			So(err, ShouldBeNil)
			So(len(vs), ShouldEqual, 3)
			So(vs[0].VisitedAt, ShouldEqual, now)
			So(vs[0].Lang, ShouldEqual, "tr")
		})

		Convey("Stats count totals, uniques and windows", func() {
			st, err := s.Stats(ctx)
			So(err, ShouldBeNil)
			So(st.TotalVisitors, ShouldEqual, 3)
			So(st.UniqueVisitors, ShouldEqual, 2)
			So(st.VisitorsToday, ShouldEqual, 1)
			So(st.VisitorsThisWeek, ShouldEqual, 2)
		})

		Convey("Pruning removes visits older than the cutoff", func() {
			n, err := s.PruneVisits(ctx, now.Add(-365*24*time.Hour))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestMessages(t *testing.T) {
	Convey("Given a stored message", t, func() {
		ctx := context.Background()
		s := openTestStore(t)
		at := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		f := contact.Form{Name: "Ada", Email: "ada@example.com", Message: "Hello there!"}
		So(s.SaveMessage(ctx, "m1", f, contact.StatusPending, at), ShouldBeNil)

		Convey("Its status can be updated", func() {
			So(s.UpdateMessageStatus(ctx, "m1", contact.StatusFailed, "relay down"), ShouldBeNil)
			ms, err := s.Messages(ctx, 10)
			So(err, ShouldBeNil)
			So(len(ms), ShouldEqual, 1)
			So(ms[0].Status, ShouldEqual, contact.StatusFailed)
			So(ms[0].Reason, ShouldEqual, "relay down")
			So(ms[0].CreatedAt, ShouldEqual, at)

			st, err := s.Stats(ctx)
			So(err, ShouldBeNil)
			So(st.TotalMessages, ShouldEqual, 1)
			So(st.FailedMessages, ShouldEqual, 1)
		})

		Convey("Unknown ids are reported", func() {
			So(errors.Is(s.UpdateMessageStatus(ctx, "nope", contact.StatusSent, ""), ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.DeleteMessage(ctx, "nope"), ErrNotFound), ShouldBeTrue)
		})

		Convey("It can be deleted", func() {
			So(s.DeleteMessage(ctx, "m1"), ShouldBeNil)
			ms, err := s.Messages(ctx, 10)
			So(err, ShouldBeNil)
			So(ms, ShouldBeEmpty)
		})

		Convey("The store satisfies the contact service", func() {
			var _ contact.Store = s
		})
	})
}
