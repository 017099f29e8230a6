package section

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func pageList() *List {
	return MustList(
		Section{ID: "home"},
		Section{ID: "about"},
		Section{ID: "skills"},
		Section{ID: "contact"},
	)
}

func TestNewList(t *testing.T) {
	Convey("Given section definitions", t, func() {
		Convey("An empty list is rejected", func() {
			_, err := NewList()
			So(errors.Is(err, ErrEmptyList), ShouldBeTrue)
		})

		Convey("Duplicate ids are rejected", func() {
			_, err := NewList(Section{ID: "home"}, Section{ID: "home"})
			So(errors.Is(err, ErrDuplicateSection), ShouldBeTrue)
		})

		Convey("Empty ids are rejected", func() {
			_, err := NewList(Section{ID: ""})
			So(errors.Is(err, ErrUnknownSection), ShouldBeTrue)
		})

		Convey("The default list keeps page order", func() {
			l := Default()
			So(l.IDs(), ShouldResemble, []string{"home", "about", "skills", "projects", "contact"})
			So(l.First(), ShouldEqual, "home")
			So(l.Position("projects"), ShouldEqual, 3)
			So(l.Position("footer"), ShouldEqual, -1)
		})
	})
}

func TestBandStrategy(t *testing.T) {
	Convey("Given the mid-viewport band on a 1000px viewport", t, func() {
		l := pageList()
		s := NewBandStrategy()

		Convey("Only about crosses the band", func() {
			id, ok := s.Resolve(l, Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "home", Top: -900, Bottom: -100},
				{ID: "about", Top: -100, Bottom: 700},
				{ID: "skills", Top: 700, Bottom: 1500},
			}})
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "about")
		})

		Convey("Two sections crossing in one batch resolve to the later report", func() {
			snap := Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "about", Top: 0, Bottom: 450},
				{ID: "skills", Top: 450, Bottom: 1200},
			}}
			for i := 0; i < 5; i++ {
				id, ok := s.Resolve(l, snap)
				So(ok, ShouldBeTrue)
				So(id, ShouldEqual, "skills")
			}
		})

		Convey("Unknown ids never become active", func() {
			_, ok := s.Resolve(l, Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "footer", Top: 0, Bottom: 1000},
			}})
			So(ok, ShouldBeFalse)
		})

		Convey("A rect touching the band edge does not intersect", func() {
			_, ok := s.Resolve(l, Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "home", Top: 0, Bottom: 400},
				{ID: "about", Top: 600, Bottom: 900},
			}})
			So(ok, ShouldBeFalse)
		})

		Convey("A zero viewport resolves nothing", func() {
			_, ok := s.Resolve(l, Snapshot{Rects: []Rect{{ID: "home", Top: 0, Bottom: 10}}})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestThresholdStrategy(t *testing.T) {
	Convey("Given the navbar 150px probe", t, func() {
		l := pageList()
		s := NewThresholdStrategy("home", "about", "skills", "contact")

		Convey("The first section in priority order straddling the line wins", func() {
			id, ok := s.Resolve(l, Snapshot{ViewportHeight: 800, Rects: []Rect{
				{ID: "skills", Top: 100, Bottom: 900},
				{ID: "about", Top: -500, Bottom: 150},
			}})
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "about")
		})

		Convey("Missing sections are skipped", func() {
			id, ok := s.Resolve(l, Snapshot{ViewportHeight: 800, Rects: []Rect{
				{ID: "contact", Top: 0, Bottom: 800},
			}})
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "contact")
		})

		Convey("No section on the line resolves nothing", func() {
			_, ok := s.Resolve(l, Snapshot{ViewportHeight: 800, Rects: []Rect{
				{ID: "home", Top: 200, Bottom: 800},
			}})
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given strategy names", t, func() {
		s, err := StrategyByName("threshold", Default())
		So(err, ShouldBeNil)
		So(s.Name(), ShouldEqual, "threshold")
		So(s.(ThresholdStrategy).Priority, ShouldResemble, []string{"home", "about", "skills", "contact"})

		s, err = StrategyByName("", Default())
		So(err, ShouldBeNil)
		So(s.Name(), ShouldEqual, "band")

		_, err = StrategyByName("raf", Default())
		So(errors.Is(err, ErrUnknownStrategy), ShouldBeTrue)
	})
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker over four sections", t, func() {
		l := pageList()
		tr := NewTracker(l, NewBandStrategy())

		Convey("It has no active section before it starts", func() {
			So(tr.Active(), ShouldEqual, "")
			So(tr.Started(), ShouldBeFalse)
		})

		Convey("Starting falls back to the first section", func() {
			tr.Start()
			So(tr.Active(), ShouldEqual, "home")
		})

		Convey("Observing moves to the section in the band and notifies", func() {
			var changes []string
			tr.Subscribe(func(id string) { changes = append(changes, id) })

			id, err := tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "about", Top: -100, Bottom: 700},
			}})
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "about")
			So(changes, ShouldResemble, []string{"home", "about"})

			Convey("A batch with nothing in the band keeps the current section", func() {
				id, err := tr.Observe(Snapshot{ViewportHeight: 1000})
				So(err, ShouldBeNil)
				So(id, ShouldEqual, "about")
				So(changes, ShouldResemble, []string{"home", "about"})
			})
		})

		Convey("The active id is always a configured id", func() {
			tr.Start()
			batches := []Snapshot{
				{ViewportHeight: 1000, Rects: []Rect{{ID: "ghost", Top: 0, Bottom: 1000}}},
				{ViewportHeight: 1000, Rects: []Rect{{ID: "contact", Top: 300, Bottom: 900}}},
				{ViewportHeight: 0},
			}
			for _, b := range batches {
				id, err := tr.Observe(b)
				So(err, ShouldBeNil)
				So(l.Has(id), ShouldBeTrue)
			}
		})

		Convey("Scrolling back up switches as soon as the upper section enters the band", func() {
			tr.Start()
			id, _ := tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "about", Top: -600, Bottom: 300},
				{ID: "skills", Top: 300, Bottom: 1200},
			}})
			So(id, ShouldEqual, "skills")

			id, _ = tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
				{ID: "about", Top: -400, Bottom: 500},
				{ID: "skills", Top: 500, Bottom: 1400},
			}})
			So(id, ShouldEqual, "about")

			Convey("and a section lingering in the band does not take it back", func() {
				id, _ := tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
					{ID: "about", Top: -350, Bottom: 550},
					{ID: "skills", Top: 550, Bottom: 1450},
				}})
				So(id, ShouldEqual, "about")
			})

			Convey("and scrolling down again hands it back when skills re-enters", func() {
				id, _ := tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
					{ID: "about", Top: -100, Bottom: 800},
					{ID: "skills", Top: 800, Bottom: 1700},
				}})
				So(id, ShouldEqual, "about")

				id, _ = tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{
					{ID: "about", Top: -450, Bottom: 450},
					{ID: "skills", Top: 450, Bottom: 1350},
				}})
				So(id, ShouldEqual, "skills")
			})
		})

		Convey("A batch without a viewport height keeps the band state", func() {
			tr.Start()
			tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{{ID: "about", Top: 0, Bottom: 900}}})
			id, err := tr.Observe(Snapshot{Rects: []Rect{{ID: "about", Top: 0, Bottom: 900}}})
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "about")
		})

		Convey("Concurrent observers settle on a configured section", func() {
			var (
				mu    sync.Mutex
				calls int
			)
			tr.Subscribe(func(string) {
				mu.Lock()
				calls++
				mu.Unlock()
			})

			ids := []string{"about", "skills", "contact"}
			var wg sync.WaitGroup
			for i := 0; i < 30; i++ {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					tr.Observe(Snapshot{ViewportHeight: 1000, Rects: []Rect{{ID: id, Top: 0, Bottom: 1000}}})
				}(ids[i%len(ids)])
			}
			wg.Wait()

			So(l.Has(tr.Active()), ShouldBeTrue)
			mu.Lock()
			defer mu.Unlock()
			So(calls, ShouldBeBetweenOrEqual, 1, 31)
		})

		Convey("Stopping releases subscriptions and rejects observations", func() {
			tr.Subscribe(func(string) {})
			tr.Start()
			tr.Stop()
			So(tr.Subscribers(), ShouldEqual, 0)
			_, err := tr.Observe(Snapshot{ViewportHeight: 100})
			So(errors.Is(err, ErrStopped), ShouldBeTrue)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry with a 1 minute TTL", t, func() {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		created := 0
		r := NewRegistry(pageList(), NewBandStrategy(),
			WithTTL(time.Minute),
			WithOnCreate(func(*Tracker) { created++ }),
		)
		r.now = func() time.Time { return now }

		Convey("Trackers are created started, once per session", func() {
			a := r.Get("a")
			So(a.Active(), ShouldEqual, "home")
			So(r.Get("a"), ShouldEqual, a)
			So(created, ShouldEqual, 1)
			So(r.Len(), ShouldEqual, 1)
		})

		Convey("Idle trackers are swept and stopped", func() {
			a := r.Get("a")
			now = now.Add(2 * time.Minute)
			b := r.Get("b")

			So(r.Sweep(), ShouldEqual, 1)
			So(a.Stopped(), ShouldBeTrue)
			So(b.Stopped(), ShouldBeFalse)
			So(r.Len(), ShouldEqual, 1)
		})

		Convey("Release stops a single session", func() {
			a := r.Get("a")
			r.Release("a")
			So(a.Stopped(), ShouldBeTrue)
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("Run releases everything when the context ends", func() {
			a := r.Get("a")
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				r.Run(ctx, time.Hour, nil)
				close(done)
			}()
			cancel()
			<-done
			So(a.Stopped(), ShouldBeTrue)
			So(r.Len(), ShouldEqual, 0)
		})
	})
}
