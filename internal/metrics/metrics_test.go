package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := New()

		Convey("Counters track recorded events", func() {
			m.RecordLayout("desktop")
			m.RecordLayout("desktop")
			m.RecordContact("sent")
			m.RecordSectionChange("about")
			m.RecordTrackersReleased(3)
			m.SetActiveTrackers(4)

			So(testutil.ToFloat64(m.layouts.WithLabelValues("desktop")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.contactSubmissions.WithLabelValues("sent")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.sectionChanges.WithLabelValues("about")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.trackersReleased), ShouldEqual, 3)
			So(testutil.ToFloat64(m.activeTrackers), ShouldEqual, 4)
		})

		Convey("The handler exposes the site metrics", func() {
			m.ObserveHTTP("/", "GET", "200", 15*time.Millisecond)
			m.RecordPrefChange("theme", "light")

			w := httptest.NewRecorder()
			m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
			body, _ := io.ReadAll(w.Body)

			So(w.Code, ShouldEqual, 200)
			So(string(body), ShouldContainSubstring, `portfolio_http_requests_total{method="GET",route="/",status="200"} 1`)
			So(string(body), ShouldContainSubstring, `portfolio_prefs_changes_total{kind="theme",value="light"} 1`)
		})
	})
}
