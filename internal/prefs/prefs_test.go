package prefs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFromRequest(t *testing.T) {
	Convey("Given default preferences", t, func() {
		def := Preferences{Theme: Dark, Language: Turkish}

		Convey("A request without cookies gets the defaults", func() {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			So(FromRequest(r, def), ShouldResemble, def)
		})

		Convey("Cookies override the defaults", func() {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "light"})
			r.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "EN"})
			p := FromRequest(r, def)
			So(p.Theme, ShouldEqual, Light)
			So(p.Language, ShouldEqual, English)
			So(p.Dark(), ShouldBeFalse)
		})

		Convey("Unknown cookie values fall back", func() {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "neon"})
			So(FromRequest(r, def).Theme, ShouldEqual, Dark)
		})

		Convey("Written cookies round-trip", func() {
			w := httptest.NewRecorder()
			Write(w, Preferences{Theme: Light, Language: English})
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range w.Result().Cookies() {
				r.AddCookie(c)
			}
			So(FromRequest(r, def), ShouldResemble, Preferences{Theme: Light, Language: English})
		})
	})
}

func TestToggle(t *testing.T) {
	Convey("Toggling flips the value", t, func() {
		So(Dark.Toggle(), ShouldEqual, Light)
		So(Light.Toggle(), ShouldEqual, Dark)
		So(Turkish.Toggle(), ShouldEqual, English)
		So(English.Toggle(), ShouldEqual, Turkish)
	})
}

func TestNotifier(t *testing.T) {
	Convey("Given a notifier with one subscriber", t, func() {
		n := NewNotifier()
		var got []Change
		unsubscribe := n.Subscribe(func(c Change) { got = append(got, c) })

		from := Preferences{Theme: Dark, Language: Turkish}
		to := Preferences{Theme: Light, Language: Turkish}

		Convey("Changes are delivered", func() {
			n.Publish(Change{From: from, To: to})
			So(got, ShouldResemble, []Change{{From: from, To: to}})
		})

		Convey("No-op changes are not delivered", func() {
			n.Publish(Change{From: from, To: from})
			So(got, ShouldBeEmpty)
		})

		Convey("Unsubscribed callbacks are skipped", func() {
			unsubscribe()
			n.Publish(Change{From: from, To: to})
			So(got, ShouldBeEmpty)
		})
	})
}
