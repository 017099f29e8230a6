package web

import (
	"fmt"
	"html/template"
	"time"

	"github.com/elvannunal/portfolio/internal/contact"
	"github.com/elvannunal/portfolio/internal/content"
	"github.com/elvannunal/portfolio/internal/prefs"
	"github.com/elvannunal/portfolio/internal/section"
	"github.com/elvannunal/portfolio/internal/skills"
	"github.com/elvannunal/portfolio/internal/viewport"
)

// navbarLinks are the sections linked from the top navbar.
var navbarLinks = []string{"about", "skills", "projects", "contact"}

var templateFuncs = template.FuncMap{
	// px formats a pixel offset for inline transforms.
	"px": func(v float64) template.CSS {
		return template.CSS(fmt.Sprintf("%.2fpx", v))
	},
	"twice": func(v float64) float64 { return 2 * v },
	"delay": func(ring, index int) template.CSS {
		return template.CSS(fmt.Sprintf("%dms", (ring*10+index)*30))
	},
}

type navItem struct {
	ID     string
	Label  string
	Active bool
}

type navView struct {
	Active string
	Dots   []navItem
	Links  []navItem
	Dark   bool
}

type skillsView struct {
	Layout skills.Result
	Width  int
	Lang   string
	Dark   bool
	T      *content.Translations
	Cats   []skills.Category
}

type contactView struct {
	T      *content.Translations
	Form   contact.Form
	Errors map[string]string
	Dark   bool
}

type pageView struct {
	Prefs    prefs.Preferences
	Lang     string
	Dark     bool
	T        *content.Translations
	Site     *content.Site
	Nav      navView
	Skills   skillsView
	Contact  contactView
	Strategy string
	Year     int
}

func (s *Server) navView(active string, p prefs.Preferences) navView {
	t := s.site.T(p.Lang())
	v := navView{Active: active, Dark: p.Dark()}
	for _, sec := range s.sections.Sections() {
		v.Dots = append(v.Dots, navItem{ID: sec.ID, Label: t.Label(sec.LabelKey), Active: sec.ID == active})
	}
	for _, id := range navbarLinks {
		if !s.sections.Has(id) {
			continue
		}
		label, ok := t.Nav[id]
		if !ok {
			label = id
		}
		v.Links = append(v.Links, navItem{ID: id, Label: label, Active: id == active})
	}
	return v
}

func (s *Server) skillsView(width int, p prefs.Preferences) skillsView {
	mode := viewport.Classify(width)
	s.metrics.RecordLayout(mode.String())
	return skillsView{
		Layout: skills.Layout(s.site.Categories, s.site.Skills, mode),
		Width:  width,
		Lang:   p.Lang(),
		Dark:   p.Dark(),
		T:      s.site.T(p.Lang()),
		Cats:   s.site.Categories,
	}
}

func (s *Server) contactView(p prefs.Preferences, f contact.Form, fe contact.FieldErrors) contactView {
	t := s.site.T(p.Lang())
	v := contactView{T: t, Form: f, Dark: p.Dark()}
	if len(fe) > 0 {
		v.Errors = make(map[string]string, len(fe))
		for field := range fe {
			v.Errors[field] = t.Contact[fe.MessageKey(field)]
		}
	}
	return v
}

func (s *Server) pageView(active string, width int, p prefs.Preferences) pageView {
	return pageView{
		Prefs:    p,
		Lang:     p.Lang(),
		Dark:     p.Dark(),
		T:        s.site.T(p.Lang()),
		Site:     s.site,
		Nav:      s.navView(active, p),
		Skills:   s.skillsView(width, p),
		Contact:  s.contactView(p, contact.Form{}, nil),
		Strategy: s.strategy.Name(),
		Year:     time.Now().Year(),
	}
}

// firstSection is what a page shows as active before any observation.
func (s *Server) firstSection(t *section.Tracker) string {
	if id := t.Active(); id != "" {
		return id
	}
	return s.sections.First()
}
