package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/elvannunal/portfolio/internal/contact"
	"github.com/elvannunal/portfolio/internal/logger"
	"github.com/elvannunal/portfolio/internal/prefs"
	"github.com/elvannunal/portfolio/internal/section"
	"github.com/elvannunal/portfolio/internal/viewport"
)

// initialWidth is the layout width assumed before the browser reports its
// viewport.
const initialWidth = viewport.DesktopMin

func (s *Server) handleIndex(c *gin.Context) {
	sid := s.session(c)
	p := s.preferences(c)

	width := initialWidth
	if w, err := strconv.Atoi(c.Query("w")); err == nil && w >= 0 {
		width = w
	}

	// A fresh page starts from the top: drop any tracker left over from a
	// previous page load of this session.
	s.trackers.Release(sid)
	tracker := s.trackers.Get(sid)
	s.screens.reset(sid, width)

	c.HTML(http.StatusOK, "index.html", s.pageView(s.firstSection(tracker), width, p))
}

func (s *Server) handleSkills(c *gin.Context) {
	width, err := strconv.Atoi(c.Query("w"))
	if err != nil {
		c.String(http.StatusBadRequest, "w must be an integer width")
		return
	}
	sid := s.session(c)

	_, rerender := s.screens.resize(sid, width)
	if !rerender && c.GetHeader("HX-Request") == "true" {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "skills", s.skillsView(width, s.preferences(c)))
}

func (s *Server) handleObserve(c *gin.Context) {
	var snap section.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot"})
		return
	}
	sid := s.session(c)
	ctx := c.Request.Context()

	tracker := s.trackers.Get(sid)
	prev := tracker.Active()
	active, err := tracker.Observe(snap)
	if errors.Is(err, section.ErrStopped) {
		// Swept between Get and Observe; start over with a fresh tracker.
		s.trackers.Release(sid)
		tracker = s.trackers.Get(sid)
		prev = tracker.Active()
		active, err = tracker.Observe(snap)
	}
	if err != nil {
		s.log.Error(ctx, "section observation failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "observation failed"})
		return
	}
	s.metrics.RecordObservation()
	changed := active != prev

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{"active": active, "changed": changed, "strategy": tracker.Strategy().Name()})
		return
	}
	if !changed {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "nav-fragments", s.navView(active, s.preferences(c)))
}

// handleContactForm renders an empty contact form so the error state can be
// retried without reloading the page.
func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", s.contactView(s.preferences(c), contact.Form{}, nil))
}

func (s *Server) handleContact(c *gin.Context) {
	p := s.preferences(c)
	ctx := c.Request.Context()

	var f contact.Form
	if err := c.ShouldBind(&f); err != nil {
		s.log.Debug(ctx, "contact form bind failed", logger.Err(err))
	}

	_, err := s.contact.Submit(ctx, f)
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusOK, "contact-form", s.contactView(p, f.Normalize(), verr.Fields))
	case err != nil:
		c.HTML(http.StatusOK, "contact-error", gin.H{
			"error": s.site.T(p.Lang()).Contact["error"],
			"Dark":  p.Dark(),
		})
	default:
		c.HTML(http.StatusOK, "contact-success", gin.H{
			"success": s.site.T(p.Lang()).Contact["success"],
			"Dark":    p.Dark(),
		})
	}
}

func (s *Server) handleToggleTheme(c *gin.Context) {
	p := s.preferences(c)
	next := p
	next.Theme = p.Theme.Toggle()
	s.applyPreferences(c, p, next)
}

func (s *Server) handleLanguage(c *gin.Context) {
	p := s.preferences(c)
	next := p
	if raw := c.Query("lang"); raw != "" {
		lang, ok := prefs.ParseLanguage(raw)
		if !ok {
			c.String(http.StatusBadRequest, "unsupported language")
			return
		}
		next.Language = lang
	} else {
		next.Language = p.Language.Toggle()
	}
	s.applyPreferences(c, p, next)
}

func (s *Server) applyPreferences(c *gin.Context, from, to prefs.Preferences) {
	prefs.Write(c.Writer, to)
	s.notifier.Publish(prefs.Change{From: from, To: to})

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Trigger", "prefs-changed")
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "trackers": s.trackers.Len()})
}
