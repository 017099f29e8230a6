// Package web serves the portfolio: the server-rendered page, the HTMX
// fragments that follow the visitor's viewport and scroll position, the
// contact form, preferences and the admin area.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elvannunal/portfolio/internal/config"
	"github.com/elvannunal/portfolio/internal/contact"
	"github.com/elvannunal/portfolio/internal/content"
	"github.com/elvannunal/portfolio/internal/logger"
	"github.com/elvannunal/portfolio/internal/metrics"
	"github.com/elvannunal/portfolio/internal/prefs"
	"github.com/elvannunal/portfolio/internal/section"
	"github.com/elvannunal/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	sessionCookie = "pf_session"
	sessionMaxAge = 24 * 60 * 60

	sweepInterval = time.Minute
	pruneInterval = time.Hour
)

// Server holds the site's dependencies. Build it with New and serve
// Engine().
type Server struct {
	cfg      *config.Config
	site     *content.Site
	sections *section.List
	strategy section.Strategy
	trackers *section.Registry
	screens  *viewports
	contact  *contact.Service
	store    *store.Store
	metrics  *metrics.Manager
	notifier *prefs.Notifier
	log      logger.Logger
	admin    *adminAuth
	defaults prefs.Preferences
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Server) { s.log = l } }

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option { return func(s *Server) { s.metrics = m } }

// WithContact sets the contact service.
func WithContact(c *contact.Service) Option { return func(s *Server) { s.contact = c } }

// WithNotifier sets the preference change notifier.
func WithNotifier(n *prefs.Notifier) Option { return func(s *Server) { s.notifier = n } }

// WithSections overrides the page sections.
func WithSections(l *section.List) Option { return func(s *Server) { s.sections = l } }

// WithStrategy overrides the active-section rule from the config.
func WithStrategy(st section.Strategy) Option { return func(s *Server) { s.strategy = st } }

// New builds a Server. The store is required: it backs visitor analytics,
// contact messages and the admin area.
func New(cfg *config.Config, site *content.Site, st *store.Store, opts ...Option) (*Server, error) {
	if cfg == nil || site == nil || st == nil {
		return nil, errors.New("web: config, content and store are required")
	}
	s := &Server{
		cfg:   cfg,
		site:  site,
		store: st,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sections == nil {
		s.sections = section.Default()
	}
	if s.strategy == nil {
		strategy, err := section.StrategyByName(cfg.SectionStrategy, s.sections)
		if err != nil {
			return nil, err
		}
		s.strategy = strategy
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.notifier == nil {
		s.notifier = prefs.NewNotifier()
	}
	if s.contact == nil {
		s.contact = contact.NewService(contact.NopRelay{}, contact.WithStore(st), contact.WithLogger(s.log))
	}

	theme, _ := prefs.ParseTheme(cfg.DefaultTheme)
	lang, _ := prefs.ParseLanguage(cfg.DefaultLanguage)
	s.defaults = prefs.Preferences{Theme: theme, Language: lang}

	s.trackers = section.NewRegistry(s.sections, s.strategy,
		section.WithTTL(cfg.SessionTTL()),
		section.WithOnCreate(func(t *section.Tracker) {
			t.Subscribe(s.metrics.RecordSectionChange)
			s.metrics.SetActiveTrackers(s.trackers.Len())
		}),
	)
	s.screens = newViewports(cfg.SessionTTL())

	admin, err := newAdminAuth(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	s.admin = admin

	s.notifier.Subscribe(func(c prefs.Change) {
		if c.From.Theme != c.To.Theme {
			s.metrics.RecordPrefChange("theme", string(c.To.Theme))
		}
		if c.From.Language != c.To.Language {
			s.metrics.RecordPrefChange("lang", string(c.To.Language))
		}
	})
	return s, nil
}

// Engine builds the gin engine with every route.
func (s *Server) Engine() (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "static files")
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	if gin.IsDebugging() {
		r.Use(gin.Logger())
	} else {
		r.Use(s.requestLogger())
	}
	r.Use(s.observeRequests(), s.trackVisitors())

	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.handleIndex)
	r.GET("/fragments/skills", s.handleSkills)
	r.GET("/fragments/contact", s.handleContactForm)
	r.POST("/nav/observe", s.handleObserve)
	r.POST("/contact", s.handleContact)
	r.POST("/prefs/theme", s.handleToggleTheme)
	r.POST("/prefs/lang", s.handleLanguage)

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.setupAdminRoutes(r)
	return r, nil
}

// Run performs background maintenance until ctx is done: idle tracker and
// viewport sweeps and visitor retention cleanup. Every tracker is released
// on return, and Run does not return before the sweeper has stopped.
func (s *Server) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.trackers.Run(ctx, sweepInterval, func(released int) {
			s.metrics.RecordTrackersReleased(released)
			s.metrics.SetActiveTrackers(s.trackers.Len())
			s.screens.sweep()
		})
	}()
	defer wg.Wait()

	s.pruneVisitors(ctx)
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneVisitors(ctx)
		}
	}
}

func (s *Server) pruneVisitors(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.VisitorRetentionDays)
	n, err := s.store.PruneVisits(ctx, cutoff)
	if err != nil {
		s.log.Error(ctx, "visitor retention cleanup failed", logger.Err(err))
		return
	}
	s.metrics.RecordVisitorsPruned(n)
	if n > 0 {
		s.log.Info(ctx, "removed expired visitor records", logger.Int("rows", int(n)))
	}
}

// session returns the visitor's session id, issuing a cookie if needed.
func (s *Server) session(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
	return id
}

func (s *Server) preferences(c *gin.Context) prefs.Preferences {
	return prefs.FromRequest(c.Request, s.defaults)
}
