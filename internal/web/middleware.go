package web

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elvannunal/portfolio/internal/logger"
	"github.com/elvannunal/portfolio/internal/store"
)

// untrackedPrefixes are paths that never count as page views.
var untrackedPrefixes = []string{
	"/static/",
	"/admin",
	"/metrics",
	"/healthz",
	"/favicon",
	"/fragments/",
	"/privacy",
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			s.log.Error(c.Request.Context(), "request", fields...)
			return
		}
		s.log.Debug(c.Request.Context(), "request", fields...)
	}
}

func (s *Server) observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// trackVisitors records GET page views with a salted hash of the client
// IP. Requests carrying DNT: 1 are not recorded.
func (s *Server) trackVisitors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" || c.GetHeader("DNT") == "1" || c.Writer.Status() >= 400 {
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		p := s.preferences(c)
		v := store.Visit{
			HashedIP:  s.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Lang:      p.Lang(),
			Theme:     string(p.Theme),
		}
		if err := s.store.RecordVisit(c.Request.Context(), v); err != nil {
			s.log.Warn(c.Request.Context(), "recording visitor failed", logger.Err(err))
		}
	}
}
