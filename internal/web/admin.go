package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/elvannunal/portfolio/internal/logger"
	"github.com/elvannunal/portfolio/internal/store"
)

const (
	adminCookie       = "admin_token"
	adminCookieMaxAge = 24 * 60 * 60
	visitorPageSize   = 200
	messagePageSize   = 100
)

// adminAuth holds the per-process admin session token and the salt used to
// hash visitor IPs. Both are regenerated on every start, so a restart logs
// the admin out and unlinks visitor hashes from earlier runs.
type adminAuth struct {
	username string
	password string
	token    string
	salt     string
}

func newAdminAuth(username, password string) (*adminAuth, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, errors.Wrap(err, "generate admin token")
	}
	salt, err := randomHex(32)
	if err != nil {
		return nil, errors.Wrap(err, "generate hashing salt")
	}
	return &adminAuth{username: username, password: password, token: token, salt: salt}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// enabled reports whether admin login is possible at all.
func (a *adminAuth) enabled() bool { return a.password != "" }

func (a *adminAuth) check(username, password string) bool {
	if !a.enabled() {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

func (a *adminAuth) valid(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// hashIP returns a truncated salted hash, consistent per IP for the life of
// the process.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !s.admin.valid(token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	log := s.log.Named("admin")
	if !s.admin.enabled() {
		log.Warn(context.Background(), "admin password not set, admin login disabled")
	}

	r.GET("/privacy", func(c *gin.Context) {
		p := s.preferences(c)
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"Dark":          p.Dark(),
			"Lang":          p.Lang(),
			"retentionDays": s.cfg.VisitorRetentionDays,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":    "Admin Login",
			"disabled": !s.admin.enabled(),
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		ctx := c.Request.Context()
		who := logger.String("client", s.admin.hashIP(c.ClientIP()))

		if !s.admin.check(c.PostForm("username"), c.PostForm("password")) {
			log.Warn(ctx, "failed admin login attempt", who)
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title":    "Admin Login",
				"error":    "Invalid credentials",
				"disabled": !s.admin.enabled(),
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, adminCookieMaxAge, "/admin", "", false, true)
		log.Info(ctx, "admin login", who)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Info(c.Request.Context(), "admin logout", logger.String("client", s.admin.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.requireAdmin())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			log.Error(c.Request.Context(), "loading admin stats failed", logger.Err(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"trackers": s.trackers.Len(),
			"strategy": s.strategy.Name(),
			"relay":    s.contact.Relay().Name(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.store.Messages(c.Request.Context(), messagePageSize)
		if err != nil {
			log.Error(c.Request.Context(), "loading messages failed", logger.Err(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": messages})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.store.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		case err != nil:
			log.Error(c.Request.Context(), "deleting message failed", logger.String("id", id), logger.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		default:
			log.Info(c.Request.Context(), "message deleted", logger.String("id", id))
			c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
		}
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisits(c.Request.Context(), visitorPageSize)
		if err != nil {
			log.Error(c.Request.Context(), "loading visitors failed", logger.Err(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		ctx := c.Request.Context()
		cutoff := time.Now().AddDate(0, 0, -s.cfg.VisitorRetentionDays)
		n, err := s.store.PruneVisits(ctx, cutoff)
		if err != nil {
			log.Error(ctx, "privacy cleanup failed", logger.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		s.metrics.RecordVisitorsPruned(n)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Info(c.Request.Context(), "admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}
