// Package api exposes the schedule store read-only over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Lion-killer/FiatLux/internal/export"
	"github.com/Lion-killer/FiatLux/internal/store"
)

const (
	cacheKeyCurrent = "fiatlux:schedule:current"
	cacheKeyFuture  = "fiatlux:schedule:future"
	cacheKeyAll     = "fiatlux:schedule:all"

	exportHistoryLimit = 100
)

// Options configures the API server.
type Options struct {
	Logger         *zerolog.Logger
	HistoryLimit   int
	RateLimitRPS   float64
	RateLimitBurst int
	// Redis enables response caching when set together with CacheTTL.
	Redis    *redis.Client
	CacheTTL time.Duration
}

// Server serves the read-only schedule API.
type Server struct {
	store        *store.Store
	cache        *responseCache
	logger       *zerolog.Logger
	historyLimit int
	limiter      *rate.Limiter
}

// NewServer wires the store to an API server.
func NewServer(st *store.Store, opts Options) *Server {
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 10
	}
	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 20
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 30
	}
	return &Server{
		store:        st,
		cache:        newResponseCache(opts.Redis, opts.CacheTTL),
		logger:       opts.Logger,
		historyLimit: historyLimit,
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if s.logger != nil {
		r.Use(requestLogger(s.logger))
	}
	r.Use(rateLimit(s.limiter))

	v1 := r.Group("/api/v1/schedule")
	{
		v1.GET("/current", s.handleCurrent)
		v1.GET("/future", s.handleFuture)
		v1.GET("/all", s.handleAll)
		v1.GET("/history", s.handleHistory)
		v1.GET("/stats", s.handleStats)
		v1.GET("/export", s.handleExport)
	}

	return r
}

// InvalidateCache drops the cached schedule responses, typically right after
// a new announcement is saved so clients never wait out the TTL.
func (s *Server) InvalidateCache(ctx context.Context) {
	s.cache.invalidate(ctx, cacheKeyCurrent, cacheKeyFuture, cacheKeyAll)
}

func (s *Server) handleCurrent(c *gin.Context) {
	s.cached(c, cacheKeyCurrent, func() (interface{}, bool) {
		sched := s.store.GetCurrentSchedule()
		return sched, sched != nil
	})
}

func (s *Server) handleFuture(c *gin.Context) {
	s.cached(c, cacheKeyFuture, func() (interface{}, bool) {
		sched := s.store.GetFutureSchedule()
		return sched, sched != nil
	})
}

func (s *Server) handleAll(c *gin.Context) {
	s.cached(c, cacheKeyAll, func() (interface{}, bool) {
		return s.store.GetAllSchedules(), true
	})
}

// cached serves the payload from Redis when possible; misses render, cache
// and serve. Empty results are never cached so a fresh announcement shows up
// immediately.
func (s *Server) cached(c *gin.Context, key string, load func() (interface{}, bool)) {
	if payload, ok := s.cache.read(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	value, found := load()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no schedule available"})
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode schedule"})
		return
	}
	s.cache.write(c.Request.Context(), key, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := s.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	history := s.store.GetHistory(limit)
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

func (s *Server) handleStats(c *gin.Context) {
	snapshot := s.store.GetAllSchedules()
	c.JSON(http.StatusOK, gin.H{
		"count":       s.store.GetCount(),
		"has_current": snapshot.Current != nil,
		"has_future":  snapshot.Future != nil,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	history := s.store.GetHistory(exportHistoryLimit)

	filename := fmt.Sprintf("outage_history_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := export.WriteHistory(c.Writer, history); err != nil {
		if s.logger != nil {
			s.logger.Error().Err(err).Msg("history export failed")
		}
		c.Status(http.StatusInternalServerError)
	}
}
