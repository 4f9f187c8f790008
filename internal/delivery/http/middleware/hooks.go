package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestInfo is the read-only view of a finished request handed to hooks.
type RequestInfo struct {
	Method  string
	Route   string
	Path    string
	Status  int
	Latency time.Duration
	UserID  string
}

type Hook func(info RequestInfo)

// Hooks runs registered callbacks once per request after the handler chain
// has finished. Hooks only see a snapshot and cannot touch the response.
type Hooks struct {
	mu    sync.RWMutex
	hooks []Hook
}

func NewHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) Register(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

func (h *Hooks) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			info := RequestInfo{
				Method:  c.Request.Method,
				Route:   route,
				Path:    c.Request.URL.Path,
				Status:  c.Writer.Status(),
				Latency: time.Since(start),
				UserID:  c.GetHeader(UserIDHeader),
			}
			h.run(info)
		}()
		c.Next()
	}
}

func (h *Hooks) run(info RequestInfo) {
	h.mu.RLock()
	hooks := append([]Hook(nil), h.hooks...)
	h.mu.RUnlock()
	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("post-response hook panicked", "route", info.Route, "panic", r)
				}
			}()
			hook(info)
		}()
	}
}

// AccessLog logs every finished request.
func AccessLog(info RequestInfo) {
	level := slog.LevelInfo
	if info.Status >= 500 {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, "http request",
		"method", info.Method,
		"route", info.Route,
		"status", info.Status,
		"latency_ms", info.Latency.Milliseconds(),
		"user_id", info.UserID,
	)
}
