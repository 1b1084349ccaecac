package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/images"
	"userprefs-backend/internal/preferences"
	"userprefs-backend/internal/services/health"
	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/identity"
	"userprefs-backend/internal/shared/metrics"
	"userprefs-backend/internal/shared/server/middleware"
	"userprefs-backend/internal/shared/server/respond"
	"userprefs-backend/internal/shared/telemetry"
)

// RouterDeps holds the collaborators the API router needs.
type RouterDeps struct {
	Config             config.Config
	Identity           identity.Extractor
	Metrics            *metrics.Metrics
	PreferencesHandler *preferences.Handler
	ImagesHandler      *images.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// The route table is served at the root and again under every stage prefix,
// so /prod/user/preferences and /user/preferences reach the same handler.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		deps.Metrics.Middleware(),
		middleware.Recovery(),
		middleware.ErrorDetails(deps.Config.ErrorDetails),
		middleware.CORS(),
		middleware.Auth(deps.Identity),
	)
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Not found")
	})

	routes := Routes(deps.PreferencesHandler, deps.ImagesHandler)
	mount(&r.RouterGroup, routes)
	for _, stage := range StagePrefixes(deps.Config.StagePrefixes, routes) {
		mount(r.Group("/"+stage), routes)
	}

	return r
}

// StagePrefixes filters the configured stage names down to ones that can be
// mounted: a single plain segment that does not clash with a real top-level
// path segment.
func StagePrefixes(configured []string, routes []Route) []string {
	reserved := firstSegments(routes)
	seen := make(map[string]struct{}, len(configured))
	var out []string
	for _, raw := range configured {
		stage := strings.Trim(strings.TrimSpace(raw), "/")
		if stage == "" || strings.ContainsAny(stage, ":*/") {
			telemetry.Warn("router.stage.skipped", map[string]any{"stage": raw, "reason": "invalid"})
			continue
		}
		if _, clash := reserved[stage]; clash {
			telemetry.Warn("router.stage.skipped", map[string]any{"stage": raw, "reason": "collides with route"})
			continue
		}
		if _, dup := seen[stage]; dup {
			continue
		}
		seen[stage] = struct{}{}
		out = append(out, stage)
	}
	return out
}

// NewAdminRouter serves operational endpoints on a separate listener so the
// API surface stays fully authenticated.
func NewAdminRouter(m *metrics.Metrics, checks *health.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/healthz", checks.Handler())
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
