// internal/api/router.go
//
// HTTP surface of the configuration service.
//
// Routes
// ------
//
//	GET    /api/v1/config                public ServerConfigView
//	GET    /api/v1/config/about          public AboutView
//	GET    /api/v1/config/custom         admin, merged CustomConfig
//	GET    /api/v1/config/custom/{path}  admin, one leaf by dotted path
//	PUT    /api/v1/config/custom         admin, apply an update tree
//	DELETE /api/v1/config/custom         admin, drop every override
//	GET    /api/v1/config/pipeline       admin, live media pipeline policy
//	GET    /healthz                      liveness plus database ping
//	GET    /metrics                      Prometheus
//	GET    /*                            client page
//
// Middleware order, outermost first: request ID, real IP, panic recovery,
// access log, security headers, HTTPS redirect.  Admin routes additionally
// require the bearer token, and the two write routes are rate limited per
// client IP.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/siteconf/internal/auth"
	"github.com/yanizio/siteconf/internal/middleware"
	"github.com/yanizio/siteconf/internal/pipeline"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/settings"
)

// ConfigService is the subset of *serverconfig.Service the handlers use.
type ConfigService interface {
	Config(ctx context.Context) serverconfig.ServerConfigView
	About() serverconfig.AboutView
	Custom() settings.CustomConfig
	Lookup(path string) (any, error)
	Update(ctx context.Context, body settings.Overrides) (*serverconfig.Snapshot, error)
	Delete(ctx context.Context) (*serverconfig.Snapshot, error)
}

// PolicySource publishes the media pipeline policy.  *pipeline.Holder
// satisfies it.
type PolicySource interface {
	Policy() pipeline.Policy
	Applied() uint64
}

// Options wires the outer surfaces.
type Options struct {
	AdminToken     string
	WriteRateLimit int // requests per minute per client IP, 0 = unlimited
	ForceHTTPS     bool
	Page           http.Handler                // client page, nil = 404
	Health         func(context.Context) error // nil = always healthy
	Pipeline       PolicySource                // nil = route not mounted
}

// New builds the full handler tree.
func New(svc ConfigService, opts Options) http.Handler {
	h := &handlers{svc: svc, pipeline: opts.Pipeline}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.AccessLog, middleware.Security, middleware.ForceHTTPS(opts.ForceHTTPS))

	r.Get("/healthz", health(opts.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/config", func(r chi.Router) {
		r.Get("/", h.getConfig)
		r.Get("/about", h.getAbout)
		if opts.Pipeline != nil {
			r.With(auth.RequireToken(opts.AdminToken)).Get("/pipeline", h.getPipeline)
		}

		r.Route("/custom", func(r chi.Router) {
			r.Use(auth.RequireToken(opts.AdminToken))
			r.Get("/", h.getCustom)
			r.Get("/{path}", h.getLeaf)

			r.Group(func(r chi.Router) {
				if opts.WriteRateLimit > 0 {
					r.Use(httprate.LimitByIP(opts.WriteRateLimit, time.Minute))
				}
				r.Put("/", h.putCustom)
				r.Delete("/", h.deleteCustom)
			})
		})
	})

	if opts.Page != nil {
		r.Get("/*", opts.Page.ServeHTTP)
	}
	return r
}

func health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
