// Package api exposes the quiz over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/catalog"
	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/monitoring"
	"github.com/sells-group/clinic-quiz/internal/scorer"
)

// Submitter records a validated submission.
type Submitter interface {
	Submit(ctx context.Context, sub model.Submission) model.SubmitResult
}

// InquiryLister lists stored inquiries for the admin view.
type InquiryLister interface {
	List(ctx context.Context) ([]model.SubmissionView, error)
}

// MetricsSource reports submission tier counts.
type MetricsSource interface {
	Snapshot() *monitoring.MetricsSnapshot
}

// Options configures the router.
type Options struct {
	Catalog   *catalog.Catalog
	Engine    *scorer.Engine
	Submitter Submitter
	Lister    InquiryLister

	// Metrics backs GET /api/admin/metrics when set.
	Metrics MetricsSource

	CORSOrigins []string

	// SubmitRatePerMin limits inquiry submissions per client IP. Zero
	// disables the limit.
	SubmitRatePerMin int
	SubmitBurst      int

	// AdminUsername and AdminPasswordHash (bcrypt) guard the admin routes.
	// The routes are not mounted when the hash is empty.
	AdminUsername     string
	AdminPasswordHash string

	// Now is used for submission timestamps. Defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	opts Options
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handler{opts: opts}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.questions)
		r.Get("/solutions/{id}", h.solution)
		r.Post("/recommend", h.recommend)

		r.With(newIPRateLimiter(opts.SubmitRatePerMin, opts.SubmitBurst).middleware).
			Post("/inquiry", h.submitInquiry)

		if opts.AdminPasswordHash != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(basicAuth(opts.AdminUsername, opts.AdminPasswordHash))
				r.Get("/inquiries", h.listInquiries)
				r.Get("/inquiries/export", h.exportInquiries)
				if opts.Metrics != nil {
					r.Get("/metrics", h.metrics)
				}
			})
		} else {
			zap.L().Info("api: admin routes disabled, no password hash configured")
		}
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote", r.RemoteAddr),
		)
	})
}
