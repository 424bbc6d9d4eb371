package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/metrics"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/internal/service"
)

// LinkService defines the interface for the core short link business logic.
type LinkService interface {
	// Shorten maps the original URL to a short code, reusing the existing
	// link when the URL was already shortened. A non-positive ttl selects
	// the configured default.
	Shorten(ctx context.Context, originalURL string, ttl time.Duration) (*models.Link, error)

	// Resolve returns the link for a short code, counting the access and
	// logging the origin. It fails distinctly for unknown and expired codes.
	Resolve(ctx context.Context, code, origin string) (*service.Resolution, error)

	// Report returns link metadata and the ordered access history.
	// It stays available after the link has expired.
	Report(ctx context.Context, code string) (*models.LinkReport, error)
}

// getValidate initializes a new validator instance for validating incoming request payloads.
// It customizes tag name extraction from struct fields to match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
func NewRouter(logger *httplog.Logger, linkSvc LinkService) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/metrics", metrics.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		validate := getValidate()

		r.Get("/ping", handlePing)
		r.Post("/shorten", handleShortenURL(linkSvc, validate))
		r.Get("/analytics/{code}", handleLinkReport(linkSvc))
	})

	r.Get("/{code}", handleRedirect(linkSvc))

	return r
}
