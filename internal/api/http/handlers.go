package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/database"
	"github.com/vadimbarashkov/shortlink/internal/metrics"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/internal/service"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// shortenRequest represents the request payload for shortening a URL.
// ExpiryHours mirrors the public API; zero selects the configured default TTL.
type shortenRequest struct {
	URL         string `json:"url" validate:"required,url"`
	ExpiryHours int    `json:"expiry_hours" validate:"omitempty,gt=0"`
}

// linkResponse represents the response payload for a link operation.
type linkResponse struct {
	Code        string    `json:"code"`
	URL         string    `json:"url"`
	AccessCount int64     `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// toLinkResponse converts a link model from the business layer into a response payload.
func toLinkResponse(link *models.Link) linkResponse {
	return linkResponse{
		Code:        link.Code,
		URL:         link.OriginalURL,
		AccessCount: link.AccessCount,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
	}
}

type accessLogEntryResponse struct {
	Origin     string    `json:"origin"`
	AccessedAt time.Time `json:"accessed_at"`
}

// reportResponse represents the analytics payload for a link.
type reportResponse struct {
	linkResponse
	Entries []accessLogEntryResponse `json:"entries"`
}

func toReportResponse(report *models.LinkReport) reportResponse {
	resp := reportResponse{
		linkResponse: toLinkResponse(&report.Link),
		Entries:      make([]accessLogEntryResponse, 0, len(report.Entries)),
	}

	for _, entry := range report.Entries {
		resp.Entries = append(resp.Entries, accessLogEntryResponse{
			Origin:     entry.Origin,
			AccessedAt: entry.AccessedAt,
		})
	}

	return resp
}

// handleShortenURL handles POST requests to shorten a URL.
//
// The request must contain a valid URL and an optional expiry in hours. The
// handler validates the input, calls the shortening service, and returns the
// short code with relevant metadata. Shortening the same URL twice before
// expiry returns the already assigned code.
func handleShortenURL(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleShortenURL"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		ttl := time.Duration(req.ExpiryHours) * time.Hour

		link, err := svc.Shorten(r.Context(), req.URL, ttl)
		if err != nil {
			if errors.Is(err, service.ErrGenerationExhausted) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.GenerationExhaustedResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		metrics.Shortens.Inc()

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// handleRedirect handles GET requests to redirect a short code to its original URL.
//
// Unknown codes yield 404 and expired codes 410. A successful resolution
// counts the access and logs the caller's address; an access log failure is
// logged as a warning but never turns the redirect into an error.
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		res, err := svc.Resolve(r.Context(), code, r.RemoteAddr)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			if errors.Is(err, service.ErrLinkExpired) {
				metrics.ExpiredHits.Inc()

				render.Status(r, http.StatusGone)
				render.JSON(w, r, response.LinkExpiredResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		if res.LogWarning != nil {
			metrics.LogAppendFailures.Inc()
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "warn": res.LogWarning})
		}

		metrics.Redirects.Inc()

		http.Redirect(w, r, res.Link.OriginalURL, http.StatusFound)
	}
}

// handleLinkReport handles GET requests for link analytics.
//
// The report combines link metadata with the ordered access history and stays
// available after the link has expired.
func handleLinkReport(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleLinkReport"
	const successMsg = "The link report was successfully composed."

	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		report, err := svc.Report(r.Context(), code)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toReportResponse(report)))
	}
}
