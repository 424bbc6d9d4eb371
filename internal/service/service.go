// Package service implements the short link lifecycle: shortening with
// collision handling, resolution with TTL expiry and access counting, and
// analytics reporting.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/database"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

var (
	// ErrLinkExpired is returned when a known short code is resolved past its TTL.
	ErrLinkExpired = errors.New("link expired")
	// ErrGenerationExhausted is returned when the maximum number of attempts
	// for generating a unique short code is exceeded.
	ErrGenerationExhausted = errors.New("maximum attempts exceeded for generating short code")
)

const (
	defaultTTL         = 24 * time.Hour
	defaultMaxAttempts = 5
)

// Clock supplies the current time. It is injected so expiry behavior can be
// tested with a fixed time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// LinkRepository defines the interface for working with links at the business logic layer.
type LinkRepository interface {
	// Insert persists a new link. It fails with database.ErrCodeExists
	// when the code is already taken.
	Insert(ctx context.Context, link *models.Link) (*models.Link, error)

	// GetByCode retrieves a link by its short code without side effects.
	GetByCode(ctx context.Context, code string) (*models.Link, error)

	// IncrementAccessCount atomically increments the access counter by one
	// and returns the updated link.
	IncrementAccessCount(ctx context.Context, code string) (*models.Link, error)

	// AppendLog appends an access log entry.
	AppendLog(ctx context.Context, entry *models.AccessLogEntry) error

	// ListLogs returns the access log for a code in insertion order.
	ListLogs(ctx context.Context, code string) ([]models.AccessLogEntry, error)
}

// CodeGenerator produces short code candidates for an original URL.
type CodeGenerator interface {
	Generate(originalURL string, attempt int) (string, error)
}

// Resolution is the outcome of a successful resolve. LogWarning carries a
// non-fatal access-log failure; the redirect itself has already succeeded.
type Resolution struct {
	Link       *models.Link
	LogWarning error
}

// LinkService provides methods to manage the short link lifecycle.
type LinkService struct {
	repo        LinkRepository
	gen         CodeGenerator
	clock       Clock
	ttl         time.Duration
	maxAttempts int
}

// Option configures a LinkService.
type Option func(*LinkService)

// WithClock replaces the default system clock.
func WithClock(clock Clock) Option {
	return func(s *LinkService) {
		s.clock = clock
	}
}

// WithDefaultTTL sets the TTL applied when a caller doesn't supply one.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *LinkService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxAttempts bounds the short code generation retry loop.
func WithMaxAttempts(n int) Option {
	return func(s *LinkService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewLinkService creates a new LinkService with the provided repository and code generator.
func NewLinkService(repo LinkRepository, gen CodeGenerator, opts ...Option) *LinkService {
	svc := &LinkService{
		repo:        repo,
		gen:         gen,
		clock:       SystemClock(),
		ttl:         defaultTTL,
		maxAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Shorten maps the original URL to a short code and persists the link.
//
// Shortening is idempotent: when a candidate code already maps to the same
// original URL, the existing link is reused. When it maps to a different URL,
// the generator is asked for an alternative candidate, up to a bounded number
// of attempts, after which ErrGenerationExhausted is returned. A lost insert
// race is recovered by re-reading the winning record rather than surfaced.
func (s *LinkService) Shorten(ctx context.Context, originalURL string, ttl time.Duration) (*models.Link, error) {
	const op = "service.LinkService.Shorten"

	if ttl <= 0 {
		ttl = s.ttl
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.gen.Generate(originalURL, attempt)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		existing, err := s.repo.GetByCode(ctx, code)
		if err == nil {
			if existing.OriginalURL == originalURL {
				return existing, nil
			}

			// Collision with a different URL, try the next candidate.
			continue
		}
		if !errors.Is(err, database.ErrLinkNotFound) {
			return nil, fmt.Errorf("%s: failed to check short code: %w", op, err)
		}

		now := s.clock.Now().UTC()
		link, err := s.repo.Insert(ctx, &models.Link{
			Code:        code,
			OriginalURL: originalURL,
			CreatedAt:   now,
			ExpiresAt:   now.Add(ttl),
		})
		if err != nil {
			if errors.Is(err, database.ErrCodeExists) {
				// Lost a concurrent insert race. The winner's record is
				// authoritative: reuse it when it maps to the same URL,
				// otherwise treat the code as a collision.
				winner, gerr := s.repo.GetByCode(ctx, code)
				if gerr == nil && winner.OriginalURL == originalURL {
					return winner, nil
				}
				if gerr != nil && !errors.Is(gerr, database.ErrLinkNotFound) {
					return nil, fmt.Errorf("%s: failed to recover from insert race: %w", op, gerr)
				}

				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrGenerationExhausted)
}

// Resolve returns the link for a short code, atomically incrementing its
// access counter and appending an access log entry. It fails with
// database.ErrLinkNotFound for unknown codes and ErrLinkExpired past the TTL;
// the expiry check always precedes both the increment and the log append, so
// expired links never gain counts or log entries. A log append failure is
// attached to the Resolution as a warning and never rolls back the resolve.
func (s *LinkService) Resolve(ctx context.Context, code, origin string) (*Resolution, error) {
	const op = "service.LinkService.Resolve"

	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if link.Expired(s.clock.Now()) {
		return nil, fmt.Errorf("%s: %w", op, ErrLinkExpired)
	}

	link, err = s.repo.IncrementAccessCount(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count access: %w", op, err)
	}

	res := &Resolution{Link: link}

	if err := s.repo.AppendLog(ctx, &models.AccessLogEntry{
		Code:       code,
		Origin:     origin,
		AccessedAt: s.clock.Now().UTC(),
	}); err != nil {
		res.LogWarning = fmt.Errorf("%s: failed to append access log: %w", op, err)
	}

	return res, nil
}

// Report returns link metadata together with the full ordered access history.
// Unlike Resolve it stays available after expiry; it only fails with
// database.ErrLinkNotFound when no record exists for the code.
func (s *LinkService) Report(ctx context.Context, code string) (*models.LinkReport, error) {
	const op = "service.LinkService.Report"

	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	entries, err := s.repo.ListLogs(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list access logs: %w", op, err)
	}

	return &models.LinkReport{
		Link:    *link,
		Entries: entries,
	}, nil
}
