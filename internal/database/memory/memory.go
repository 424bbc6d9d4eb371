// Package memory provides an in-memory link repository. It backs the
// "memory" storage mode and isolated tests that need a real repository
// without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/shortlink/internal/database"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

type LinkRepository struct {
	mu         sync.RWMutex
	links      map[string]*models.Link
	logs       map[string][]models.AccessLogEntry
	nextLinkID int64
	nextLogID  int64
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		links: make(map[string]*models.Link),
		logs:  make(map[string][]models.AccessLogEntry),
	}
}

func (r *LinkRepository) Insert(_ context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.memory.LinkRepository.Insert"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[link.Code]; ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrCodeExists)
	}

	r.nextLinkID++

	stored := *link
	stored.ID = r.nextLinkID
	r.links[stored.Code] = &stored

	linkCopy := stored
	return &linkCopy, nil
}

func (r *LinkRepository) GetByCode(_ context.Context, code string) (*models.Link, error) {
	const op = "database.memory.LinkRepository.GetByCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[code]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	linkCopy := *link
	return &linkCopy, nil
}

func (r *LinkRepository) IncrementAccessCount(_ context.Context, code string) (*models.Link, error) {
	const op = "database.memory.LinkRepository.IncrementAccessCount"

	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[code]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	link.AccessCount++

	linkCopy := *link
	return &linkCopy, nil
}

func (r *LinkRepository) AppendLog(_ context.Context, entry *models.AccessLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextLogID++

	stored := *entry
	stored.ID = r.nextLogID
	r.logs[stored.Code] = append(r.logs[stored.Code], stored)

	return nil
}

func (r *LinkRepository) ListLogs(_ context.Context, code string) ([]models.AccessLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]models.AccessLogEntry, len(r.logs[code]))
	copy(entries, r.logs[code])

	return entries, nil
}
