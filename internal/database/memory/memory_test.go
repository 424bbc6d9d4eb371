package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/database"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

var testTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func testLink(code string) *models.Link {
	return &models.Link{
		Code:        code,
		OriginalURL: "https://example.com",
		CreatedAt:   testTime,
		ExpiresAt:   testTime.Add(time.Hour),
	}
}

func TestLinkRepository_Insert(t *testing.T) {
	t.Run("assigns ids", func(t *testing.T) {
		repo := NewLinkRepository()

		link1, err := repo.Insert(context.TODO(), testLink("abc123"))
		require.NoError(t, err)
		link2, err := repo.Insert(context.TODO(), testLink("def456"))
		require.NoError(t, err)

		assert.Equal(t, int64(1), link1.ID)
		assert.Equal(t, int64(2), link2.ID)
	})

	t.Run("code exists", func(t *testing.T) {
		repo := NewLinkRepository()

		_, err := repo.Insert(context.TODO(), testLink("abc123"))
		require.NoError(t, err)

		link, err := repo.Insert(context.TODO(), testLink("abc123"))

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrCodeExists)
		assert.Nil(t, link)
	})

	t.Run("stores a copy", func(t *testing.T) {
		repo := NewLinkRepository()

		in := testLink("abc123")
		stored, err := repo.Insert(context.TODO(), in)
		require.NoError(t, err)

		in.OriginalURL = "https://mutated.com"
		stored.AccessCount = 42

		got, err := repo.GetByCode(context.TODO(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.Equal(t, int64(0), got.AccessCount)
	})
}

func TestLinkRepository_GetByCode(t *testing.T) {
	t.Run("link not found", func(t *testing.T) {
		repo := NewLinkRepository()

		link, err := repo.GetByCode(context.TODO(), "missing")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrLinkNotFound)
		assert.Nil(t, link)
	})

	t.Run("success", func(t *testing.T) {
		repo := NewLinkRepository()

		_, err := repo.Insert(context.TODO(), testLink("abc123"))
		require.NoError(t, err)

		link, err := repo.GetByCode(context.TODO(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "abc123", link.Code)
		assert.Equal(t, "https://example.com", link.OriginalURL)
	})
}

func TestLinkRepository_IncrementAccessCount(t *testing.T) {
	t.Run("link not found", func(t *testing.T) {
		repo := NewLinkRepository()

		link, err := repo.IncrementAccessCount(context.TODO(), "missing")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrLinkNotFound)
		assert.Nil(t, link)
	})

	t.Run("no lost updates under concurrency", func(t *testing.T) {
		repo := NewLinkRepository()

		_, err := repo.Insert(context.TODO(), testLink("abc123"))
		require.NoError(t, err)

		const increments = 100

		var wg sync.WaitGroup
		wg.Add(increments)
		for i := 0; i < increments; i++ {
			go func() {
				defer wg.Done()

				_, err := repo.IncrementAccessCount(context.TODO(), "abc123")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		link, err := repo.GetByCode(context.TODO(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(increments), link.AccessCount)
	})
}

func TestLinkRepository_AppendLog(t *testing.T) {
	repo := NewLinkRepository()

	entries := []models.AccessLogEntry{
		{Code: "abc123", Origin: "203.0.113.7:51234", AccessedAt: testTime},
		{Code: "abc123", Origin: "198.51.100.4:40021", AccessedAt: testTime.Add(time.Minute)},
		{Code: "def456", Origin: "203.0.113.7:51234", AccessedAt: testTime.Add(2 * time.Minute)},
	}

	for i := range entries {
		require.NoError(t, repo.AppendLog(context.TODO(), &entries[i]))
	}

	got, err := repo.ListLogs(context.TODO(), "abc123")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Insertion order is preserved per code.
	assert.Equal(t, "203.0.113.7:51234", got[0].Origin)
	assert.Equal(t, "198.51.100.4:40021", got[1].Origin)
	assert.Less(t, got[0].ID, got[1].ID)

	empty, err := repo.ListLogs(context.TODO(), "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
