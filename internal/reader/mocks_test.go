// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/internal/library/progress"
	"github.com/taibuivan/mahamanga/internal/platform/apperr"
)

// # Mocks

// MockContentStore mocks the ContentStore interface.
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) GetChapter(ctx context.Context, chapterID string) (*chapter.Chapter, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chapter.Chapter), args.Error(1)
}

func (m *MockContentStore) ListPublishedChapters(ctx context.Context, comicID string) ([]*chapter.Summary, error) {
	args := m.Called(ctx, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chapter.Summary), args.Error(1)
}

func (m *MockContentStore) IncrementComicViewCount(ctx context.Context, comicID, chapterID string) error {
	args := m.Called(ctx, comicID, chapterID)
	return args.Error(0)
}

// MockHistoryStore mocks the HistoryStore interface.
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) UpsertProgress(ctx context.Context, params progress.UpsertParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockHistoryStore) GetProgress(ctx context.Context, userID, comicID string) (*progress.ReadingProgress, error) {
	args := m.Called(ctx, userID, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progress.ReadingProgress), args.Error(1)
}

// # Fakes

// memoryHistory is an in-memory HistoryStore keyed by (user, comic).
type memoryHistory struct {
	mu   sync.Mutex
	rows map[string]*progress.ReadingProgress
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{rows: make(map[string]*progress.ReadingProgress)}
}

func (h *memoryHistory) UpsertProgress(_ context.Context, params progress.UpsertParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rows[params.UserID+"|"+params.ComicID] = &progress.ReadingProgress{
		UserID:     params.UserID,
		ComicID:    params.ComicID,
		ChapterID:  params.ChapterID,
		PageNumber: params.PageNumber,
		LastReadAt: params.ReadAt,
	}
	return nil
}

func (h *memoryHistory) GetProgress(_ context.Context, userID, comicID string) (*progress.ReadingProgress, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	row, ok := h.rows[userID+"|"+comicID]
	if !ok {
		return nil, apperr.NotFound("Reading progress")
	}
	copied := *row
	return &copied, nil
}

func (h *memoryHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rows)
}

// # Fixtures

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func summary(id string, number float64) *chapter.Summary {
	return &chapter.Summary{ID: id, Number: number, Title: "Chapter " + id}
}

func publishedChapter(id, comicID, creatorID string, number float64) *chapter.Chapter {
	return &chapter.Chapter{
		ID:          id,
		ComicID:     comicID,
		Number:      number,
		IsPublished: true,
		CreatorID:   creatorID,
		Pages: []*chapter.Page{
			{ID: id + "-p1", ChapterID: id, PageNumber: 1, ImageURL: "https://cdn.example/" + id + "/1.webp"},
			{ID: id + "-p2", ChapterID: id, PageNumber: 2, ImageURL: "https://cdn.example/" + id + "/2.webp"},
		},
	}
}

func intPtr(value int) *int {
	return &value
}
