// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader implements chapter navigation and reading-progress tracking.

It sits between the catalogue (chapters, pages, view counters) and the user's
reading history, and owns three concerns:

  - Ordering: the navigable sequence of a comic is its published chapters
    sorted numerically by chapter number.
  - Progress: one position per (user, comic), replaced on every recorded view.
  - Views: at most one counted view per reading session, never for the owner.

Side effects of a view are best-effort. A failed counter update never blocks
the progress write and neither ever blocks rendering.
*/
package reader

import (
	"context"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/internal/library/progress"
)

// # Collaborators

// ChapterSource provides read-only chapter content.
type ChapterSource interface {
	// GetChapter returns a chapter with its pages sorted by page number.
	GetChapter(ctx context.Context, chapterID string) (*chapter.Chapter, error)

	// ListPublishedChapters returns a comic's published chapters sorted by number.
	ListPublishedChapters(ctx context.Context, comicID string) ([]*chapter.Summary, error)
}

// ViewCounter advances the comic view counter.
type ViewCounter interface {
	// IncrementComicViewCount must be safe to call concurrently and to retry.
	IncrementComicViewCount(ctx context.Context, comicID, chapterID string) error
}

// ContentStore is the catalogue as seen by the reader.
type ContentStore interface {
	ChapterSource
	ViewCounter
}

// HistoryStore reads and writes per-user reading progress.
type HistoryStore interface {
	UpsertProgress(ctx context.Context, params progress.UpsertParams) error
	GetProgress(ctx context.Context, userID, comicID string) (*progress.ReadingProgress, error)
}

// contentStore joins a chapter source and a view counter.
type contentStore struct {
	ChapterSource
	ViewCounter
}

// NewContentStore combines chapter reads and view counting into a [ContentStore].
func NewContentStore(chapters ChapterSource, counter ViewCounter) ContentStore {
	return contentStore{ChapterSource: chapters, ViewCounter: counter}
}

// # Results

// Navigation locates a chapter within its comic's published sequence.
type Navigation struct {
	PrevChapterID *string `json:"prev_chapter_id"`
	NextChapterID *string `json:"next_chapter_id"`

	// Position is 1-based; 0 means the chapter is not part of the published sequence.
	Position int `json:"position"`
	Total    int `json:"total"`

	// Ambiguous is set when the sequence holds duplicate chapters or numbers.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// Degraded is set when the sibling list could not be loaded.
	Degraded bool `json:"degraded,omitempty"`
}

// ViewEvent describes one chapter view.
type ViewEvent struct {
	UserID        string // empty for anonymous readers
	ComicID       string
	ChapterID     string
	PageNumber    *int // nil means top of chapter
	ViewerIsOwner bool

	// Repeat marks a view already counted in this reading session. Progress
	// is still written; the counter is left alone.
	Repeat bool
}

// ViewResult reports which side effects of a view succeeded.
type ViewResult struct {
	ProgressSaved bool `json:"progress_saved"`
	ViewCounted   bool `json:"view_counted"`
}

// Reading is a chapter ready to be rendered.
type Reading struct {
	Chapter       *chapter.Chapter `json:"chapter"`
	Navigation    Navigation       `json:"navigation"`
	ViewerIsOwner bool             `json:"viewer_is_owner"`
}

// ResumePoint is where a reader lands when opening a comic without a chapter.
type ResumePoint struct {
	ComicID    string  `json:"comic_id"`
	ChapterID  *string `json:"chapter_id"` // nil when nothing is published yet
	PageNumber int     `json:"page_number,omitempty"`
	Resumed    bool    `json:"resumed"` // true when taken from reading history
}
