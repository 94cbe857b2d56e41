// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package progress manages per-user reading history.

Each user has at most one [ReadingProgress] per comic. Recording a new position
replaces the previous one; history is only removed when the user clears it.
*/
package progress

import (
	"time"

	"github.com/taibuivan/mahamanga/pkg/pointer"
)

// # Core Entities

// ReadingProgress points at the last chapter and page a user visited in a comic.
type ReadingProgress struct {
	UserID     string    `json:"-"`
	ComicID    string    `json:"comic_id"`
	ChapterID  string    `json:"chapter_id"`
	PageNumber *int      `json:"page_number"` // nil means top of chapter
	LastReadAt time.Time `json:"last_read_at"`

	// Revision orders writes to this row; a larger value is always newer.
	Revision int64 `json:"-"`

	// Listing-only attributes, joined from the catalogue
	ComicTitle    string   `json:"comic_title,omitempty"`
	ComicSlug     string   `json:"comic_slug,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	ChapterNumber *float64 `json:"chapter_number,omitempty"`
}

// ResumePage returns the page to reopen, defaulting to the first page.
func (progress *ReadingProgress) ResumePage() int {
	return max(pointer.Or(progress.PageNumber, 1), 1)
}

// # Commands

// UpsertParams is the typed input for recording a reading position.
type UpsertParams struct {
	UserID     string
	ComicID    string
	ChapterID  string
	PageNumber *int
	ReadAt     time.Time
}
