// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comic defines the catalogue entities the reader works against.

A comic is a serialised publication owned by a single creator. Readers never
mutate it directly: the only write path open to them is the view counter, which
is advanced through a privileged database function.

Core Responsibility:

  - Lookup: Resolves comics by UUID or SEO slug.
  - Ranking: Lists published comics by view count (trending).
  - Analytics: Records comic and chapter views.
*/
package comic

import "time"

// # Core Entities

// Comic is a single serialised publication in the catalogue.
type Comic struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"` // URL-safe identifier
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatorID   string    `json:"creator_id"`
	IsPublished bool      `json:"is_published"`
	ViewCount   int64     `json:"view_count"` // Monotonically non-decreasing
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the creator of the comic.
func (comic *Comic) IsOwnedBy(userID string) bool {
	return userID != "" && comic.CreatorID == userID
}
