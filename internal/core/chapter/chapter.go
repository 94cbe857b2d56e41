// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter provides the domain models for chapters and their pages.

# Core Responsibility

  - Serialisation: [Chapter] ordering by number, including half-chapters like 1.5.
  - Content Delivery: the [Page] sequence of a chapter, 1-based and contiguous.
  - Gating: publication state and the owning creator of every chapter.
*/
package chapter

import "time"

// # Chapter Aggregate

// Chapter represents a single chapter (episode) of a comic together with its pages.
type Chapter struct {
	ID          string     `json:"id"`
	ComicID     string     `json:"comic_id"`
	Number      float64    `json:"number"` // Supports half-chapters (e.g. 12.5)
	Title       string     `json:"title"`  // Optional; may be empty for untitled chapters
	IsPublished bool       `json:"is_published"`
	ViewCount   int64      `json:"view_count"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Pages       []*Page    `json:"pages"`

	// Denormalised from the parent comic
	ComicTitle string `json:"comic_title"`
	CreatorID  string `json:"-"`
}

// IsOwnedBy reports whether userID created the comic this chapter belongs to.
func (chapter *Chapter) IsOwnedBy(userID string) bool {
	return userID != "" && chapter.CreatorID == userID
}

// VisibleTo reports whether the chapter may be read by userID.
// Unpublished chapters are a private preview for the creator.
func (chapter *Chapter) VisibleTo(userID string) bool {
	return chapter.IsPublished || chapter.IsOwnedBy(userID)
}

// # Image Delivery

// Page represents a single image page within a [Chapter].
type Page struct {
	ID         string `json:"id"`
	ChapterID  string `json:"-"`
	PageNumber int    `json:"page_number"`
	ImageURL   string `json:"image_url"` // Content Delivery Network (CDN) URL
}

// # Listing

// Summary is the lightweight view of a chapter used for navigation and listings.
type Summary struct {
	ID     string  `json:"id"`
	Number float64 `json:"number"`
	Title  string  `json:"title"`
}
