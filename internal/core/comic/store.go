// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import "context"

// ComicRepository is the catalogue storage behind [Service].
//
// Lookups return apperr NotFound for missing and soft-deleted rows alike.
type ComicRepository interface {
	FindByID(context context.Context, id string) (*Comic, error)
	FindBySlug(context context.Context, slug string) (*Comic, error)

	// ListTrending pages through published comics by view count, highest
	// first, and reports the total number of published comics.
	ListTrending(context context.Context, limit, offset int) ([]*Comic, int, error)

	// IncrementViewCount adds one view to the comic and to chapterID in a
	// single statement. The SQL function runs as SECURITY DEFINER, so the
	// API role holds no UPDATE grant on the catalogue tables.
	IncrementViewCount(context context.Context, comicID, chapterID string) error
}
