// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter & Page Data Access

// ChapterRepository defines the read-only data access contract for chapters and pages.
type ChapterRepository interface {

	/*
		FindWithPages returns the chapter with the given ID, its parent comic's
		title and creator, and its pages ordered by page number.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Chapter: Hydrated chapter including pages
		  - error: ErrNotFound if missing
	*/
	FindWithPages(context context.Context, id string) (*Chapter, error)

	/*
		ListPublishedByComic returns every published chapter of a comic,
		ordered by chapter number ascending.

		Parameters:
		  - context: context.Context
		  - comicID: string (UUID)

		Returns:
		  - []*Summary: Published chapters, possibly empty
		  - error: Retrieval failure
	*/
	ListPublishedByComic(context context.Context, comicID string) ([]*Summary, error)
}
