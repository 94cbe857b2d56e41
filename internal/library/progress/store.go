// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import "context"

// # Progress Data Access

// ProgressRepository defines the data access contract for reading history.
type ProgressRepository interface {

	/*
		Upsert atomically writes the position for (UserID, ComicID).

		Exactly one row survives per pair; the latest write decides the chapter
		and page while the stored timestamp never moves backwards.

		Parameters:
		  - context: context.Context
		  - params: UpsertParams

		Returns:
		  - *ReadingProgress: The row as stored, with its new revision
		  - error: Storage failures
	*/
	Upsert(context context.Context, params UpsertParams) (*ReadingProgress, error)

	/*
		Get returns the stored position for a user and comic.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - comicID: string (UUID)

		Returns:
		  - *ReadingProgress: Stored position
		  - error: ErrNotFound when the user never opened the comic
	*/
	Get(context context.Context, userID, comicID string) (*ReadingProgress, error)

	/*
		ListByUser returns a user's history, most recent first.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*ReadingProgress: Page of history entries with catalogue details
		  - int: Total entries
		  - error: Storage failures
	*/
	ListByUser(context context.Context, userID string, limit, offset int) ([]*ReadingProgress, int, error)

	/*
		Delete clears the stored position for a user and comic.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - comicID: string (UUID)

		Returns:
		  - int64: Revision of the removed row
		  - error: ErrNotFound when nothing was stored
	*/
	Delete(context context.Context, userID, comicID string) (int64, error)
}
