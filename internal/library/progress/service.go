// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mahamanga/internal/platform/validate"
)

const (
	FieldUserID     = "user_id"
	FieldComicID    = "comic_id"
	FieldChapterID  = "chapter_id"
	FieldPageNumber = "page_number"
)

// # Service Layer

// Service orchestrates reading history for authenticated readers.
type Service struct {
	progressRepo ProgressRepository
	logger       *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(progressRepo ProgressRepository, logger *slog.Logger) *Service {
	return &Service{
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// # Position Tracking

/*
UpsertProgress records the reader's latest position in a comic.

Parameters:
  - context: context.Context
  - params: UpsertParams

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) UpsertProgress(context context.Context, params UpsertParams) error {

	// Identity and position validation
	err := (&validate.Validator{}).
		UUID(FieldUserID, params.UserID).
		UUID(FieldComicID, params.ComicID).
		UUID(FieldChapterID, params.ChapterID).
		MinIfSet(FieldPageNumber, params.PageNumber, 1).
		Err()
	if err != nil {
		return err
	}

	if _, err := service.progressRepo.Upsert(context, params); err != nil {
		return err
	}

	service.logger.Debug("reading_progress_saved",
		slog.String("user_id", params.UserID),
		slog.String("comic_id", params.ComicID),
		slog.String("chapter_id", params.ChapterID),
	)

	return nil
}

/*
GetProgress returns the stored position for a user and comic.

Returns:
  - *ReadingProgress: Stored position
  - error: ErrNotFound when the user never opened the comic
*/
func (service *Service) GetProgress(context context.Context, userID, comicID string) (*ReadingProgress, error) {
	return service.progressRepo.Get(context, userID, comicID)
}

// # History Management

/*
ListHistory returns a page of the user's reading history, most recent first.
*/
func (service *Service) ListHistory(context context.Context, userID string, limit, offset int) ([]*ReadingProgress, int, error) {
	return service.progressRepo.ListByUser(context, userID, limit, offset)
}

/*
ClearProgress removes a comic from the user's reading history.
*/
func (service *Service) ClearProgress(context context.Context, userID, comicID string) error {
	if _, err := service.progressRepo.Delete(context, userID, comicID); err != nil {
		return err
	}

	service.logger.Info("reading_progress_cleared",
		slog.String("user_id", userID),
		slog.String("comic_id", comicID),
	)

	return nil
}
