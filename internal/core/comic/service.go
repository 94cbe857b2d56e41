// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/pkg/slug"
	"github.com/taibuivan/mahamanga/pkg/uuid"
)

// # Service Layer

// Service orchestrates catalogue lookups and view accounting.
type Service struct {
	comicRepo ComicRepository
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(comicRepo ComicRepository, logger *slog.Logger) *Service {
	return &Service{
		comicRepo: comicRepo,
		logger:    logger,
	}
}

// # Comic Lookups

/*
GetComic fetches a single publication record by UUID or SEO Slug.

Description: UUID-shaped identifiers use a primary key lookup; anything else is
normalised with [slug.From] and resolved through the unique slug, so
"Solo Leveling" and "solo-leveling" find the same comic.

Parameters:
  - context: context.Context
  - identifier: string (UUID or Slug)

Returns:
  - *Comic: The hydrated domain entity
  - error: ErrNotFound if no match is found
*/
func (service *Service) GetComic(context context.Context, identifier string) (*Comic, error) {

	// Identity format detection
	if uuid.IsValid(identifier) {
		return service.comicRepo.FindByID(context, identifier)
	}

	// Slug resolution
	normalized := slug.From(identifier)
	if normalized == "" {
		return nil, apperr.NotFound(resourceComic)
	}

	return service.comicRepo.FindBySlug(context, normalized)
}

/*
ListTrending returns the most viewed published comics.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Comic: Ranked page of comics
  - int: Total published comics
  - error: Storage failures
*/
func (service *Service) ListTrending(context context.Context, limit, offset int) ([]*Comic, int, error) {
	return service.comicRepo.ListTrending(context, limit, offset)
}

// # View Accounting

/*
IncrementComicViewCount records one view of a chapter against its comic.

Parameters:
  - context: context.Context
  - comicID: string (UUID)
  - chapterID: string (UUID)

Returns:
  - error: Storage failures, left to the caller to log
*/
func (service *Service) IncrementComicViewCount(context context.Context, comicID, chapterID string) error {
	if err := service.comicRepo.IncrementViewCount(context, comicID, chapterID); err != nil {
		return err
	}

	service.logger.Debug("comic_view_counted",
		slog.String("comic_id", comicID),
		slog.String("chapter_id", chapterID),
	)

	return nil
}
