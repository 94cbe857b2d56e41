// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// # Service Layer

// Service serves chapter content to the reading surface.
//
// Titles are creator-supplied free text; every title leaving the service has
// been passed through a strict markup policy.
type Service struct {
	chapterRepo ChapterRepository
	policy      *bluemonday.Policy
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(chapterRepo ChapterRepository, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		policy:      bluemonday.StrictPolicy(),
		logger:      logger,
	}
}

// # Chapter Operations

/*
GetChapter retrieves a chapter with its pages.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: Chapter with pages sorted by page number
  - error: ErrNotFound if not found
*/
func (service *Service) GetChapter(context context.Context, id string) (*Chapter, error) {
	chapter, err := service.chapterRepo.FindWithPages(context, id)
	if err != nil {
		return nil, err
	}

	chapter.Title = service.sanitize(chapter.Title)
	chapter.ComicTitle = service.sanitize(chapter.ComicTitle)

	return chapter, nil
}

/*
ListPublishedChapters returns the published chapters of a comic in reading order.

Parameters:
  - context: context.Context
  - comicID: string (UUID)

Returns:
  - []*Summary: Chapters sorted by number ascending
  - error: Storage failures
*/
func (service *Service) ListPublishedChapters(context context.Context, comicID string) ([]*Summary, error) {
	summaries, err := service.chapterRepo.ListPublishedByComic(context, comicID)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		summary.Title = service.sanitize(summary.Title)
	}

	return summaries, nil
}

// # Internal Helpers

// sanitize strips all markup from creator-supplied text.
func (service *Service) sanitize(text string) string {
	return strings.TrimSpace(service.policy.Sanitize(text))
}
