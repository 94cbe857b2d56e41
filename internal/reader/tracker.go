// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/internal/library/progress"
	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/pkg/pointer"
)

// resourceChapter names the entity in NotFound messages.
const resourceChapter = "Chapter"

// # Progress Tracker

// Tracker resolves chapter navigation and records chapter views.
//
// It holds no per-session state; callers are responsible for invoking
// [Tracker.RecordView] once per reading session.
type Tracker struct {
	content ContentStore
	history HistoryStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewTracker constructs a [Tracker] over the given stores.
func NewTracker(content ContentStore, history HistoryStore, logger *slog.Logger) *Tracker {
	return &Tracker{
		content: content,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// # Navigation

/*
ResolveNavigation locates a chapter among its comic's published chapters.

Description: The chapter and the sibling list are fetched concurrently. A
chapter from another comic is an [apperr.CodeInvalidState] error, distinct
from NotFound.

Parameters:
  - ctx: context.Context
  - comicID: string (UUID)
  - chapterID: string (UUID)

Returns:
  - *Navigation: Neighbours, 1-based position and total
  - error: NotFound, InvalidState or store failures
*/
func (tracker *Tracker) ResolveNavigation(ctx context.Context, comicID, chapterID string) (*Navigation, error) {
	_, navigation, err := tracker.resolve(ctx, comicID, chapterID)
	return navigation, err
}

// NavigationFor is [Tracker.ResolveNavigation] behind the same visibility
// gate as [Tracker.Load]: an unpublished chapter is NotFound for everybody
// except the comic's creator.
func (tracker *Tracker) NavigationFor(ctx context.Context, comicID, chapterID, viewerID string) (*Navigation, error) {
	current, navigation, err := tracker.resolve(ctx, comicID, chapterID)
	if err != nil {
		return nil, err
	}

	if !current.VisibleTo(viewerID) {
		return nil, apperr.NotFound(resourceChapter)
	}

	return navigation, nil
}

func (tracker *Tracker) resolve(ctx context.Context, comicID, chapterID string) (*chapter.Chapter, *Navigation, error) {
	var current *chapter.Chapter
	var published []*chapter.Summary

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		current, err = tracker.content.GetChapter(groupCtx, chapterID)
		return err
	})
	group.Go(func() (err error) {
		published, err = tracker.content.ListPublishedChapters(groupCtx, comicID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	if current.ComicID != comicID {
		return nil, nil, errWrongComic(comicID, chapterID)
	}

	navigation := locate(published, chapterID)
	tracker.warnAmbiguous(ctx, comicID, chapterID, navigation)

	return current, &navigation, nil
}

/*
PickEntryChapter returns the first published chapter of a comic.

Returns:
  - *chapter.Summary: Lowest-numbered published chapter, nil when none exist
  - error: Store failures
*/
func (tracker *Tracker) PickEntryChapter(ctx context.Context, comicID string) (*chapter.Summary, error) {
	published, err := tracker.content.ListPublishedChapters(ctx, comicID)
	if err != nil {
		return nil, err
	}

	if len(published) == 0 {
		return nil, nil
	}

	return sortChapters(published)[0], nil
}

/*
ResumePoint decides where a reader lands when opening a comic.

Description: Authenticated readers resume from their stored position (page
defaulting to 1). Everybody else, and readers without history, start at
[Tracker.PickEntryChapter]. History lookup failures fall back to the entry
chapter.
*/
func (tracker *Tracker) ResumePoint(ctx context.Context, userID, comicID string) (*ResumePoint, error) {
	if userID != "" {
		stored, err := tracker.history.GetProgress(ctx, userID, comicID)
		switch {
		case err == nil:
			return &ResumePoint{
				ComicID:    comicID,
				ChapterID:  pointer.To(stored.ChapterID),
				PageNumber: stored.ResumePage(),
				Resumed:    true,
			}, nil
		case !apperr.IsNotFound(err):
			tracker.logger.WarnContext(ctx, "reading_progress_lookup_failed",
				slog.String("user_id", userID),
				slog.String("comic_id", comicID),
				slog.Any("error", err),
			)
		}
	}

	entry, err := tracker.PickEntryChapter(ctx, comicID)
	if err != nil {
		return nil, err
	}

	point := &ResumePoint{ComicID: comicID}
	if entry != nil {
		point.ChapterID = pointer.To(entry.ID)
		point.PageNumber = 1
	}

	return point, nil
}

// # Loading

/*
Load fetches everything needed to render a chapter.

Description: The chapter (with pages) and the sibling list are fetched
concurrently and joined. Only the chapter fetch is on the critical path: a
failed sibling list degrades navigation to "no prev / no next".

Unpublished chapters are readable by the comic's creator only; everyone else
gets NotFound.

Parameters:
  - ctx: context.Context
  - comicID: string (UUID)
  - chapterID: string (UUID)
  - viewerID: string (empty for anonymous readers)

Returns:
  - *Reading: Chapter, navigation and ownership
  - error: NotFound, InvalidState or store failures
*/
func (tracker *Tracker) Load(ctx context.Context, comicID, chapterID, viewerID string) (*Reading, error) {
	var current *chapter.Chapter
	var published []*chapter.Summary
	var listErr error

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		current, err = tracker.content.GetChapter(groupCtx, chapterID)
		return err
	})
	group.Go(func() error {
		published, listErr = tracker.content.ListPublishedChapters(groupCtx, comicID)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if current.ComicID != comicID {
		return nil, errWrongComic(comicID, chapterID)
	}

	if !current.VisibleTo(viewerID) {
		return nil, apperr.NotFound(resourceChapter)
	}

	reading := &Reading{
		Chapter:       current,
		ViewerIsOwner: current.IsOwnedBy(viewerID),
	}

	if listErr != nil {
		tracker.logger.WarnContext(ctx, "chapter_list_unavailable",
			slog.String("comic_id", comicID),
			slog.Any("error", listErr),
		)
		reading.Navigation = Navigation{Degraded: true}
		return reading, nil
	}

	reading.Navigation = locate(published, chapterID)
	tracker.warnAmbiguous(ctx, comicID, chapterID, reading.Navigation)

	return reading, nil
}

// # View Recording

/*
PrepareView builds the [ViewEvent] for a viewer opening a chapter.

Description: Used by callers that only know the chapter ID. Visibility rules
match [Tracker.Load], so an unpublished chapter cannot be counted by anyone
but its creator.
*/
func (tracker *Tracker) PrepareView(ctx context.Context, chapterID, viewerID string, page *int) (*ViewEvent, error) {
	current, err := tracker.content.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	if !current.VisibleTo(viewerID) {
		return nil, apperr.NotFound(resourceChapter)
	}

	if page != nil && (*page < 1 || *page > len(current.Pages)) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "page_number",
			Message: fmt.Sprintf("Must be between 1 and %d", len(current.Pages)),
		})
	}

	return &ViewEvent{
		UserID:        viewerID,
		ComicID:       current.ComicID,
		ChapterID:     current.ID,
		PageNumber:    page,
		ViewerIsOwner: current.IsOwnedBy(viewerID),
	}, nil
}

/*
RecordView applies the two side effects of a chapter view.

Description:
  - Progress: when UserID is set, upserts (UserID, ComicID) to this chapter and page.
  - Counter: unless the viewer owns the comic or the event is a Repeat, adds one view.

The side effects are independent. Failures are logged and swallowed; the
returned [ViewResult] only reports what succeeded. Each write is bounded by
[constants.SideEffectTimeout].
*/
func (tracker *Tracker) RecordView(ctx context.Context, event ViewEvent) ViewResult {
	var result ViewResult

	// 1. Reading progress
	if event.UserID != "" {
		writeCtx, cancel := context.WithTimeout(ctx, constants.SideEffectTimeout)
		err := tracker.history.UpsertProgress(writeCtx, progress.UpsertParams{
			UserID:     event.UserID,
			ComicID:    event.ComicID,
			ChapterID:  event.ChapterID,
			PageNumber: event.PageNumber,
			ReadAt:     tracker.now().UTC(),
		})
		cancel()

		if err != nil {
			tracker.logger.ErrorContext(ctx, "reading_progress_write_failed",
				slog.String("user_id", event.UserID),
				slog.String("comic_id", event.ComicID),
				slog.String("chapter_id", event.ChapterID),
				slog.Any("error", err),
			)
		} else {
			result.ProgressSaved = true
		}
	}

	// 2. View counter
	if !event.ViewerIsOwner && !event.Repeat {
		writeCtx, cancel := context.WithTimeout(ctx, constants.SideEffectTimeout)
		err := tracker.content.IncrementComicViewCount(writeCtx, event.ComicID, event.ChapterID)
		cancel()

		if err != nil {
			tracker.logger.WarnContext(ctx, "view_count_increment_failed",
				slog.String("comic_id", event.ComicID),
				slog.String("chapter_id", event.ChapterID),
				slog.Any("error", err),
			)
		} else {
			result.ViewCounted = true
		}
	}

	tracker.logger.DebugContext(ctx, "chapter_view_recorded",
		slog.String("comic_id", event.ComicID),
		slog.String("chapter_id", event.ChapterID),
		slog.Bool("progress_saved", result.ProgressSaved),
		slog.Bool("view_counted", result.ViewCounted),
	)

	return result
}

// # Internal Helpers

// errWrongComic reports a chapter opened under a comic it does not belong to.
func errWrongComic(comicID, chapterID string) error {
	return apperr.InvalidState(fmt.Sprintf("Chapter %s does not belong to comic %s", chapterID, comicID))
}

// warnAmbiguous logs sequences that break the unique-number assumption.
func (tracker *Tracker) warnAmbiguous(ctx context.Context, comicID, chapterID string, navigation Navigation) {
	if !navigation.Ambiguous {
		return
	}
	tracker.logger.WarnContext(ctx, "chapter_sequence_ambiguous",
		slog.String("comic_id", comicID),
		slog.String("chapter_id", chapterID),
		slog.Int("position", navigation.Position),
	)
}
