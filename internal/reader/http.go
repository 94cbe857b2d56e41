// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mahamanga/internal/core/comic"
	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/internal/platform/ctxutil"
	"github.com/taibuivan/mahamanga/internal/platform/middleware"
	requestutil "github.com/taibuivan/mahamanga/internal/platform/request"
	"github.com/taibuivan/mahamanga/internal/platform/respond"
)

// ComicResolver looks up a comic by UUID or slug.
type ComicResolver interface {
	GetComic(ctx context.Context, identifier string) (*comic.Comic, error)
}

// # Handler Implementation

// Handler exposes the reading surface over HTTP.
type Handler struct {
	tracker   *Tracker
	comics    ComicResolver
	guard     ViewGuard
	watermark string
}

// NewHandler constructs a reader [Handler].
func NewHandler(tracker *Tracker, comics ComicResolver, guard ViewGuard, watermark string) *Handler {
	return &Handler{
		tracker:   tracker,
		comics:    comics,
		guard:     guard,
		watermark: watermark,
	}
}

// RegisterRoutes attaches reader endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/comics/{comicID}/start", handler.start)
	api.Get("/comics/{comicID}/chapters/{chapterID}", handler.openChapter)
	api.Get("/comics/{comicID}/chapters/{chapterID}/navigation", handler.navigation)
	api.Post("/chapters/{chapterID}/views", handler.recordView)
}

// # Payloads

// chapterPayload is the reader view of a chapter.
type chapterPayload struct {
	*Reading
	Watermark string `json:"watermark"`
}

// recordViewRequest is the optional body of a view report.
type recordViewRequest struct {
	PageNumber *int `json:"page_number"`
}

// recordViewResponse acknowledges a view report.
type recordViewResponse struct {
	ViewResult
	Duplicate bool `json:"duplicate"`
}

// # Endpoints

/*
GET /api/v1/comics/{comicID}/start.

Description: Resolves where to start reading: the stored position for
authenticated readers, else the first published chapter. A null chapter_id
means nothing is published yet.

Response:
  - 200: ResumePoint
  - 404: ErrNotFound: Comic not found or not visible
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.UserID(request)

	target, err := handler.comics.GetComic(request.Context(), requestutil.Param(request, "comicID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !target.IsPublished && !target.IsOwnedBy(userID) {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}

	point, err := handler.tracker.ResumePoint(request.Context(), userID, target.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, point)
}

/*
GET /api/v1/comics/{comicID}/chapters/{chapterID}.

Description: Returns the chapter with its pages, navigation and the watermark
to overlay on every page. Opening a chapter does not count a view; clients
report views through POST /chapters/{chapterID}/views.

Response:
  - 200: chapterPayload
  - 404: ErrNotFound: Chapter missing or unpublished
  - 409: ErrInvalidState: Chapter belongs to another comic
*/
func (handler *Handler) openChapter(writer http.ResponseWriter, request *http.Request) {
	reading, err := handler.tracker.Load(request.Context(),
		requestutil.Param(request, "comicID"),
		requestutil.Param(request, "chapterID"),
		requestutil.UserID(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapterPayload{
		Reading:   reading,
		Watermark: handler.watermarkFor(request),
	})
}

/*
GET /api/v1/comics/{comicID}/chapters/{chapterID}/navigation.

Response:
  - 200: Navigation
  - 404: ErrNotFound: Chapter missing, or unpublished and not the viewer's
  - 409: ErrInvalidState: Chapter belongs to another comic
*/
func (handler *Handler) navigation(writer http.ResponseWriter, request *http.Request) {
	navigation, err := handler.tracker.NavigationFor(request.Context(),
		requestutil.Param(request, "comicID"),
		requestutil.Param(request, "chapterID"),
		requestutil.UserID(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, navigation)
}

/*
POST /api/v1/chapters/{chapterID}/views.

Description: Records a chapter view. Reading progress is saved on every
report so returning to an earlier chapter moves the reader back. The view
counter only moves on the first report per reading session (X-Reader-Session
header, else user, else IP and user agent) within the guard window; later
reports come back with duplicate=true. Side-effect failures never fail the
request.

Request:
  - body: recordViewRequest (optional)

Response:
  - 200: recordViewResponse
  - 404: ErrNotFound: Chapter missing or unpublished
*/
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	var input recordViewRequest
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.UserID(request)
	chapterID := requestutil.Param(request, "chapterID")

	event, err := handler.tracker.PrepareView(request.Context(), chapterID, userID, input.PageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// One-shot counter guard per reading session
	key := SessionKey(chapterID,
		request.Header.Get(constants.HeaderReaderSession),
		userID,
		middleware.RealIP(request),
		request.UserAgent(),
	)

	acquired, err := handler.guard.Acquire(request.Context(), key)
	if err != nil {
		// Fail open: an unavailable guard still records the view.
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "view_guard_unavailable",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
		acquired = true
	}

	event.Repeat = !acquired

	result := handler.tracker.RecordView(context.WithoutCancel(request.Context()), *event)
	respond.OK(writer, recordViewResponse{ViewResult: result, Duplicate: event.Repeat})
}

// # Internal Helpers

// watermarkFor builds the per-page overlay text for the current viewer.
func (handler *Handler) watermarkFor(request *http.Request) string {
	claims := requestutil.Claims(request)
	if claims == nil || claims.Username == "" {
		return handler.watermark
	}
	return handler.watermark + " · @" + claims.Username
}
