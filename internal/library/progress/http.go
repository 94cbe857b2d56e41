// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mahamanga/internal/platform/middleware"
	requestutil "github.com/taibuivan/mahamanga/internal/platform/request"
	"github.com/taibuivan/mahamanga/internal/platform/respond"
	"github.com/taibuivan/mahamanga/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for reading history.
type Handler struct {
	service *Service
}

// NewHandler constructs a new progress [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the authenticated history endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/me/history", handler.listHistory)
		user.Get("/me/history/{comicID}", handler.getProgress)
		user.Delete("/me/history/{comicID}", handler.clearProgress)
	})
}

/*
GET /api/v1/me/history.

Description: Lists the current user's reading history, most recent first.

Response:
  - 200: []ReadingProgress: Paginated history
  - 401: ErrUnauthorized: Login required
*/
func (handler *Handler) listHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	entries, total, err := handler.service.ListHistory(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/me/history/{comicID}.

Response:
  - 200: ReadingProgress
  - 404: ErrNotFound: Comic never opened
*/
func (handler *Handler) getProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetProgress(request.Context(), userID, requestutil.Param(request, "comicID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/me/history/{comicID}.

Response:
  - 204: Cleared
  - 404: ErrNotFound: Nothing stored for this comic
*/
func (handler *Handler) clearProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ClearProgress(request.Context(), userID, requestutil.Param(request, "comicID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
