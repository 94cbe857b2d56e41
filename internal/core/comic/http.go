// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comic provides the HTTP interface for catalogue discovery.

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors (GET /comics/...).

Reading entry points (start, navigation, chapter payloads) are owned by the
reader package and registered next to these routes.
*/
package comic

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	requestutil "github.com/taibuivan/mahamanga/internal/platform/request"
	"github.com/taibuivan/mahamanga/internal/platform/respond"
	"github.com/taibuivan/mahamanga/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for comic discovery.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comic [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches comic discovery endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/comics/trending", handler.listTrending)
	api.Get("/comics/{comicID}", handler.getComic)
}

// # Comic Endpoints

/*
GET /api/v1/comics/trending.

Description: Returns published comics ranked by view count.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Comic: Paginated ranking
*/
func (handler *Handler) listTrending(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	comics, total, err := handler.service.ListTrending(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comics, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/comics/{comicID}.

Description: Retrieves a comic using either its UUID or its slug.

Request:
  - comicID: string (UUID or Slug)

Response:
  - 200: Comic: Catalogue record
  - 404: ErrNotFound: Comic not found or unpublished
*/
func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "comicID")

	comic, err := handler.service.GetComic(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Unpublished comics are only visible to their creator
	if !comic.IsPublished && !comic.IsOwnedBy(requestutil.UserID(request)) {
		respond.Error(writer, request, apperr.NotFound(resourceComic))
		return
	}

	respond.OK(writer, comic)
}
