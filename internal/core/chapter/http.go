// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter provides the HTTP interface for chapter listings.

Opening a chapter for reading is handled by the reader package, which layers
navigation, gating and view accounting on top of this package's [Service].
*/
package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mahamanga/internal/platform/constants"
	requestutil "github.com/taibuivan/mahamanga/internal/platform/request"
	"github.com/taibuivan/mahamanga/internal/platform/respond"
)

// Handler serves chapter listings.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/comics/{comicID}/chapters", handler.ListChapters)
}

// ListChapters handles GET /api/v1/comics/{comicID}/chapters and answers
// {"data": {"items": [...], "total": n}} with published chapters only, in
// reading order. An unknown comic yields an empty list, not a 404.
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	chapters, err := handler.service.ListPublishedChapters(request.Context(), requestutil.Param(request, "comicID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: chapters,
		constants.FieldTotal: len(chapters),
	})
}
