// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads route parameters, bodies and the reader identity
from incoming requests, so handlers never touch chi or the context keys directly.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/internal/platform/ctxutil"
	"github.com/taibuivan/mahamanga/internal/platform/sec"
	"github.com/taibuivan/mahamanga/internal/platform/validate"
)

// maxBodyBytes caps request bodies; view reports are a few bytes.
const maxBodyBytes = 64 << 10

// # Bodies

/*
DecodeOptionalJSON decodes a JSON body into target. An absent or empty body
is accepted and leaves target untouched.

Returns:
  - error: validate.ErrInvalidJSON for malformed or oversized payloads
*/
func DecodeOptionalJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return nil
	}

	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// # Route Parameters

// Param returns a named chi URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Identity

// Claims returns the verified token claims, or nil for anonymous readers.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// UserID returns the authenticated user's ID, or "" for anonymous readers.
func UserID(request *http.Request) string {
	return ctxutil.ViewerID(request.Context())
}

/*
RequiredUserID returns the ID of the signed-in reader.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized for anonymous requests
*/
func RequiredUserID(request *http.Request) (string, error) {
	userID := UserID(request)
	if userID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
