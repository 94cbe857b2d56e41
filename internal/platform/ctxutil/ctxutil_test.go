// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mahamanga/internal/platform/ctxutil"
	"github.com/taibuivan/mahamanga/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "0190a5c4-7f3e-7c1a-9b2d-3e4f5a6b7c8d")
	assert.Equal(t, "0190a5c4-7f3e-7c1a-9b2d-3e4f5a6b7c8d", ctxutil.GetRequestID(ctx))
}

func TestClientIP(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetClientIP(ctx))

	ctx = ctxutil.WithClientIP(ctx, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ctxutil.GetClientIP(ctx))
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))
}

/*
TestViewerID distinguishes anonymous and authenticated readers.
*/
func TestViewerID(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Empty(t, ctxutil.ViewerID(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "reader-1", Username: "nami"})

	assert.Equal(t, "reader-1", ctxutil.ViewerID(ctx))
	assert.Equal(t, "nami", ctxutil.GetAuthUser(ctx).Username)
}
