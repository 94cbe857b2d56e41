// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/internal/core/comic"
	"github.com/taibuivan/mahamanga/internal/platform/apperr"
	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/internal/platform/ctxutil"
	"github.com/taibuivan/mahamanga/internal/platform/sec"
)

// # Fakes

// MockComicResolver mocks the ComicResolver interface.
type MockComicResolver struct {
	mock.Mock
}

func (m *MockComicResolver) GetComic(ctx context.Context, identifier string) (*comic.Comic, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comic.Comic), args.Error(1)
}

// memoryGuard admits each key once.
type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (guard *memoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.err != nil {
		return false, guard.err
	}
	if guard.seen == nil {
		guard.seen = make(map[string]bool)
	}
	if guard.seen[key] {
		return false, nil
	}
	guard.seen[key] = true
	return true, nil
}

// # Harness

type envelope[T any] struct {
	Data T      `json:"data"`
	Code string `json:"code"`
}

func newTestRouter(handler *Handler, claims *sec.AuthClaims) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Route("/api/v1", handler.RegisterRoutes)
	return router
}

func serve[T any](t *testing.T, router http.Handler, request *http.Request) (int, envelope[T]) {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var body envelope[T]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func readerClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: testReader, Username: "nami", Role: "member"}
}

// # Tests

func TestHandler_OpenChapter(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c2").Return(publishedChapter("c2", testComic, testCreator, 2), nil)
	content.On("ListPublishedChapters", mock.Anything, testComic).
		Return([]*chapter.Summary{summary("c1", 1), summary("c2", 2)}, nil)

	handler := NewHandler(newTestTracker(content, newMemoryHistory()), new(MockComicResolver), &memoryGuard{}, "MahaManga")

	t.Run("authenticated_watermark", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/"+testComic+"/chapters/c2", nil)

		code, body := serve[chapterPayload](t, newTestRouter(handler, readerClaims()), request)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "MahaManga · @nami", body.Data.Watermark)
		require.NotNil(t, body.Data.Reading)
		assert.Equal(t, "c1", *body.Data.Navigation.PrevChapterID)
		assert.Nil(t, body.Data.Navigation.NextChapterID)
		assert.Len(t, body.Data.Chapter.Pages, 2)
	})

	t.Run("anonymous_watermark", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/"+testComic+"/chapters/c2", nil)

		_, body := serve[chapterPayload](t, newTestRouter(handler, nil), request)

		assert.Equal(t, "MahaManga", body.Data.Watermark)
	})

	content.AssertNotCalled(t, "IncrementComicViewCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_OpenChapter_WrongComic(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c2").Return(publishedChapter("c2", "comic-other", testCreator, 2), nil)
	content.On("ListPublishedChapters", mock.Anything, testComic).Return([]*chapter.Summary{}, nil)

	handler := NewHandler(newTestTracker(content, newMemoryHistory()), new(MockComicResolver), &memoryGuard{}, "MahaManga")
	request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/"+testComic+"/chapters/c2", nil)

	code, body := serve[json.RawMessage](t, newTestRouter(handler, nil), request)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, apperr.CodeInvalidState, body.Code)
}

func TestHandler_RecordView(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c1").Return(publishedChapter("c1", testComic, testCreator, 1), nil)
	content.On("IncrementComicViewCount", mock.Anything, testComic, "c1").Return(nil)
	history := newMemoryHistory()

	handler := NewHandler(newTestTracker(content, history), new(MockComicResolver), &memoryGuard{}, "MahaManga")
	router := newTestRouter(handler, readerClaims())

	newRequest := func() *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/c1/views", strings.NewReader(`{"page_number":2}`))
		request.Header.Set(constants.HeaderReaderSession, "tab-1")
		return request
	}

	code, first := serve[recordViewResponse](t, router, newRequest())
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, first.Data.Duplicate)
	assert.True(t, first.Data.ProgressSaved)
	assert.True(t, first.Data.ViewCounted)

	_, second := serve[recordViewResponse](t, router, newRequest())
	assert.True(t, second.Data.Duplicate)
	assert.False(t, second.Data.ViewCounted)
	assert.True(t, second.Data.ProgressSaved)

	content.AssertNumberOfCalls(t, "IncrementComicViewCount", 1)
	stored, err := history.GetProgress(context.Background(), testReader, testComic)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ResumePage())
}

func TestHandler_RecordView_ReturningToChapterMovesProgressBack(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c1").Return(publishedChapter("c1", testComic, testCreator, 1), nil)
	content.On("GetChapter", mock.Anything, "c2").Return(publishedChapter("c2", testComic, testCreator, 2), nil)
	content.On("IncrementComicViewCount", mock.Anything, testComic, mock.Anything).Return(nil)
	history := newMemoryHistory()

	handler := NewHandler(newTestTracker(content, history), new(MockComicResolver), &memoryGuard{}, "MahaManga")
	router := newTestRouter(handler, readerClaims())

	post := func(chapterID, body string) recordViewResponse {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/"+chapterID+"/views", strings.NewReader(body))
		request.Header.Set(constants.HeaderReaderSession, "tab-1")
		code, response := serve[recordViewResponse](t, router, request)
		require.Equal(t, http.StatusOK, code)
		return response.Data
	}

	post("c1", "")
	post("c2", "")
	back := post("c1", `{"page_number":2}`)

	assert.True(t, back.Duplicate)
	assert.True(t, back.ProgressSaved)
	assert.False(t, back.ViewCounted)

	stored, err := history.GetProgress(context.Background(), testReader, testComic)
	require.NoError(t, err)
	assert.Equal(t, "c1", stored.ChapterID)
	assert.Equal(t, 2, stored.ResumePage())

	content.AssertNumberOfCalls(t, "IncrementComicViewCount", 2)
}

func TestHandler_RecordView_GuardDownFailsOpen(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c1").Return(publishedChapter("c1", testComic, testCreator, 1), nil)
	content.On("IncrementComicViewCount", mock.Anything, testComic, "c1").Return(nil)

	guard := &memoryGuard{err: errors.New("redis: connection refused")}
	handler := NewHandler(newTestTracker(content, newMemoryHistory()), new(MockComicResolver), guard, "MahaManga")
	request := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/c1/views", nil)

	code, body := serve[recordViewResponse](t, newTestRouter(handler, nil), request)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, body.Data.Duplicate)
	assert.True(t, body.Data.ViewCounted)
}

func TestHandler_RecordView_RejectsBadPage(t *testing.T) {
	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c1").Return(publishedChapter("c1", testComic, testCreator, 1), nil)

	handler := NewHandler(newTestTracker(content, newMemoryHistory()), new(MockComicResolver), &memoryGuard{}, "MahaManga")
	request := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/c1/views", strings.NewReader(`{"page_number":9}`))

	code, body := serve[json.RawMessage](t, newTestRouter(handler, nil), request)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperr.CodeValidation, body.Code)
	content.AssertNotCalled(t, "IncrementComicViewCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Start(t *testing.T) {
	content := new(MockContentStore)
	content.On("ListPublishedChapters", mock.Anything, testComic).
		Return([]*chapter.Summary{summary("c3", 3), summary("c1", 1)}, nil)

	comics := new(MockComicResolver)
	comics.On("GetComic", mock.Anything, "one-piece").
		Return(&comic.Comic{ID: testComic, Slug: "one-piece", CreatorID: testCreator, IsPublished: true}, nil)
	comics.On("GetComic", mock.Anything, "draft-comic").
		Return(&comic.Comic{ID: "comic-draft", Slug: "draft-comic", CreatorID: testCreator}, nil)

	handler := NewHandler(newTestTracker(content, newMemoryHistory()), comics, &memoryGuard{}, "MahaManga")

	t.Run("entry_chapter", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/one-piece/start", nil)

		code, body := serve[ResumePoint](t, newTestRouter(handler, nil), request)

		assert.Equal(t, http.StatusOK, code)
		require.NotNil(t, body.Data.ChapterID)
		assert.Equal(t, "c1", *body.Data.ChapterID)
		assert.False(t, body.Data.Resumed)
	})

	t.Run("unpublished_comic_hidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/draft-comic/start", nil)

		code, body := serve[json.RawMessage](t, newTestRouter(handler, readerClaims()), request)

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, apperr.CodeNotFound, body.Code)
	})
}

func TestHandler_Navigation_HidesUnpublishedChapter(t *testing.T) {
	draft := publishedChapter("c3", testComic, testCreator, 3)
	draft.IsPublished = false

	content := new(MockContentStore)
	content.On("GetChapter", mock.Anything, "c3").Return(draft, nil)
	content.On("ListPublishedChapters", mock.Anything, testComic).
		Return([]*chapter.Summary{summary("c1", 1), summary("c2", 2)}, nil)

	handler := NewHandler(newTestTracker(content, newMemoryHistory()), new(MockComicResolver), &memoryGuard{}, "MahaManga")
	path := "/api/v1/comics/" + testComic + "/chapters/c3/navigation"

	t.Run("reader", func(t *testing.T) {
		code, body := serve[json.RawMessage](t, newTestRouter(handler, readerClaims()), httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, apperr.CodeNotFound, body.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		code, _ := serve[json.RawMessage](t, newTestRouter(handler, nil), httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("owner_preview", func(t *testing.T) {
		owner := &sec.AuthClaims{UserID: testCreator, Username: "oda"}

		code, body := serve[Navigation](t, newTestRouter(handler, owner), httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, 0, body.Data.Position)
		assert.Equal(t, 2, body.Data.Total)
	})
}
