// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
)

// # Fakes

// gatedLoader serves canned readings and can hold a load until released.
type gatedLoader struct {
	mu       sync.Mutex
	readings map[string]*Reading
	failures map[string]error
	gates    map[string]chan struct{}
	views    []ViewEvent

	started chan string
}

func newGatedLoader(readings ...*Reading) *gatedLoader {
	loader := &gatedLoader{
		readings: make(map[string]*Reading),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
		started:  make(chan string, 16),
	}
	for _, reading := range readings {
		loader.readings[reading.Chapter.ID] = reading
	}
	return loader
}

func (loader *gatedLoader) hold(chapterID string) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.gates[chapterID] = make(chan struct{})
}

func (loader *gatedLoader) release(chapterID string) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	close(loader.gates[chapterID])
}

func (loader *gatedLoader) fail(chapterID string, err error) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	if err == nil {
		delete(loader.failures, chapterID)
		return
	}
	loader.failures[chapterID] = err
}

func (loader *gatedLoader) Load(_ context.Context, _, chapterID, _ string) (*Reading, error) {
	loader.started <- chapterID

	loader.mu.Lock()
	gate := loader.gates[chapterID]
	loader.mu.Unlock()
	if gate != nil {
		<-gate
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()
	if err := loader.failures[chapterID]; err != nil {
		return nil, err
	}
	reading, ok := loader.readings[chapterID]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	return reading, nil
}

func (loader *gatedLoader) RecordView(_ context.Context, event ViewEvent) ViewResult {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.views = append(loader.views, event)
	return ViewResult{ViewCounted: !event.ViewerIsOwner}
}

func (loader *gatedLoader) recorded() []ViewEvent {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	return append([]ViewEvent(nil), loader.views...)
}

func readingOf(id string, prev, next *string) *Reading {
	return &Reading{
		Chapter:    publishedChapter(id, testComic, testCreator, 1),
		Navigation: Navigation{PrevChapterID: prev, NextChapterID: next},
	}
}

func strPtr(value string) *string {
	return &value
}

// # Tests

func TestSession_OpenRecordsViewOnce(t *testing.T) {
	loader := newGatedLoader(readingOf("c1", nil, nil))
	session := NewSession(loader, testReader, discardLogger())

	require.NoError(t, session.Open(context.Background(), testComic, "c1", intPtr(4)))
	for range 5 {
		assert.Equal(t, StateReady, session.Snapshot().State)
	}
	session.Wait()

	views := loader.recorded()
	require.Len(t, views, 1)
	assert.Equal(t, "c1", views[0].ChapterID)
	assert.Equal(t, testReader, views[0].UserID)
	assert.Equal(t, 4, *views[0].PageNumber)
}

func TestSession_StaleLoadIsDiscarded(t *testing.T) {
	loader := newGatedLoader(readingOf("A", nil, nil), readingOf("B", nil, nil))
	loader.hold("A")
	session := NewSession(loader, testReader, discardLogger())

	resultA := make(chan error, 1)
	go func() {
		resultA <- session.Open(context.Background(), testComic, "A", nil)
	}()
	require.Equal(t, "A", <-loader.started)

	require.NoError(t, session.Open(context.Background(), testComic, "B", nil))

	loader.release("A")
	assert.ErrorIs(t, <-resultA, ErrSuperseded)

	snapshot := session.Snapshot()
	assert.Equal(t, StateReady, snapshot.State)
	assert.Equal(t, "B", snapshot.ChapterID)
	require.NotNil(t, snapshot.Reading)
	assert.Equal(t, "B", snapshot.Reading.Chapter.ID)

	session.Wait()
	views := loader.recorded()
	require.Len(t, views, 1)
	assert.Equal(t, "B", views[0].ChapterID)
}

func TestSession_Navigate(t *testing.T) {
	loader := newGatedLoader(
		readingOf("c1", nil, strPtr("c2")),
		readingOf("c2", strPtr("c1"), nil),
	)
	session := NewSession(loader, testReader, discardLogger())
	ctx := context.Background()

	require.NoError(t, session.Open(ctx, testComic, "c1", nil))

	err := session.Navigate(ctx, Previous)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))

	require.NoError(t, session.Navigate(ctx, Next))
	assert.Equal(t, "c2", session.Snapshot().Reading.Chapter.ID)

	err = session.Navigate(ctx, Next)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))

	require.NoError(t, session.Navigate(ctx, Previous))
	assert.Equal(t, "c1", session.Snapshot().Reading.Chapter.ID)

	session.Wait()
	assert.Len(t, loader.recorded(), 3)
}

func TestSession_NavigateBeforeReady(t *testing.T) {
	session := NewSession(newGatedLoader(), testReader, discardLogger())

	err := session.Navigate(context.Background(), Next)

	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))
}

func TestSession_ErrorAndRetry(t *testing.T) {
	loader := newGatedLoader(readingOf("c1", nil, nil))
	loader.fail("c1", apperr.Internal(assert.AnError))
	session := NewSession(loader, testReader, discardLogger())
	ctx := context.Background()

	err := session.Open(ctx, testComic, "c1", nil)
	require.Error(t, err)

	snapshot := session.Snapshot()
	assert.Equal(t, StateError, snapshot.State)
	assert.Error(t, snapshot.Err)
	assert.Nil(t, snapshot.Reading)

	loader.fail("c1", nil)
	require.NoError(t, session.Retry(ctx))
	assert.Equal(t, StateReady, session.Snapshot().State)

	err = session.Retry(ctx)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))

	session.Wait()
	assert.Len(t, loader.recorded(), 1)
}

func TestSession_Select(t *testing.T) {
	loader := newGatedLoader(readingOf("c1", nil, nil), readingOf("c7", nil, nil))
	session := NewSession(loader, testReader, discardLogger())
	ctx := context.Background()

	assert.True(t, apperr.Is(session.Select(ctx, "c7"), apperr.CodeInvalidState))

	require.NoError(t, session.Open(ctx, testComic, "c1", nil))
	require.NoError(t, session.Select(ctx, "c7"))

	assert.Equal(t, "c7", session.Snapshot().Reading.Chapter.ID)
}

func TestSession_OwnerViewFlag(t *testing.T) {
	reading := readingOf("c1", nil, nil)
	reading.ViewerIsOwner = true
	loader := newGatedLoader(reading)
	session := NewSession(loader, testCreator, discardLogger())

	require.NoError(t, session.Open(context.Background(), testComic, "c1", nil))
	session.Wait()

	views := loader.recorded()
	require.Len(t, views, 1)
	assert.True(t, views[0].ViewerIsOwner)
}

func TestSession_Close(t *testing.T) {
	loader := newGatedLoader(readingOf("c1", nil, nil))
	loader.hold("c1")
	session := NewSession(loader, testReader, discardLogger())

	result := make(chan error, 1)
	go func() {
		result <- session.Open(context.Background(), testComic, "c1", nil)
	}()
	<-loader.started

	session.Close()
	loader.release("c1")

	assert.ErrorIs(t, <-result, ErrSuperseded)
	assert.Equal(t, StateClosed, session.Snapshot().State)
	assert.ErrorIs(t, session.Open(context.Background(), testComic, "c1", nil), ErrSessionClosed)
	assert.Empty(t, loader.recorded())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "navigating", StateNavigating.String())
	assert.Equal(t, "unknown", State(99).String())
}
