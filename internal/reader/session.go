// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taibuivan/mahamanga/internal/platform/apperr"
)

// # Session States

// State is the lifecycle stage of a reading [Session].
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateNavigating
	StateError
	StateClosed
)

// String returns the snake_case name of the state, used in logs.
func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNavigating:
		return "navigating"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Direction selects a neighbour for [Session.Navigate].
type Direction int

const (
	Previous Direction = iota
	Next
)

var (
	// ErrSuperseded is returned by a load that finished after a newer load started.
	ErrSuperseded = errors.New("reader: load superseded by a newer chapter")

	// ErrSessionClosed is returned once [Session.Close] has been called.
	ErrSessionClosed = errors.New("reader: session closed")
)

// Loader is the part of [Tracker] a session drives.
type Loader interface {
	Load(ctx context.Context, comicID, chapterID, viewerID string) (*Reading, error)
	RecordView(ctx context.Context, event ViewEvent) ViewResult
}

// Snapshot is a consistent view of a session at one instant.
type Snapshot struct {
	State     State
	ComicID   string
	ChapterID string // chapter currently desired by the reader
	Reading   *Reading
	Err       error
}

// # Reading Session

// Session drives one reader through a comic:
//
//	Idle -> Loading -> Ready -> (Navigating -> Loading)*
//
// with Error reachable from Loading and Closed from anywhere. It is safe for
// concurrent use.
//
// Every load captures a generation number. Results are committed only when
// that generation is still current, so a slow load for an earlier chapter can
// never overwrite a newer one. The view of each committed chapter is recorded
// exactly once, in the background.
type Session struct {
	loader   Loader
	viewerID string
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	comicID    string
	chapterID  string
	generation uint64
	cancel     context.CancelFunc
	reading    *Reading
	err        error
	viewFired  bool

	pending sync.WaitGroup
}

// NewSession creates an idle session for viewerID (empty for anonymous readers).
func NewSession(loader Loader, viewerID string, logger *slog.Logger) *Session {
	return &Session{
		loader:   loader,
		viewerID: viewerID,
		logger:   logger,
		state:    StateIdle,
	}
}

// # Transitions

/*
Open loads a chapter and, when the load is still current, makes it Ready.

Description: Starting a load cancels any load in flight. The one-shot view
flag is cleared here and set right before the view is recorded.

Parameters:
  - ctx: context.Context (its values are kept for the background view write)
  - comicID: string (UUID)
  - chapterID: string (UUID)
  - page: *int (optional landing page)

Returns:
  - error: ErrSuperseded, ErrSessionClosed, or the load failure (state Error)
*/
func (session *Session) Open(ctx context.Context, comicID, chapterID string, page *int) error {

	// 1. Begin a new generation
	session.mu.Lock()
	if session.state == StateClosed {
		session.mu.Unlock()
		return ErrSessionClosed
	}
	if session.cancel != nil {
		session.cancel()
	}

	session.generation++
	generation := session.generation

	loadCtx, cancel := context.WithCancel(ctx)
	session.cancel = cancel
	session.comicID = comicID
	session.chapterID = chapterID
	session.state = StateLoading
	session.viewFired = false
	session.mu.Unlock()

	// 2. Fetch without holding the lock
	reading, err := session.loader.Load(loadCtx, comicID, chapterID, session.viewerID)

	// 3. Commit only if still current
	session.mu.Lock()
	defer session.mu.Unlock()
	cancel()

	if generation != session.generation || session.state == StateClosed {
		session.logger.DebugContext(ctx, "reader_load_superseded",
			slog.String("chapter_id", chapterID),
		)
		return ErrSuperseded
	}
	session.cancel = nil

	if err != nil {
		session.state = StateError
		session.reading = nil
		session.err = err
		return err
	}

	session.state = StateReady
	session.reading = reading
	session.err = nil
	session.recordOnce(ctx, reading, page)

	return nil
}

/*
Navigate moves to the previous or next published chapter.

Returns:
  - error: InvalidState when no chapter is Ready or there is no neighbour,
    otherwise the result of [Session.Open]
*/
func (session *Session) Navigate(ctx context.Context, direction Direction) error {
	session.mu.Lock()
	if session.state != StateReady {
		state := session.state
		session.mu.Unlock()
		return apperr.InvalidState("Cannot navigate while " + state.String())
	}

	target := session.reading.Navigation.NextChapterID
	if direction == Previous {
		target = session.reading.Navigation.PrevChapterID
	}
	if target == nil {
		session.mu.Unlock()
		return apperr.InvalidState("No chapter in that direction")
	}

	comicID := session.comicID
	session.state = StateNavigating
	session.mu.Unlock()

	return session.Open(ctx, comicID, *target, nil)
}

// Select jumps to a chapter picked from the chapter list of the current comic.
func (session *Session) Select(ctx context.Context, chapterID string) error {
	session.mu.Lock()
	if session.state == StateIdle || session.state == StateClosed {
		state := session.state
		session.mu.Unlock()
		return apperr.InvalidState("Cannot select a chapter while " + state.String())
	}
	comicID := session.comicID
	session.state = StateNavigating
	session.mu.Unlock()

	return session.Open(ctx, comicID, chapterID, nil)
}

// Retry reloads the desired chapter after a failed load.
func (session *Session) Retry(ctx context.Context) error {
	session.mu.Lock()
	if session.state != StateError {
		state := session.state
		session.mu.Unlock()
		return apperr.InvalidState("Nothing to retry while " + state.String())
	}
	comicID, chapterID := session.comicID, session.chapterID
	session.mu.Unlock()

	return session.Open(ctx, comicID, chapterID, nil)
}

// Close cancels any load in flight and waits for pending view writes.
func (session *Session) Close() {
	session.mu.Lock()
	if session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
	session.state = StateClosed
	session.mu.Unlock()

	session.pending.Wait()
}

// Wait blocks until every background view write has finished.
func (session *Session) Wait() {
	session.pending.Wait()
}

// Snapshot returns the current state of the session.
func (session *Session) Snapshot() Snapshot {
	session.mu.Lock()
	defer session.mu.Unlock()

	return Snapshot{
		State:     session.state,
		ComicID:   session.comicID,
		ChapterID: session.chapterID,
		Reading:   session.reading,
		Err:       session.err,
	}
}

// # Side Effects

// recordOnce fires the view for a committed chapter. Caller holds mu.
func (session *Session) recordOnce(ctx context.Context, reading *Reading, page *int) {
	if session.viewFired {
		return
	}
	session.viewFired = true

	event := ViewEvent{
		UserID:        session.viewerID,
		ComicID:       reading.Chapter.ComicID,
		ChapterID:     reading.Chapter.ID,
		PageNumber:    page,
		ViewerIsOwner: reading.ViewerIsOwner,
	}

	// The write outlives navigation away from the chapter.
	writeCtx := context.WithoutCancel(ctx)

	session.pending.Add(1)
	go func() {
		defer session.pending.Done()
		session.loader.RecordView(writeCtx, event)
	}()
}
