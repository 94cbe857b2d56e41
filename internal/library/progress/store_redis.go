// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/pkg/pointer"
)

// Hash fields of a cached progress entry.
const (
	fieldRevision   = "revision"
	fieldChapterID  = "chapter_id"
	fieldPageNumber = "page_number"
	fieldLastReadAt = "last_read_at"
)

// tombstoneTTL covers the longest read that could still be carrying a row
// loaded before the delete.
const tombstoneTTL = time.Minute

// storeIfNewer replaces the hash at KEYS[1] only when ARGV[1] is a larger
// revision than the one stored. ARGV[2] is the TTL in milliseconds; the
// remaining arguments are field/value pairs. A hash holding only a revision
// is a tombstone left by a delete.
var storeIfNewer = redis.NewScript(`
local stored = redis.call('HGET', KEYS[1], 'revision')
if stored and tonumber(stored) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'revision', ARGV[1], unpack(ARGV, 3))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// # Cached Repository

// cachedRepository fronts a [ProgressRepository] with a Redis hash per (user, comic).
//
// PostgreSQL stays the source of truth. Every cache write carries the row's
// revision and is dropped when Redis already holds a newer one, so a slow
// read can never put back a position that a later write replaced. Redis
// failures are logged and never surface to the caller.
type cachedRepository struct {
	ProgressRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis read cache.
func NewCachedRepository(next ProgressRepository, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) ProgressRepository {
	return &cachedRepository{
		ProgressRepository: next,
		client:             client,
		ttl:                ttl,
		logger:             logger,
	}
}

// cacheKey builds the Redis key for one (user, comic) pair.
func cacheKey(userID, comicID string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixProgress, userID, comicID)
}

// Upsert writes to the database, then caches the row it stored.
func (repository *cachedRepository) Upsert(context context.Context, params UpsertParams) (*ReadingProgress, error) {
	stored, err := repository.ProgressRepository.Upsert(context, params)
	if err != nil {
		return nil, err
	}

	repository.store(context, stored)
	return stored, nil
}

// Get serves from Redis when possible and fills the cache on a miss.
func (repository *cachedRepository) Get(context context.Context, userID, comicID string) (*ReadingProgress, error) {
	key := cacheKey(userID, comicID)

	cached, err := repository.client.HGetAll(context, key).Result()
	if err != nil {
		repository.logger.WarnContext(context, "progress_cache_read_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	} else if progress, ok := decodeProgress(userID, comicID, cached); ok {
		return progress, nil
	}

	progress, err := repository.ProgressRepository.Get(context, userID, comicID)
	if err != nil {
		return nil, err
	}

	repository.store(context, progress)
	return progress, nil
}

// Delete removes the database row and leaves a tombstone carrying its
// revision, which blocks fills from reads that started before the delete.
func (repository *cachedRepository) Delete(context context.Context, userID, comicID string) (int64, error) {
	revision, err := repository.ProgressRepository.Delete(context, userID, comicID)
	if err != nil {
		return 0, err
	}

	repository.run(context, cacheKey(userID, comicID), revision, tombstoneTTL)
	return revision, nil
}

// # Cache Helpers

func (repository *cachedRepository) store(context context.Context, progress *ReadingProgress) {
	page := ""
	if progress.PageNumber != nil {
		page = strconv.Itoa(*progress.PageNumber)
	}

	repository.run(context, cacheKey(progress.UserID, progress.ComicID), progress.Revision, repository.ttl,
		fieldChapterID, progress.ChapterID,
		fieldPageNumber, page,
		fieldLastReadAt, progress.LastReadAt.UTC().Format(time.RFC3339Nano),
	)
}

func (repository *cachedRepository) run(context context.Context, key string, revision int64, ttl time.Duration, fields ...any) {
	args := append([]any{revision, ttl.Milliseconds()}, fields...)

	if err := storeIfNewer.Run(context, repository.client, []string{key}, args...).Err(); err != nil {
		repository.logger.WarnContext(context, "progress_cache_write_failed",
			slog.String("key", key),
			slog.Int64("revision", revision),
			slog.Any("error", err),
		)
	}
}

// decodeProgress rebuilds a [ReadingProgress] from its hash fields.
// Empty, tombstoned and malformed hashes are treated as a cache miss.
func decodeProgress(userID, comicID string, fields map[string]string) (*ReadingProgress, bool) {
	chapterID := fields[fieldChapterID]
	if chapterID == "" {
		return nil, false
	}

	revision, err := strconv.ParseInt(fields[fieldRevision], 10, 64)
	if err != nil {
		return nil, false
	}

	lastReadAt, err := time.Parse(time.RFC3339Nano, fields[fieldLastReadAt])
	if err != nil {
		return nil, false
	}

	progress := &ReadingProgress{
		UserID:     userID,
		ComicID:    comicID,
		ChapterID:  chapterID,
		LastReadAt: lastReadAt,
		Revision:   revision,
	}

	if raw := fields[fieldPageNumber]; raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false
		}
		progress.PageNumber = pointer.To(page)
	}

	return progress, true
}
