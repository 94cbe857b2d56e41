// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mahamanga/internal/platform/database/schema"
	"github.com/taibuivan/mahamanga/internal/platform/dberr"
	"github.com/taibuivan/mahamanga/pkg/uuid"
)

// resourceProgress names the entity in NotFound messages.
const resourceProgress = "Reading progress"

// # PostgreSQL Repository

// progressRepository implements [ProgressRepository] using pgx.
type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository constructs a PostgreSQL backed progress store.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

/*
Upsert records a reading position with a single INSERT ... ON CONFLICT.

Description: The unique (userid, comicid) constraint is the conflict target, so
concurrent writers from several devices collapse into one row without a
read-modify-write window. GREATEST keeps lastreadat monotonic, and every
write draws a new revision from the sequence.
*/
func (repository *progressRepository) Upsert(context context.Context, params UpsertParams) (*ReadingProgress, error) {
	table := schema.LibraryReadingProgress

	query := fmt.Sprintf(`
		INSERT INTO %s AS rp (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = GREATEST(rp.%s, EXCLUDED.%s),
			%s = nextval('%s')
		RETURNING %s, %s, %s, %s
	`,
		table.Table,
		table.ID, table.UserID, table.ComicID, table.ChapterID, table.PageNumber, table.LastReadAt,
		table.ConflictTarget(),
		table.ChapterID, table.ChapterID,
		table.PageNumber, table.PageNumber,
		table.LastReadAt, table.LastReadAt, table.LastReadAt,
		table.Revision, table.RevisionSeq,
		table.ChapterID, table.PageNumber, table.LastReadAt, table.Revision,
	)

	stored := ReadingProgress{UserID: params.UserID, ComicID: params.ComicID}
	err := repository.pool.QueryRow(context, query,
		uuid.New(),
		params.UserID,
		params.ComicID,
		params.ChapterID,
		params.PageNumber,
		params.ReadAt,
	).Scan(&stored.ChapterID, &stored.PageNumber, &stored.LastReadAt, &stored.Revision)
	if err != nil {
		return nil, dberr.Wrap(err, resourceProgress, "upsert reading progress")
	}

	return &stored, nil
}

/*
Get returns the stored position for a user and comic.
*/
func (repository *progressRepository) Get(context context.Context, userID, comicID string) (*ReadingProgress, error) {
	table := schema.LibraryReadingProgress

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		table.UserID, table.ComicID, table.ChapterID, table.PageNumber, table.LastReadAt, table.Revision,
		table.Table,
		table.UserID, table.ComicID,
	)

	var progress ReadingProgress
	err := repository.pool.QueryRow(context, query, userID, comicID).Scan(
		&progress.UserID,
		&progress.ComicID,
		&progress.ChapterID,
		&progress.PageNumber,
		&progress.LastReadAt,
		&progress.Revision,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceProgress, "get reading progress")
	}

	return &progress, nil
}

/*
ListByUser returns the reading history of a user joined with catalogue details.

Description: Entries whose comic has been soft-deleted are hidden.
*/
func (repository *progressRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*ReadingProgress, int, error) {
	table := schema.LibraryReadingProgress

	query := fmt.Sprintf(`
		SELECT
			rp.%s, rp.%s, rp.%s, rp.%s, rp.%s,
			co.%s, co.%s, co.%s, ch.%s,
			COUNT(*) OVER() AS total_count
		FROM %s rp
		JOIN %s co ON co.%s = rp.%s
		JOIN %s ch ON ch.%s = rp.%s
		WHERE rp.%s = $1 AND co.%s IS NULL
		ORDER BY rp.%s DESC
		LIMIT $2 OFFSET $3
	`,
		table.UserID, table.ComicID, table.ChapterID, table.PageNumber, table.LastReadAt,
		schema.CoreComic.Title, schema.CoreComic.Slug, schema.CoreComic.CoverURL, schema.CoreChapter.ChapterNumber,
		table.Table,
		schema.CoreComic.Table, schema.CoreComic.ID, table.ComicID,
		schema.CoreChapter.Table, schema.CoreChapter.ID, table.ChapterID,
		table.UserID, schema.CoreComic.DeletedAt,
		table.LastReadAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceProgress, "list reading history")
	}
	defer rows.Close()

	entries := make([]*ReadingProgress, 0, limit)
	var totalCount int

	for rows.Next() {
		var entry ReadingProgress
		var coverURL *string
		err := rows.Scan(
			&entry.UserID,
			&entry.ComicID,
			&entry.ChapterID,
			&entry.PageNumber,
			&entry.LastReadAt,
			&entry.ComicTitle,
			&entry.ComicSlug,
			&coverURL,
			&entry.ChapterNumber,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceProgress, "scan reading history")
		}
		if coverURL != nil {
			entry.CoverURL = *coverURL
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceProgress, "iterate reading history")
	}

	return entries, totalCount, nil
}

/*
Delete removes the stored position for a user and comic and reports the
revision it had.
*/
func (repository *progressRepository) Delete(context context.Context, userID, comicID string) (int64, error) {
	table := schema.LibraryReadingProgress

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING %s`,
		table.Table, table.UserID, table.ComicID, table.Revision)

	var revision int64
	if err := repository.pool.QueryRow(context, query, userID, comicID).Scan(&revision); err != nil {
		// pgx.ErrNoRows maps to NotFound
		return 0, dberr.Wrap(err, resourceProgress, "delete reading progress")
	}

	return revision, nil
}
