// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comic provides the PostgreSQL implementation for catalogue lookups.

  - Window Functions: COUNT(*) OVER() returns the ranking total without a second query.
  - Privileged Writes: view counting is delegated to core.increment_view_count.
*/
package comic

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mahamanga/internal/platform/database/schema"
	"github.com/taibuivan/mahamanga/internal/platform/dberr"
)

// resourceComic names the entity in NotFound messages.
const resourceComic = "Comic"

// # PostgreSQL Repositories

// comicRepository implements the [ComicRepository] interface using pgx.
type comicRepository struct {
	pool *pgxpool.Pool
}

// NewComicRepository constructs a PostgreSQL backed comic store.
func NewComicRepository(pool *pgxpool.Pool) ComicRepository {
	return &comicRepository{pool: pool}
}

// # Comic Repository Implementation

// selectComic is the shared projection for single-comic lookups.
func selectComic(where string) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		strings.Join(schema.CoreComic.Columns(), ", "),
		schema.CoreComic.Table,
		where,
		schema.CoreComic.DeletedAt,
	)
}

// scanComic maps a row produced by [selectComic] or [ListTrending].
func scanComic(row pgx.Row, extra ...any) (*Comic, error) {
	var comic Comic
	var coverURL *string

	targets := []any{
		&comic.ID,
		&comic.Title,
		&comic.Slug,
		&coverURL,
		&comic.CreatorID,
		&comic.IsPublished,
		&comic.ViewCount,
		&comic.CreatedAt,
		&comic.UpdatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	if coverURL != nil {
		comic.CoverURL = *coverURL
	}

	return &comic, nil
}

/*
FindByID returns a non-deleted comic by primary key.
*/
func (repository *comicRepository) FindByID(context context.Context, id string) (*Comic, error) {
	comic, err := scanComic(repository.pool.QueryRow(context, selectComic(schema.CoreComic.ID), id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceComic, "find comic by id")
	}
	return comic, nil
}

/*
FindBySlug retrieves a comic using its unique SEO URL slug.
*/
func (repository *comicRepository) FindBySlug(context context.Context, slug string) (*Comic, error) {
	comic, err := scanComic(repository.pool.QueryRow(context, selectComic(schema.CoreComic.Slug), slug))
	if err != nil {
		return nil, dberr.Wrap(err, resourceComic, "find comic by slug")
	}
	return comic, nil
}

/*
ListTrending ranks published comics by view count.

Description: Ties are broken by the most recently updated comic so the order
stays stable between pages.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Comic: Ranked comics
  - int: Total published comics
*/
func (repository *comicRepository) ListTrending(context context.Context, limit, offset int) ([]*Comic, int, error) {

	// Ranking query with inline total
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s AND %s IS NULL
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		strings.Join(schema.CoreComic.Columns(), ", "),
		schema.CoreComic.Table,
		schema.CoreComic.IsPublished, schema.CoreComic.DeletedAt,
		schema.CoreComic.ViewCount, schema.CoreComic.UpdatedAt,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceComic, "list trending comics")
	}
	defer rows.Close()

	// Row Iteration and Entity Hydration
	comics := make([]*Comic, 0, limit)
	var totalCount int

	for rows.Next() {
		comic, err := scanComic(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceComic, "scan trending comic")
		}
		comics = append(comics, comic)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceComic, "iterate trending comics")
	}

	return comics, totalCount, nil
}

/*
IncrementViewCount calls the privileged counter function.

Description: The function updates both counters in one round-trip. An unknown
comic is a no-op at the database level, which keeps retries harmless.
*/
func (repository *comicRepository) IncrementViewCount(context context.Context, comicID, chapterID string) error {
	query := fmt.Sprintf(`SELECT %s($1, $2)`, schema.FnIncrementViewCount)

	if _, err := repository.pool.Exec(context, query, comicID, chapterID); err != nil {
		return dberr.Wrap(err, resourceComic, "increment view count")
	}

	return nil
}
