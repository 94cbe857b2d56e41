// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter provides the PostgreSQL implementation for chapter reads.

A chapter and its pages are fetched in a single pipelined batch, so opening a
chapter costs one round-trip regardless of page count.
*/
package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mahamanga/internal/platform/database/schema"
	"github.com/taibuivan/mahamanga/internal/platform/dberr"
)

// resourceChapter names the entity in NotFound messages.
const resourceChapter = "Chapter"

// # PostgreSQL Repositories

// chapterRepository implements the [ChapterRepository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a PostgreSQL backed chapter store.
func NewChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepository{pool: pool}
}

// # Chapter Repository Implementation

/*
FindWithPages loads a chapter, its comic's ownership data and its pages.

Description: Both statements are queued on one [pgx.Batch]. Chapters of a
soft-deleted comic are reported as missing.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: Chapter with pages sorted by page number
  - error: apperr.NotFound on absent rows
*/
func (repository *chapterRepository) FindWithPages(context context.Context, id string) (*Chapter, error) {

	// Chapter with parent comic attributes
	chapterQuery := fmt.Sprintf(`
		SELECT
			ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s,
			co.%s, co.%s
		FROM %s ch
		JOIN %s co ON co.%s = ch.%s
		WHERE ch.%s = $1 AND ch.%s IS NULL AND co.%s IS NULL
	`,
		schema.CoreChapter.ID, schema.CoreChapter.ComicID, schema.CoreChapter.ChapterNumber,
		schema.CoreChapter.Title, schema.CoreChapter.IsPublished, schema.CoreChapter.ViewCount,
		schema.CoreChapter.PublishedAt,
		schema.CoreComic.Title, schema.CoreComic.CreatorID,
		schema.CoreChapter.Table,
		schema.CoreComic.Table, schema.CoreComic.ID, schema.CoreChapter.ComicID,
		schema.CoreChapter.ID, schema.CoreChapter.DeletedAt, schema.CoreComic.DeletedAt,
	)

	// Ordered page retrieval
	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.CorePage.SelectList(),
		schema.CorePage.Table,
		schema.CorePage.ChapterID,
		schema.CorePage.PageNumber,
	)

	batch := &pgx.Batch{}
	batch.Queue(chapterQuery, id)
	batch.Queue(pageQuery, id)

	results := repository.pool.SendBatch(context, batch)
	defer results.Close()

	// Chapter Entity Mapping
	var chapter Chapter
	err := results.QueryRow().Scan(
		&chapter.ID,
		&chapter.ComicID,
		&chapter.Number,
		&chapter.Title,
		&chapter.IsPublished,
		&chapter.ViewCount,
		&chapter.PublishedAt,
		&chapter.ComicTitle,
		&chapter.CreatorID,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceChapter, "find chapter")
	}

	// Page Iteration
	rows, err := results.Query()
	if err != nil {
		return nil, dberr.Wrap(err, resourceChapter, "list pages")
	}
	defer rows.Close()

	chapter.Pages = make([]*Page, 0)
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.ID, &page.ChapterID, &page.PageNumber, &page.ImageURL); err != nil {
			return nil, dberr.Wrap(err, resourceChapter, "scan page")
		}
		chapter.Pages = append(chapter.Pages, &page)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceChapter, "iterate pages")
	}

	return &chapter, nil
}

/*
ListPublishedByComic returns the navigable chapter sequence of a comic.

Description: Ordering is numeric on the chapter number column, with the
primary key as a stable tie-breaker.
*/
func (repository *chapterRepository) ListPublishedByComic(context context.Context, comicID string) ([]*Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s AND %s IS NULL
		ORDER BY %s ASC, %s ASC
	`,
		schema.CoreChapter.ID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.Title,
		schema.CoreChapter.Table,
		schema.CoreChapter.ComicID, schema.CoreChapter.IsPublished, schema.CoreChapter.DeletedAt,
		schema.CoreChapter.ChapterNumber, schema.CoreChapter.ID,
	)

	rows, err := repository.pool.Query(context, query, comicID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceChapter, "list published chapters")
	}
	defer rows.Close()

	summaries := make([]*Summary, 0)
	for rows.Next() {
		var summary Summary
		if err := rows.Scan(&summary.ID, &summary.Number, &summary.Title); err != nil {
			return nil, dberr.Wrap(err, resourceChapter, "scan published chapter")
		}
		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceChapter, "iterate published chapters")
	}

	return summaries, nil
}
