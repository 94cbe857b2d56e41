package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table         string
	ID            string
	ComicID       string
	ChapterNumber string
	Title         string
	IsPublished   string
	ViewCount     string
	PublishedAt   string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:         "core.chapter",
	ID:            "id",
	ComicID:       "comicid",
	ChapterNumber: "chapternumber",
	Title:         "title",
	IsPublished:   "ispublished",
	ViewCount:     "viewcount",
	PublishedAt:   "publishedat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.ComicID, t.ChapterNumber, t.Title, t.IsPublished, t.ViewCount,
		t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
