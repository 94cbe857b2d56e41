package schema

import "strings"

// CorePageTable represents the 'core.page' table.
// Page numbers are 1-based and unique within a chapter.
type CorePageTable struct {
	Table      string
	ID         string
	ChapterID  string
	PageNumber string
	ImageURL   string
}

// CorePage is the schema definition for core.page
var CorePage = CorePageTable{
	Table:      "core.page",
	ID:         "id",
	ChapterID:  "chapterid",
	PageNumber: "pagenumber",
	ImageURL:   "imageurl",
}

// Columns lists the columns in the order [chapter.Page] scans them.
func (t CorePageTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.PageNumber, t.ImageURL}
}

// SelectList renders Columns for a SELECT clause.
func (t CorePageTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
