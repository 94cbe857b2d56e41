package schema

// CoreComicTable represents the 'core.comic' table
type CoreComicTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	CoverURL    string
	CreatorID   string
	IsPublished string
	ViewCount   string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// CoreComic is the schema definition for core.comic
var CoreComic = CoreComicTable{
	Table:       "core.comic",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	CoverURL:    "coverurl",
	CreatorID:   "creatorid",
	IsPublished: "ispublished",
	ViewCount:   "viewcount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// FnIncrementViewCount is the SECURITY DEFINER function that bumps comic and chapter counters.
const FnIncrementViewCount = "core.increment_view_count"

func (t CoreComicTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.CoverURL, t.CreatorID, t.IsPublished, t.ViewCount,
		t.CreatedAt, t.UpdatedAt,
	}
}
