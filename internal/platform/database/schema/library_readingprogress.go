package schema

// LibraryReadingProgressTable represents the 'library.readingprogress' table.
// Exactly one row exists per (userid, comicid).
type LibraryReadingProgressTable struct {
	Table      string
	ID         string
	UserID     string
	ComicID    string
	ChapterID  string
	PageNumber string
	LastReadAt string

	// Revision is drawn from RevisionSeq on every insert and update.
	Revision    string
	RevisionSeq string
}

// LibraryReadingProgress is the schema definition for library.readingprogress
var LibraryReadingProgress = LibraryReadingProgressTable{
	Table:      "library.readingprogress",
	ID:         "id",
	UserID:     "userid",
	ComicID:    "comicid",
	ChapterID:  "chapterid",
	PageNumber: "pagenumber",
	LastReadAt: "lastreadat",

	Revision:    "revision",
	RevisionSeq: "library.readingprogress_revision_seq",
}

// ConflictTarget is the unique key used by upserts.
func (t LibraryReadingProgressTable) ConflictTarget() string {
	return t.UserID + ", " + t.ComicID
}
