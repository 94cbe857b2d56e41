// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"cmp"
	"slices"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/pkg/pointer"
)

// sortChapters returns a copy of chapters ordered numerically by chapter number.
// Equal numbers keep their input order.
func sortChapters(chapters []*chapter.Summary) []*chapter.Summary {
	sorted := slices.Clone(chapters)
	slices.SortStableFunc(sorted, func(a, b *chapter.Summary) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return sorted
}

// locate resolves the neighbours of currentID in the published sequence.
//
// The first entry matching currentID wins. A chapter missing from the
// sequence (an unpublished preview) has position 0 and no neighbours.
func locate(published []*chapter.Summary, currentID string) Navigation {
	sorted := sortChapters(published)
	navigation := Navigation{Total: len(sorted)}

	index := slices.IndexFunc(sorted, func(summary *chapter.Summary) bool {
		return summary.ID == currentID
	})
	if index < 0 {
		return navigation
	}

	navigation.Position = index + 1
	navigation.Ambiguous = isAmbiguous(sorted, index)

	if index > 0 {
		navigation.PrevChapterID = pointer.To(sorted[index-1].ID)
	}
	if index < len(sorted)-1 {
		navigation.NextChapterID = pointer.To(sorted[index+1].ID)
	}

	return navigation
}

// isAmbiguous reports whether the chapter at index shares its identity or its
// number with another entry.
func isAmbiguous(sorted []*chapter.Summary, index int) bool {
	current := sorted[index]
	for i, other := range sorted {
		if i == index {
			continue
		}
		if other.ID == current.ID || other.Number == current.Number {
			return true
		}
	}
	return false
}
