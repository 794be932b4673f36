// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"sort"

	"github.com/pdiddy/author-brief/pkg/types"
)

// TopPapers returns the k most-cited papers, sorted by citation count
// descending. The input slice is not modified.
func TopPapers(papers []types.AuthorPaper, k int) []types.AuthorPaper {
	sorted := make([]types.AuthorPaper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Citations > sorted[j].Citations
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// SortByCitations orders authors by total citation count descending.
func SortByCitations(authors []types.Author) {
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].CitationCount > authors[j].CitationCount
	})
}

// FilterByCitations keeps authors whose citation count, after subtracting
// the looked-up paper's own citations, meets the threshold. Authors below
// it ride on the shared paper's popularity rather than a track record of
// their own. Returns the kept authors and the removed names.
func FilterByCitations(authors []types.Author, threshold, paperCitations int) (kept []types.Author, removed []string) {
	for _, a := range authors {
		if a.CitationCount-paperCitations >= threshold {
			kept = append(kept, a)
		} else {
			removed = append(removed, a.Name)
		}
	}
	return kept, removed
}
