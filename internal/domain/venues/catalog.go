package venues

import (
	"sort"
	"strings"
)

const DefaultRecommendedLimit = 4

// Page is one slice of a filtered, ordered catalog.
type Page struct {
	Items      []*Venue
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List filters, orders and paginates the given collection. It never mutates
// the input slice.
func List(all []*Venue, filters SearchFilters) Page {
	f := filters.Normalized()
	matches := Filter(all, f)
	SortForCatalog(matches)
	return Paginate(matches, f.Page, f.PageSize)
}

// Filter keeps listed venues satisfying every constraint present in f.
func Filter(all []*Venue, f SearchFilters) []*Venue {
	needle := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*Venue, 0, len(all))
	for _, v := range all {
		if v == nil || !v.Listed() {
			continue
		}
		if needle != "" && !matchesQuery(v, needle) {
			continue
		}
		if f.Zone != "" && v.Zone != f.Zone {
			continue
		}
		if f.Category != "" && v.Category != f.Category {
			continue
		}
		if f.PriceMin != nil && v.Price < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && v.Price > *f.PriceMax {
			continue
		}
		if f.Capacity != nil && v.Capacity < *f.Capacity {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesQuery(v *Venue, needle string) bool {
	return strings.Contains(strings.ToLower(v.Name), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle) ||
		strings.Contains(strings.ToLower(v.Zone), needle)
}

// SortForCatalog puts featured venues first, then orders by rating.
// Ties keep their insertion order.
func SortForCatalog(vs []*Venue) {
	sort.SliceStable(vs, func(i, j int) bool {
		fi, fj := vs[i].Status == StatusFeatured, vs[j].Status == StatusFeatured
		if fi != fj {
			return fi
		}
		return vs[i].Rating > vs[j].Rating
	})
}

// Paginate slices an ordered result. Pages past the end are empty.
func Paginate(vs []*Venue, page, pageSize int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(vs)
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]*Venue, end-start)
	copy(items, vs[start:end])
	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

// Recommended returns the most favorited listed venues.
func Recommended(all []*Venue, limit int) []*Venue {
	if limit <= 0 {
		limit = DefaultRecommendedLimit
	}
	listed := make([]*Venue, 0, len(all))
	for _, v := range all {
		if v != nil && v.Listed() {
			listed = append(listed, v)
		}
	}
	sort.SliceStable(listed, func(i, j int) bool {
		return listed[i].Favorites > listed[j].Favorites
	})
	if len(listed) > limit {
		listed = listed[:limit]
	}
	return listed
}
