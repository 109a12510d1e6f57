package domain

import (
	"slices"
	"strings"
)

// WardrobeItem is one garment the backend has stored and categorised.
type WardrobeItem struct {
	ID          FlexString `json:"id"`
	Name        string     `json:"name"`
	ImageURL    string     `json:"image_url"`
	Tags        []string   `json:"tags"`
	Category    string     `json:"category"`
	SubCategory string     `json:"sub_category,omitempty"`
	Color       string     `json:"color,omitempty"`
	Style       string     `json:"style,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
}

const (
	AllCategories = "All Categories"
	AllStyles     = "All Styles"
	Uncategorized = "Uncategorized"
)

// Categories lists the category filter values in display order.
var Categories = []string{
	AllCategories,
	"Tops & Kurtas",
	"Bottoms & Shalwar",
	"Dresses & Lehengas",
	"Dupattas & Scarves",
	"Shoes & Sandals",
	"Accessories & Bags",
	"Jewelry",
	"Cultural / Special",
	Uncategorized,
}

// Styles lists the style filter values in display order.
var Styles = []string{
	AllStyles,
	"Ethnic",
	"Western",
	"Fusion",
	"Formal",
	"Casual",
}

// Filter narrows a wardrobe listing. The zero value matches everything.
type Filter struct {
	Search   string
	Category string
	Style    string
}

// DefaultFilter is the filter a fresh gallery starts with.
func DefaultFilter() Filter {
	return Filter{Category: AllCategories, Style: AllStyles}
}

// Matches reports whether item passes every active criterion.
func (f Filter) Matches(item WardrobeItem) bool {
	if search := strings.ToLower(f.Search); search != "" {
		if !strings.Contains(strings.ToLower(item.Name), search) {
			return false
		}
	}
	if f.Category != "" && f.Category != AllCategories && item.Category != f.Category {
		return false
	}
	if f.Style != "" && f.Style != AllStyles && !slices.Contains(item.Tags, strings.ToLower(f.Style)) {
		return false
	}
	return true
}

// Apply returns the items in src that match f, preserving order.
func (f Filter) Apply(src []WardrobeItem) []WardrobeItem {
	out := make([]WardrobeItem, 0, len(src))
	for _, item := range src {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// CategoryGroup is a run of items sharing a category.
type CategoryGroup struct {
	Category string
	Items    []WardrobeItem
}

// GroupByCategory buckets items by category. Known categories come first in
// display order; unknown categories follow in first-seen order and items
// without a category land under Uncategorized.
func GroupByCategory(items []WardrobeItem) []CategoryGroup {
	buckets := make(map[string][]WardrobeItem)
	var extra []string
	for _, item := range items {
		category := item.Category
		if strings.TrimSpace(category) == "" {
			category = Uncategorized
		}
		if _, seen := buckets[category]; !seen && !slices.Contains(Categories, category) {
			extra = append(extra, category)
		}
		buckets[category] = append(buckets[category], item)
	}

	var groups []CategoryGroup
	for _, category := range Categories[1:] {
		if found := buckets[category]; len(found) > 0 && category != Uncategorized {
			groups = append(groups, CategoryGroup{Category: category, Items: found})
		}
	}
	for _, category := range extra {
		groups = append(groups, CategoryGroup{Category: category, Items: buckets[category]})
	}
	if found := buckets[Uncategorized]; len(found) > 0 {
		groups = append(groups, CategoryGroup{Category: Uncategorized, Items: found})
	}
	return groups
}

// Cycle returns the value after current in values, wrapping around.
func Cycle(values []string, current string, step int) string {
	if len(values) == 0 {
		return current
	}
	idx := slices.Index(values, current)
	if idx < 0 {
		return values[0]
	}
	n := len(values)
	return values[((idx+step)%n+n)%n]
}

// OutfitRecommendation is one suggested look assembled by the backend.
type OutfitRecommendation struct {
	Name        string         `json:"name"`
	Occasion    string         `json:"occasion,omitempty"`
	Description string         `json:"description,omitempty"`
	ItemIDs     []FlexString   `json:"item_ids,omitempty"`
	Items       []WardrobeItem `json:"items,omitempty"`
}

// Garments resolves the outfit's items, looking ids up in byID when the
// backend only returned ids. Unknown ids are skipped.
func (r OutfitRecommendation) Garments(byID map[string]WardrobeItem) []WardrobeItem {
	if len(r.Items) > 0 {
		return r.Items
	}
	items := make([]WardrobeItem, 0, len(r.ItemIDs))
	for _, id := range r.ItemIDs {
		if item, ok := byID[id.String()]; ok {
			items = append(items, item)
		}
	}
	return items
}

// IndexByID maps each item's id to the item.
func IndexByID(items []WardrobeItem) map[string]WardrobeItem {
	byID := make(map[string]WardrobeItem, len(items))
	for _, item := range items {
		byID[item.ID.String()] = item
	}
	return byID
}
