package domain

import "time"

// Well-known category names.
const (
	CategoryShort   = "short"
	CategoryMedium  = "medium"
	CategoryLong    = "long"
	CategoryEternal = "eternal"
)

// Category is a named runtime bucket.
type Category struct {
	Name  string
	Bound Bound
}

// DefaultCategories returns the built-in bound table. Adjacent tiers overlap on
// purpose. A fresh slice is returned on every call.
func DefaultCategories() []Category {
	return []Category{
		{Name: CategoryShort, Bound: NewBound(0, 100*time.Millisecond)},
		{Name: CategoryMedium, Bound: NewBound(80*time.Millisecond, 500*time.Millisecond)},
		{Name: CategoryLong, Bound: NewBound(400*time.Millisecond, 1500*time.Millisecond)},
		{Name: CategoryEternal, Bound: NewBound(1500*time.Millisecond, Unbounded)},
	}
}

// FindCategory returns the entry named name.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
