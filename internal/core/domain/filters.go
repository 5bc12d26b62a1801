package domain

const (
	// DefaultListLimit applies when a caller passes a non-positive limit.
	DefaultListLimit = 20
	// MaxListLimit caps a single page.
	MaxListLimit = 100
)

// ListFilters is the closed filter set for certificate listings and counts.
// Nil pointer fields mean "no filter on this column".
type ListFilters struct {
	Status *CDTStatus
	UserID *string
	Limit  int
	Offset int
}

// Normalize returns a copy with limit/offset defaults applied.
func (f ListFilters) Normalize() ListFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// WithoutPagination strips limit/offset so count queries mirror the same
// filters as their listing.
func (f ListFilters) WithoutPagination() ListFilters {
	f.Limit = 0
	f.Offset = 0
	return f
}
