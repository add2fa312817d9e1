package forum

// Page is a clamped offset-based pagination request
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps the requested page and limit into valid bounds. A page
// below 1 becomes 1; a limit below 1 becomes 1; a limit of 0 (absent)
// becomes defaultLimit; a limit above maxLimit becomes maxLimit.
func NewPage(page, limit, defaultLimit, maxLimit int) Page {
	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = defaultLimit
	case limit < 1:
		limit = 1
	case limit > maxLimit:
		limit = maxLimit
	}
	return Page{Number: page, Limit: limit}
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
