package domain

// Section is an admin-curated product strip on the home page. ProductIDs is
// ordered; the public read resolves ids to live products in this order and
// skips ids that no longer exist.
type Section struct {
	ID         string
	Title      string
	ProductIDs []string
	Position   int
}
