package catalog

// Category groups items. Every item references exactly one category.
type Category struct {
	ID   int64
	Name string
}
