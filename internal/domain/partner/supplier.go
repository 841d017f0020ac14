package partner

// Supplier provides items. Items reference suppliers optionally.
type Supplier struct {
	ID      int64
	Name    string
	Contact *string
}
