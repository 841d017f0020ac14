package catalog

// ItemFilter holds optional equality criteria. A nil field imposes no constraint.
type ItemFilter struct {
	CategoryID *int64
	SupplierID *int64
}

// IsEmpty reports whether no criterion is set
func (f ItemFilter) IsEmpty() bool {
	return f.CategoryID == nil && f.SupplierID == nil
}

// Matches reports whether item satisfies every provided criterion
func (f ItemFilter) Matches(item ItemView) bool {
	if f.CategoryID != nil && item.CategoryID != *f.CategoryID {
		return false
	}
	if f.SupplierID != nil {
		if item.SupplierID == nil || *item.SupplierID != *f.SupplierID {
			return false
		}
	}
	return true
}

// Filter returns the items matching all criteria in f, preserving order.
// The input slice is never modified.
func Filter(items []ItemView, f ItemFilter) []ItemView {
	if f.IsEmpty() {
		return items
	}
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
