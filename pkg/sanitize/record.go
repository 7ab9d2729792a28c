package sanitize

// Record is one sanitized row: the fields of a source line after
// splitting on the separator and normalizing each field.
type Record []string

// Equal reports whether two records have the same fields in the same
// order.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
