package errors

// Constructors for the per-entry link errors. The messages double as the
// one-line diagnostics printed for skipped entries, so each names the entry
// and the offending field.

// FieldHasNoName reports a declared entry at the given 1-based index that is
// not a record or has no usable name.
func FieldHasNoName(index int) *EnvsyncError {
	return Newf(ErrFieldHasNoName, "link #%d has no name, skipping", index).
		WithDetail("index", index)
}

// MissingField reports a named entry lacking a required field.
func MissingField(field, name string) *EnvsyncError {
	return Newf(ErrMissingField, "missing field %q for link %q, skipping", field, name).
		WithDetail("field", field).
		WithDetail("name", name)
}

// InvalidField reports a named entry whose field cannot be decoded as a path.
func InvalidField(err error, field, name string) *EnvsyncError {
	return Wrapf(err, ErrInvalidField, "invalid field %q for link %q, skipping", field, name).
		WithDetail("field", field).
		WithDetail("name", name)
}

// LocationNotFound reports a path of a named entry that cannot be resolved.
func LocationNotFound(field, name, path string) *EnvsyncError {
	return Newf(ErrLocationNotFound, "path not found for field %q of link %q, skipping", field, name).
		WithDetail("field", field).
		WithDetail("name", name).
		WithDetail("path", path)
}
