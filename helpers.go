package encryptedfield

import "sort"

// sortedMapKeys returns map keys sorted alphabetically.
func sortedMapKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BindString encrypts a string value through the binding's pipeline.
// Shared by both column types via embedding.
func (c *column) BindString(s string) (any, error) {
	return c.bind(s, c.context)
}

// ResultString decrypts a storage value to a string.
// Returns empty string and ErrWasNull if dbValue is nil.
func (c *column) ResultString(dbValue any) (string, error) {
	if dbValue == nil {
		return "", ErrWasNull
	}
	v, err := c.result(dbValue, c.context)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	default:
		return "", ErrCodec
	}
}

// BindStringPtr encrypts a string pointer. Returns nil for a nil pointer
// (NULL preservation).
func (c *column) BindStringPtr(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	return c.BindString(*s)
}

// ResultStringPtr decrypts to a string pointer. Returns nil for a nil storage
// value (NULL preservation).
func (c *column) ResultStringPtr(dbValue any) (*string, error) {
	if dbValue == nil {
		return nil, nil
	}
	s, err := c.ResultString(dbValue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Keyset returns the logical keyset name the column is bound to.
func (c *column) Keyset() string {
	return c.keyset
}

// Kind returns the column's primitive kind.
func (c *column) Kind() PrimitiveKind {
	return c.kind
}
