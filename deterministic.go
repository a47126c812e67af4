package encryptedfield

// DeterministicColumn is the deterministic-AEAD column type. Binding the same
// logical value under the same keyset and binding always produces
// byte-identical storage values, across calls and across processes sharing
// the keyset. That stability is what makes equality search on the stored
// column possible.
//
// Security tradeoff: determinism leaks equality. Anyone who can read the
// ciphertext column can tell which rows hold the same plaintext, even without
// the key. Accept this only for fields that need exact-match lookup; use
// EncryptedColumn everywhere else.
type DeterministicColumn struct {
	*column
}

// NewDeterministicColumn declares a deterministic encrypted column from an
// inline keyset config, without an explicit registry.
func NewDeterministicColumn(cfg KeysetConfig, opts ...ColumnOption) (*DeterministicColumn, error) {
	r, err := NewRegistry(WithKeyset(defaultKeysetName, cfg))
	if err != nil {
		return nil, err
	}
	return r.DeterministicColumn(defaultKeysetName, opts...)
}

// Bind implements ColumnType.
func (c *DeterministicColumn) Bind(value any) (any, error) {
	return c.bind(value, c.context)
}

// Result implements ColumnType.
func (c *DeterministicColumn) Result(dbValue any) (any, error) {
	return c.result(dbValue, c.context)
}
