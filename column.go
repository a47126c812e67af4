package encryptedfield

import (
	"fmt"
	"reflect"
)

// ColumnType is the pair of hook points a host persistence layer invokes for
// one encrypted column: Bind on write (logical value to storage value) and
// Result on read (storage value to logical value). Both implementations in
// this package are safe for concurrent use.
type ColumnType interface {
	// Bind converts a logical value into its storage representation.
	// A nil value binds to nil (database NULL) without touching the
	// keyset or the encryption primitive.
	Bind(value any) (any, error)

	// Result converts a storage value back into the logical value.
	// A nil storage value yields nil. Failed authentication, corrupted
	// ciphertext, or a wrong key yield ErrDecryptionFailed, never partial
	// plaintext.
	Result(dbValue any) (any, error)
}

// column is the shared implementation behind EncryptedColumn and
// DeterministicColumn: one binding of {keyset name, primitive kind, codec,
// associated-data context} to a persisted column.
type column struct {
	registry *Registry
	keyset   string
	kind     PrimitiveKind
	codec    Codec
	context  []byte // associated data, deterministic per binding
	text     bool   // base64 text storage instead of raw bytes

	normalize            Normalizer // deterministic columns only
	compressionThreshold int
	compressionDisabled  bool
	emptyStringAsNull    bool
}

func newColumn(r *Registry, keysetName string, kind PrimitiveKind, opts []ColumnOption) (*column, error) {
	c := &column{
		registry:             r,
		keyset:               keysetName,
		kind:                 kind,
		codec:                JSONCodec,
		compressionThreshold: defaultCompressionThreshold,
	}
	// Deterministic ciphertexts must stay byte-identical across processes;
	// compression output is not guaranteed stable across library versions.
	if kind == KindDAEAD {
		c.compressionDisabled = true
	}
	for _, opt := range opts {
		opt(c)
	}
	if kind == KindDAEAD {
		c.compressionDisabled = true
	}
	return c, nil
}

// bind implements the write hook with an explicit associated-data context.
func (c *column) bind(value any, associatedData []byte) (any, error) {
	value = indirect(value)
	if isNull(value) {
		return nil, nil
	}
	if c.emptyStringAsNull {
		if s, ok := value.(string); ok && s == "" {
			return nil, nil
		}
	}
	if c.normalize != nil {
		if s, ok := value.(string); ok {
			value = c.normalize(s)
		}
	}

	plaintext, err := c.codec.Encode(value)
	if err != nil {
		return nil, err
	}

	payload, flag := maybeCompress(plaintext, c.compressionThreshold, c.compressionDisabled)

	handle, err := c.registry.handle(c.keyset, c.kind)
	if err != nil {
		return nil, err
	}

	ciphertext, err := handle.encrypt(framePayload(flag, payload), associatedData)
	if err != nil {
		return nil, err
	}
	return encodeStorage(ciphertext, c.text), nil
}

// result implements the read hook with an explicit associated-data context.
func (c *column) result(dbValue any, associatedData []byte) (any, error) {
	plaintext, wasNull, err := c.open(dbValue, associatedData)
	if err != nil {
		return nil, err
	}
	if wasNull {
		return nil, nil
	}
	return c.codec.Decode(plaintext)
}

// open decrypts a storage value down to the canonical value bytes, without
// running the codec. Used by result and by the GORM adapter, which decodes
// straight into the destination field.
func (c *column) open(dbValue any, associatedData []byte) (plaintext []byte, wasNull bool, err error) {
	if dbValue == nil {
		return nil, true, nil
	}
	if b, ok := dbValue.([]byte); ok && b == nil {
		return nil, true, nil
	}

	ciphertext, err := decodeStorage(dbValue, c.text)
	if err != nil {
		// A storage value that no longer parses is corruption or tampering,
		// the same failure class as a bad authentication tag. Both sentinels
		// match so callers checking either see it.
		return nil, false, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	handle, err := c.registry.handle(c.keyset, c.kind)
	if err != nil {
		return nil, false, err
	}

	framed, err := handle.decrypt(ciphertext, associatedData)
	if err != nil {
		return nil, false, err
	}

	flag, payload, err := parsePayload(framed)
	if err != nil {
		return nil, false, err
	}
	plaintext, err = decompress(payload, flag)
	if err != nil {
		return nil, false, err
	}
	return plaintext, false, nil
}

// isNull reports whether a logical value represents absence. A nil []byte is
// NULL; an empty non-nil []byte or empty string is a value and gets encrypted.
func isNull(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

// indirect dereferences pointer values so codecs see the pointed-to value.
// Nil pointers pass through and are handled as NULL.
func indirect(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// EncryptedColumn is the randomized-AEAD column type. Each Bind of the same
// logical value produces a different storage value (fresh nonce per call)
// while all of them decrypt back to the original.
type EncryptedColumn struct {
	*column
}

// NewEncryptedColumn declares a randomized encrypted column from an inline
// keyset config, without an explicit registry. For multi-keyset applications
// prefer NewRegistry and (*Registry).EncryptedColumn so keysets resolve once
// per process.
func NewEncryptedColumn(cfg KeysetConfig, opts ...ColumnOption) (*EncryptedColumn, error) {
	r, err := NewRegistry(WithKeyset(defaultKeysetName, cfg))
	if err != nil {
		return nil, err
	}
	return r.EncryptedColumn(defaultKeysetName, opts...)
}

// defaultKeysetName is the name under which standalone columns register
// their inline keyset.
const defaultKeysetName = "default"

// Bind implements ColumnType.
func (c *EncryptedColumn) Bind(value any) (any, error) {
	return c.bind(value, c.context)
}

// Result implements ColumnType.
func (c *EncryptedColumn) Result(dbValue any) (any, error) {
	return c.result(dbValue, c.context)
}
