package encryptedfield

import "strings"

// ColumnOption is a functional option for configuring a column binding.
type ColumnOption func(*column)

// WithCodec sets the codec converting logical values to canonical bytes.
// The default is JSONCodec, which handles any JSON-serializable value;
// use StringCodec or BytesCodec for plain string/byte columns, or a custom
// codec built with FuncCodec/StringFuncCodec.
func WithCodec(codec Codec) ColumnOption {
	return func(c *column) {
		c.codec = codec
	}
}

// WithContext sets the binding's associated-data context, which is bound into
// the authentication tag of every ciphertext the column produces. Ciphertext
// moved to a column with a different context fails decryption, so pass the
// parts that identify the column, typically table and column name:
//
//	WithContext("users", "email")
//
// The context must be identical at encrypt and decrypt time. The default is
// an empty context; prefer setting one for every column.
func WithContext(parts ...string) ColumnOption {
	return func(c *column) {
		c.context = []byte(strings.Join(parts, "."))
	}
}

// WithTextStorage stores ciphertext as standard base64 text instead of raw
// bytes, for columns declared with a text type.
func WithTextStorage() ColumnOption {
	return func(c *column) {
		c.text = true
	}
}

// WithNormalizer canonicalizes string values through the given Normalizer
// before encoding, so deterministic equality search is case- or
// format-insensitive. The stored value IS the canonical form: reads return
// the normalized string, not the original input.
//
// Only meaningful on deterministic columns; randomized columns apply it
// too but gain nothing from it.
func WithNormalizer(norm Normalizer) ColumnOption {
	return func(c *column) {
		c.normalize = norm
	}
}

// WithCompressionThreshold sets the minimum canonical-byte size before
// compression is attempted. Default is 1024 (1KB). Only randomized columns
// compress; deterministic columns never do.
func WithCompressionThreshold(bytes int) ColumnOption {
	return func(c *column) {
		c.compressionThreshold = bytes
	}
}

// WithCompressionDisabled disables compression entirely.
// Use this for data that is already compressed or won't benefit.
func WithCompressionDisabled() ColumnOption {
	return func(c *column) {
		c.compressionDisabled = true
	}
}

// WithEmptyStringAsNull treats empty string values as NULL.
// By default, empty strings are encrypted like any other value.
func WithEmptyStringAsNull() ColumnOption {
	return func(c *column) {
		c.emptyStringAsNull = true
	}
}
