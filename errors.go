package encryptedfield

import "errors"

var (
	// ErrKeysetNotFound indicates the keyset file could not be read.
	ErrKeysetNotFound = errors.New("encryptedfield: keyset file not found or unreadable")

	// ErrKeysetMalformed indicates the keyset content parses to neither an
	// AEAD nor a deterministic AEAD keyset.
	ErrKeysetMalformed = errors.New("encryptedfield: keyset is malformed")

	// ErrKeyUnwrapFailed indicates an encrypted keyset could not be unwrapped
	// with the configured master key.
	ErrKeyUnwrapFailed = errors.New("encryptedfield: keyset unwrap failed")

	// ErrKeysetKindMismatch indicates a column requested a primitive kind the
	// resolved keyset does not support (e.g. a deterministic column bound to
	// an AEAD keyset).
	ErrKeysetKindMismatch = errors.New("encryptedfield: keyset primitive kind mismatch")

	// ErrUnknownKeyset indicates a column references a keyset name that was
	// never registered.
	ErrUnknownKeyset = errors.New("encryptedfield: unknown keyset name")

	// ErrDecryptionFailed indicates ciphertext failed authentication or could
	// not be parsed (corruption, tampering, or wrong key).
	ErrDecryptionFailed = errors.New("encryptedfield: decryption failed")

	// ErrCodec indicates a value could not be encoded or decoded by the
	// column's codec (wrong logical type or a failing custom codec).
	ErrCodec = errors.New("encryptedfield: codec failed")

	// ErrInvalidFormat indicates the storage representation is malformed.
	ErrInvalidFormat = errors.New("encryptedfield: invalid storage format")

	// ErrDecompressionFailed indicates zstd decompression of the decrypted
	// payload failed.
	ErrDecompressionFailed = errors.New("encryptedfield: decompression failed")

	// ErrNoKeysets indicates no keysets were provided to the registry.
	ErrNoKeysets = errors.New("encryptedfield: no keysets configured")

	// ErrDuplicateKeyset indicates the same keyset name was registered twice.
	ErrDuplicateKeyset = errors.New("encryptedfield: duplicate keyset name")

	// ErrInvalidKeysetName indicates an empty keyset name.
	ErrInvalidKeysetName = errors.New("encryptedfield: keyset name must not be empty")

	// ErrInvalidKeysetPath indicates an empty keyset path.
	ErrInvalidKeysetPath = errors.New("encryptedfield: keyset path must not be empty")

	// ErrMissingMasterKey indicates an encrypted keyset was configured
	// without a master key to unwrap it.
	ErrMissingMasterKey = errors.New("encryptedfield: encrypted keysets require a master key")

	// ErrRegistryClosed indicates the registry was used after Close() was called.
	ErrRegistryClosed = errors.New("encryptedfield: registry is closed")

	// ErrWasNull indicates the storage value was nil (database NULL).
	// Returned by ResultString when input is nil; value will be "".
	ErrWasNull = errors.New("encryptedfield: value was null")
)
