package encryptedfield

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// PrimitiveKind identifies which encryption primitive a keyset supports.
type PrimitiveKind int

const (
	// KindAEAD is randomized authenticated encryption. Encrypting the same
	// plaintext twice produces different ciphertexts.
	KindAEAD PrimitiveKind = iota

	// KindDAEAD is deterministic authenticated encryption. Encrypting the
	// same plaintext twice produces identical ciphertexts, enabling equality
	// search on the stored column.
	KindDAEAD
)

// String returns the kind's name.
func (k PrimitiveKind) String() string {
	switch k {
	case KindAEAD:
		return "aead"
	case KindDAEAD:
		return "daead"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// KeysetConfig describes where a keyset lives and how to read it.
//
// When Cleartext is true, Path points at a plaintext Tink JSON keyset.
// When Cleartext is false, Path points at a keyset wrapped by an external
// key-protection service and MasterKey must be set to the AEAD that unwraps
// it (see the gcpkms subpackage for a Cloud KMS master key).
type KeysetConfig struct {
	// Path is the filesystem location of the keyset JSON file.
	Path string

	// Cleartext selects plaintext keyset parsing. Only use for development
	// or when the file is protected by other means (e.g. mounted secrets).
	Cleartext bool

	// MasterKey unwraps the keyset when Cleartext is false.
	MasterKey tink.AEAD
}

// validate checks the config at registry construction time, before any file I/O.
func (c KeysetConfig) validate() error {
	if c.Path == "" {
		return ErrInvalidKeysetPath
	}
	if !c.Cleartext && c.MasterKey == nil {
		return ErrMissingMasterKey
	}
	return nil
}

// keyHandle is the resolved, ready-to-use form of one keyset. Exactly one of
// aead/daead is set, according to kind. It is immutable after resolution and
// never exposed to callers directly.
type keyHandle struct {
	kind  PrimitiveKind
	aead  tink.AEAD
	daead tink.DeterministicAEAD
}

// resolveKeyset reads and parses a keyset file into a keyHandle.
// Pure loader: no caching, file I/O only. Caching is the registry's job.
func resolveKeyset(name string, cfg KeysetConfig) (*keyHandle, error) {
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: keyset %q at %s", ErrKeysetNotFound, name, cfg.Path)
	}

	var handle *keyset.Handle
	if cfg.Cleartext {
		handle, err = insecurecleartextkeyset.Read(keyset.NewJSONReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: keyset %q: %v", ErrKeysetMalformed, name, err)
		}
	} else {
		handle, err = keyset.Read(keyset.NewJSONReader(bytes.NewReader(data)), cfg.MasterKey)
		if err != nil {
			return nil, fmt.Errorf("%w: keyset %q: %v", ErrKeyUnwrapFailed, name, err)
		}
	}

	return primitiveFromHandle(name, handle)
}

// primitiveFromHandle detects the primitive kind the handle supports.
// A handle whose primary key is neither AEAD nor DAEAD is malformed for our
// purposes; there is no fallback between kinds.
func primitiveFromHandle(name string, handle *keyset.Handle) (*keyHandle, error) {
	if a, err := aead.New(handle); err == nil {
		return &keyHandle{kind: KindAEAD, aead: a}, nil
	}
	if d, err := daead.New(handle); err == nil {
		return &keyHandle{kind: KindDAEAD, daead: d}, nil
	}
	return nil, fmt.Errorf("%w: keyset %q supports neither aead nor daead", ErrKeysetMalformed, name)
}

// encrypt runs the handle's primitive over the payload with the binding's
// associated data.
func (h *keyHandle) encrypt(plaintext, associatedData []byte) ([]byte, error) {
	switch h.kind {
	case KindAEAD:
		return h.aead.Encrypt(plaintext, associatedData)
	case KindDAEAD:
		return h.daead.EncryptDeterministically(plaintext, associatedData)
	default:
		return nil, ErrKeysetKindMismatch
	}
}

// decrypt is the inverse of encrypt. Any provider failure is reported as
// ErrDecryptionFailed without detail; the underlying error is not propagated
// to avoid acting as a padding/validity oracle.
func (h *keyHandle) decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	var plaintext []byte
	var err error
	switch h.kind {
	case KindAEAD:
		plaintext, err = h.aead.Decrypt(ciphertext, associatedData)
	case KindDAEAD:
		plaintext, err = h.daead.DecryptDeterministically(ciphertext, associatedData)
	default:
		return nil, ErrKeysetKindMismatch
	}
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
