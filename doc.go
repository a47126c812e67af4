// Package encryptedfield provides transparent field-level encryption for
// records stored through a relational persistence layer. A field is declared
// as encrypted or deterministically encrypted; encryption, decryption, and
// byte encoding happen automatically on every write and read, plaintext never
// touches storage, and key material is resolved once and shared across the
// columns that use it.
//
// # Keysets
//
// Cryptographic keys live in named Tink keysets, loaded from JSON files
// either in cleartext or wrapped by an external key-protection service
// (see the gcpkms subpackage). A Registry maps logical names to keysets and
// resolves each file at most once for its lifetime:
//
//	registry, err := encryptedfield.NewRegistry(
//	    encryptedfield.WithKeyset("default", encryptedfield.KeysetConfig{
//	        Path:      "/etc/keys/aead.json",
//	        Cleartext: true,
//	    }),
//	    encryptedfield.WithKeyset("searchable", encryptedfield.KeysetConfig{
//	        Path:      "/etc/keys/daead.json",
//	        Cleartext: true,
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
// # Column Types
//
// Columns come in two modes. EncryptedColumn uses randomized AEAD: the same
// value encrypts to a different ciphertext every time. DeterministicColumn
// uses deterministic AEAD: the same value always encrypts to the same bytes,
// so the database can compare encrypted columns for equality.
//
//	notes, _ := registry.EncryptedColumn("default",
//	    encryptedfield.WithCodec(encryptedfield.StringCodec),
//	    encryptedfield.WithContext("users", "notes"),
//	)
//
//	stored, _ := notes.Bind("patient prefers email contact")
//	value, _ := notes.Result(stored) // "patient prefers email contact"
//
// For fields that need exact-match search:
//
//	email, _ := registry.DeterministicColumn("searchable",
//	    encryptedfield.WithCodec(encryptedfield.StringCodec),
//	    encryptedfield.WithContext("users", "email"),
//	    encryptedfield.WithNormalizer(encryptedfield.NormalizeEmail),
//	)
//
//	cond, _ := email.SearchCondition("email", "Alice@Example.COM", 1)
//	query := fmt.Sprintf("SELECT * FROM users WHERE %s", cond.SQL)
//	rows, _ := db.Query(query, cond.Args...)
//
// WARNING: determinism leaks equality. Anyone who can read the column can
// tell which rows share a value without decrypting anything. That is the
// price of searchability; keep deterministic columns to the fields that need
// lookup and use EncryptedColumn for everything else.
//
// # Codecs
//
// A codec converts the logical value to canonical bytes before encryption.
// JSONCodec (the default) handles any JSON-serializable value; StringCodec
// and BytesCodec cover plain text and raw bytes. Custom logical types plug in
// through StringFuncCodec or FuncCodec:
//
//	dateCodec := encryptedfield.StringFuncCodec(
//	    func(v any) (string, error) { return v.(time.Time).Format(time.RFC3339), nil },
//	    func(s string) (any, error) { return time.Parse(time.RFC3339, s) },
//	)
//
// The serializer/deserializer pair must be exact inverses for every value the
// column will hold; the codec cannot check this for you.
//
// # Associated Data
//
// Each binding can carry a deterministic associated-data context, typically
// the table and column name, bound into the ciphertext's authentication tag.
// Ciphertext substituted across columns with different contexts fails
// decryption instead of decoding into the wrong field.
//
// # NULL Handling
//
// NULL values are preserved: binding nil (or a nil pointer, or a nil []byte)
// yields a nil storage value, and a nil storage value reads back as nil.
// NULL never reaches the encryption primitive.
//
// # GORM
//
// The gorm.go adapter satisfies GORM's serializer protocol so fields encrypt
// transparently on Create/First:
//
//	encryptedfield.RegisterGORMSerializer("encrypted", notes)
//
//	type User struct {
//	    ID    uint
//	    Notes string `gorm:"serializer:encrypted;type:blob"`
//	}
//
// # Errors
//
// Failures surface as sentinel errors distinguishable with errors.Is:
// keyset resolution (ErrKeysetNotFound, ErrKeysetMalformed,
// ErrKeyUnwrapFailed), configuration (ErrUnknownKeyset,
// ErrKeysetKindMismatch), and data path (ErrDecryptionFailed, ErrCodec).
// The package never logs, never retries, and never falls back to plaintext.
package encryptedfield
