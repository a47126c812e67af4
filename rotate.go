package encryptedfield

// ReEncrypt decrypts a stored value and encrypts it again under the keyset's
// current primary key. Use this to migrate existing rows after the keyset
// file rotated in a new primary key: old ciphertexts still decrypt (the
// keyset keeps retired keys for reads) but new ciphertexts use the new key.
//
// Note that re-encryption requires a Registry whose keyset file already
// contains the rotated keyset; the registry caches the handle for its
// lifetime, so rotate the file, construct a fresh registry, then migrate.
//
// Returns nil if dbValue is nil (NULL stays NULL).
func (c *EncryptedColumn) ReEncrypt(dbValue any) (any, error) {
	plaintext, wasNull, err := c.open(dbValue, c.context)
	if err != nil {
		return nil, err
	}
	if wasNull {
		return nil, nil
	}

	payload, flag := maybeCompress(plaintext, c.compressionThreshold, c.compressionDisabled)

	handle, err := c.registry.handle(c.keyset, c.kind)
	if err != nil {
		return nil, err
	}
	ciphertext, err := handle.encrypt(framePayload(flag, payload), c.context)
	if err != nil {
		return nil, err
	}
	return encodeStorage(ciphertext, c.text), nil
}
