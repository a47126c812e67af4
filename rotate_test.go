package encryptedfield

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/keyset"
)

// TestReEncrypt_AfterKeysetRotation exercises the full rotation flow: a row
// written under the original primary key is migrated through a registry over
// the rotated keyset file, which holds both keys but encrypts with the new one.
func TestReEncrypt_AfterKeysetRotation(t *testing.T) {
	dir := t.TempDir()

	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)
	oldPath := writeCleartext(t, dir, "old.json", handle)

	// Rotate: add a fresh key and promote it to primary.
	manager := keyset.NewManagerFromHandle(handle)
	newKeyID, err := manager.Add(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)
	require.NoError(t, manager.SetPrimary(newKeyID))
	rotated, err := manager.Handle()
	require.NoError(t, err)
	newPath := writeCleartext(t, dir, "rotated.json", rotated)

	oldRegistry, err := NewRegistry(WithKeyset("default", KeysetConfig{Path: oldPath, Cleartext: true}))
	require.NoError(t, err)
	oldCol, err := oldRegistry.EncryptedColumn("default", WithCodec(StringCodec))
	require.NoError(t, err)

	stored, err := oldCol.Bind("rotate me")
	require.NoError(t, err)

	newRegistry, err := NewRegistry(WithKeyset("default", KeysetConfig{Path: newPath, Cleartext: true}))
	require.NoError(t, err)
	newCol, err := newRegistry.EncryptedColumn("default", WithCodec(StringCodec))
	require.NoError(t, err)

	// The rotated keyset still decrypts the old ciphertext.
	value, err := newCol.Result(stored)
	require.NoError(t, err)
	require.Equal(t, "rotate me", value)

	// Migration re-encrypts under the new primary key.
	migrated, err := newCol.ReEncrypt(stored)
	require.NoError(t, err)
	require.NotEqual(t, stored, migrated)

	value, err = newCol.Result(migrated)
	require.NoError(t, err)
	require.Equal(t, "rotate me", value)

	// The old registry, which never saw the new key, cannot read migrated rows.
	_, err = oldCol.Result(migrated)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}
