package encryptedfield

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// writeAEADKeyset generates a fresh AEAD keyset and writes it as cleartext
// JSON under dir, returning the file path.
func writeAEADKeyset(t testing.TB, dir string) string {
	t.Helper()
	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)
	return writeCleartext(t, dir, "aead.json", handle)
}

// writeDAEADKeyset is writeAEADKeyset for a deterministic AEAD keyset.
func writeDAEADKeyset(t testing.TB, dir string) string {
	t.Helper()
	handle, err := keyset.NewHandle(daead.AESSIVKeyTemplate())
	require.NoError(t, err)
	return writeCleartext(t, dir, "daead.json", handle)
}

func writeCleartext(t testing.TB, dir, name string, handle *keyset.Handle) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(&buf)))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// newMasterKey returns an in-memory AEAD usable as keyset master key.
func newMasterKey(t *testing.T) tink.AEAD {
	t.Helper()
	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)
	master, err := aead.New(handle)
	require.NoError(t, err)
	return master
}

// writeWrappedKeyset writes an AEAD keyset encrypted under master.
func writeWrappedKeyset(t *testing.T, dir string, master tink.AEAD) string {
	t.Helper()
	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, handle.Write(keyset.NewJSONWriter(&buf), master))
	path := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestResolveKeyset_CleartextAEAD(t *testing.T) {
	path := writeAEADKeyset(t, t.TempDir())

	handle, err := resolveKeyset("default", KeysetConfig{Path: path, Cleartext: true})
	require.NoError(t, err)
	require.Equal(t, KindAEAD, handle.kind)
	require.NotNil(t, handle.aead)
	require.Nil(t, handle.daead)
}

func TestResolveKeyset_CleartextDAEAD(t *testing.T) {
	path := writeDAEADKeyset(t, t.TempDir())

	handle, err := resolveKeyset("searchable", KeysetConfig{Path: path, Cleartext: true})
	require.NoError(t, err)
	require.Equal(t, KindDAEAD, handle.kind)
	require.NotNil(t, handle.daead)
	require.Nil(t, handle.aead)
}

func TestResolveKeyset_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := resolveKeyset("default", KeysetConfig{Path: path, Cleartext: true})
	require.ErrorIs(t, err, ErrKeysetNotFound)
}

func TestResolveKeyset_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not a keyset"), 0o600))

	_, err := resolveKeyset("default", KeysetConfig{Path: path, Cleartext: true})
	require.ErrorIs(t, err, ErrKeysetMalformed)
}

func TestResolveKeyset_Wrapped(t *testing.T) {
	master := newMasterKey(t)
	path := writeWrappedKeyset(t, t.TempDir(), master)

	handle, err := resolveKeyset("default", KeysetConfig{Path: path, MasterKey: master})
	require.NoError(t, err)
	require.Equal(t, KindAEAD, handle.kind)
}

func TestResolveKeyset_WrongMasterKey(t *testing.T) {
	path := writeWrappedKeyset(t, t.TempDir(), newMasterKey(t))

	_, err := resolveKeyset("default", KeysetConfig{Path: path, MasterKey: newMasterKey(t)})
	require.ErrorIs(t, err, ErrKeyUnwrapFailed)
}

func TestResolveKeyset_CleartextFileAsWrapped(t *testing.T) {
	// A cleartext keyset file read in wrapped mode must fail the unwrap,
	// not silently fall back to cleartext parsing.
	path := writeAEADKeyset(t, t.TempDir())

	_, err := resolveKeyset("default", KeysetConfig{Path: path, MasterKey: newMasterKey(t)})
	require.ErrorIs(t, err, ErrKeyUnwrapFailed)
}

func TestKeysetConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     KeysetConfig
		wantErr error
	}{
		{"empty path", KeysetConfig{Cleartext: true}, ErrInvalidKeysetPath},
		{"wrapped without master key", KeysetConfig{Path: "/etc/keys/a.json"}, ErrMissingMasterKey},
		{"cleartext ok", KeysetConfig{Path: "/etc/keys/a.json", Cleartext: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPrimitiveKind_String(t *testing.T) {
	require.Equal(t, "aead", KindAEAD.String())
	require.Equal(t, "daead", KindDAEAD.String())
}
