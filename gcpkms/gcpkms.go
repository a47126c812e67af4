// Package gcpkms adapts a Google Cloud KMS CryptoKey into the master-key
// AEAD that unwraps encrypted keysets.
//
// Usage:
//
//	client, err := kms.NewKeyManagementClient(ctx)
//	master, err := gcpkms.NewMasterKey(ctx, client,
//	    "projects/p/locations/l/keyRings/r/cryptoKeys/k")
//
//	registry, err := encryptedfield.NewRegistry(
//	    encryptedfield.WithKeyset("default", encryptedfield.KeysetConfig{
//	        Path:      "/etc/keys/wrapped-aead.json",
//	        MasterKey: master,
//	    }),
//	)
//
// The keyset file itself never contains cleartext key material; it is
// unwrapped through the CryptoKeys Decrypt RPC on first use and the resolved
// handle is cached by the registry.
package gcpkms

import (
	"context"
	"errors"
	"strings"

	kmspb "cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// Client is the subset of the Cloud KMS API used by this package.
// *kms.KeyManagementClient satisfies it.
type Client interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

// ErrInvalidKeyName indicates the CryptoKey resource name is malformed.
var ErrInvalidKeyName = errors.New("gcpkms: key name must look like projects/*/locations/*/keyRings/*/cryptoKeys/*")

// NewMasterKey returns an AEAD backed by the named Cloud KMS CryptoKey.
// The context is captured for all subsequent RPCs; scope it to the life of
// the registry that holds the master key.
func NewMasterKey(ctx context.Context, client Client, keyName string) (tink.AEAD, error) {
	if !strings.HasPrefix(keyName, "projects/") || !strings.Contains(keyName, "/cryptoKeys/") {
		return nil, ErrInvalidKeyName
	}
	return &masterKey{ctx: ctx, client: client, keyName: keyName}, nil
}

type masterKey struct {
	ctx     context.Context
	client  Client
	keyName string
}

// Encrypt wraps plaintext with the CryptoKey. Associated data is carried as
// KMS additional authenticated data.
func (k *masterKey) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	resp, err := k.client.Encrypt(k.ctx, &kmspb.EncryptRequest{
		Name:                        k.keyName,
		Plaintext:                   plaintext,
		AdditionalAuthenticatedData: associatedData,
	})
	if err != nil {
		return nil, err
	}
	return resp.Ciphertext, nil
}

// Decrypt unwraps ciphertext with the CryptoKey.
func (k *masterKey) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	resp, err := k.client.Decrypt(k.ctx, &kmspb.DecryptRequest{
		Name:                        k.keyName,
		Ciphertext:                  ciphertext,
		AdditionalAuthenticatedData: associatedData,
	})
	if err != nil {
		return nil, err
	}
	return resp.Plaintext, nil
}
