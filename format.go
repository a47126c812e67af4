package encryptedfield

import "encoding/base64"

// Payload format (the bytes handed to the encryption primitive):
//
//	[flag:1][canonical value bytes, possibly compressed]
//
// Flag byte values:
//
//	0x00 = no compression
//	0x01 = zstd compressed
//
// The flag lives inside the plaintext so it is covered by the authentication
// tag; a flipped flag fails decryption instead of steering decompression.
// The storage value is therefore exactly the provider's ciphertext, treated
// as opaque bytes.
//
// Deterministic columns always write flag 0x00: compression output is not
// guaranteed stable across library versions, and equal plaintexts must stay
// byte-identical across processes.

const (
	flagNoCompression byte = 0x00
	flagZstd          byte = 0x01
)

// framePayload prepends the compression flag to the payload.
func framePayload(flag byte, payload []byte) []byte {
	framed := make([]byte, 0, 1+len(payload))
	framed = append(framed, flag)
	framed = append(framed, payload...)
	return framed
}

// parsePayload splits the decrypted payload into flag and data.
func parsePayload(framed []byte) (flag byte, payload []byte, err error) {
	if len(framed) < 1 {
		return 0, nil, ErrInvalidFormat
	}
	return framed[0], framed[1:], nil
}

// encodeStorage converts provider ciphertext into the storage representation:
// raw bytes for binary columns, standard base64 text for text columns.
func encodeStorage(ciphertext []byte, text bool) any {
	if text {
		return base64.StdEncoding.EncodeToString(ciphertext)
	}
	return ciphertext
}

// decodeStorage converts a storage value read from the database back into
// provider ciphertext. Drivers hand back []byte or string depending on the
// column's declared type; both are accepted for either storage mode.
func decodeStorage(dbValue any, text bool) ([]byte, error) {
	switch v := dbValue.(type) {
	case []byte:
		if text {
			return base64decode(string(v))
		}
		return v, nil
	case string:
		if text {
			return base64decode(v)
		}
		return []byte(v), nil
	default:
		return nil, ErrInvalidFormat
	}
}

func base64decode(s string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	return ciphertext, nil
}
