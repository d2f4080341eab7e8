package cryptox

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

var (
	ErrAuthenticationFailed = errors.New("message authentication failed")
	ErrInvalidKeySize       = errors.New("invalid key size")
)

// version byte, timestamp, IV, one AES block and the HMAC
const minTokenSize = 1 + 8 + 16 + 16 + 32

func fernetKey(key []byte) (*fernet.Key, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	k := fernet.Key([KeySize]byte(key))
	return &k, nil
}

// Encrypt seals plaintext into a Fernet token (AES-128-CBC + HMAC-SHA256).
// The first half of key signs, the second half encrypts. The token is URL-safe
// base64 text and can be embedded in JSON as is.
func Encrypt(plaintext, key []byte) (string, error) {
	k, err := fernetKey(key)
	if err != nil {
		return "", err
	}
	tok, err := fernet.EncryptAndSign(plaintext, k)
	if err != nil {
		return "", fmt.Errorf("fernet encrypt: %w", err)
	}
	return string(tok), nil
}

// Decrypt verifies and opens a token produced by Encrypt. Any integrity
// failure, including a wrong key, yields ErrAuthenticationFailed. Token age is
// not checked.
func Decrypt(token string, key []byte) ([]byte, error) {
	k, err := fernetKey(key)
	if err != nil {
		return nil, err
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if msg == nil {
		return nil, ErrAuthenticationFailed
	}
	return msg, nil
}

// EncryptJSON serializes v to JSON and encrypts it with Encrypt.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte(password), []byte(cryptox.BackupContext))
//	token, err := cryptox.EncryptJSON(manifest, key)
//	if err != nil {
//	    return err
//	}
func EncryptJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tok, err := Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}
	return []byte(tok), nil
}

// DecryptJSON decrypts token and unmarshals the JSON payload into v.
// Callers tell a wrong key from a malformed payload with
// errors.Is(err, ErrAuthenticationFailed).
func DecryptJSON(token, key []byte, v any) error {
	plaintext, err := Decrypt(string(token), key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

// IsToken reports whether data is shaped like a Fernet token: URL-safe base64
// of a version 0x80 frame long enough to hold one block and the MAC. It does
// not authenticate anything.
func IsToken(data []byte) bool {
	raw, err := base64.URLEncoding.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return false
	}
	return len(raw) >= minTokenSize && raw[0] == 0x80
}
