// Package cryptox holds the key derivation and field encryption primitives
// shared by the vault and backup packages.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the length of every derived key in bytes.
	KeySize = 32

	// AppSalt namespaces Strategy A hashes. It is not secret.
	AppSalt = "ClaudePA_2024"

	// BackupContext is the Strategy A context used for backup containers so
	// that backup keys never collide with vault keys for the same password.
	BackupContext = "backup"

	// LegacyIterations is the PBKDF2 iteration count of the legacy format.
	LegacyIterations = 100_000
)

// DeriveKey is the current key derivation (Strategy A):
//
//	SHA256(password || "_" || context || "_" || AppSalt)
//
// Vault keys use the normalized username as context, backup keys use
// BackupContext. The scheme is kept bit-for-bit for compatibility with
// existing vaults and backups.
func DeriveKey(password, context []byte) []byte {
	h := sha256.New()
	h.Write(password)
	h.Write([]byte("_"))
	h.Write(context)
	h.Write([]byte("_"))
	h.Write([]byte(AppSalt))
	return h.Sum(nil)
}

// DeriveLegacyKey is the legacy key derivation (Strategy B):
// PBKDF2-HMAC-SHA256 with LegacyIterations rounds.
func DeriveLegacyKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, LegacyIterations, KeySize, sha256.New)
}

// LegacyCandidate is one row of the legacy migration table.
type LegacyCandidate struct {
	Name string
	Salt []byte
}

// LegacyCandidates returns the Strategy B salts tried, in order, when opening
// a legacy whole-file encrypted record.
func LegacyCandidates(username string) []LegacyCandidate {
	return []LegacyCandidate{
		{Name: "default", Salt: []byte("ClaudePA_default_salt_2024")},
		{Name: "empty", Salt: []byte{}},
		{Name: "app", Salt: []byte("ClaudePA_salt")},
		{Name: "generic", Salt: []byte("default_salt")},
		{Name: "username", Salt: []byte(username)},
	}
}

// HashPassword returns the hex encoded SHA-256 of password. It is the
// authentication verifier stored in record files, not an encryption key.
func HashPassword(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares the hash of password with hash in constant time.
func VerifyPassword(password []byte, hash string) bool {
	candidate := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(strings.ToLower(hash))) == 1
}
