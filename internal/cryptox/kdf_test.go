package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	key1 := DeriveKey([]byte("Sup3r$ecret!"), []byte("bob"))
	key2 := DeriveKey([]byte("Sup3r$ecret!"), []byte("bob"))

	require.Len(t, key1, KeySize)
	require.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")

	// SHA256("Sup3r$ecret!_bob_ClaudePA_2024")
	assert.Equal(t, "7de140a22b2dbed6b122f738dba558cc45c82d143a976ca3431e76dffe99b810", hex.EncodeToString(key1))
}

func TestDeriveKey_BackupContext(t *testing.T) {
	// SHA256("M@sterKey1_backup_ClaudePA_2024")
	key := DeriveKey([]byte("M@sterKey1"), []byte(BackupContext))
	assert.Equal(t, "4b9b7f4cec6bab791cba8c6d2b05a8906cf001c8da67a0a28871ba9335b4acef", hex.EncodeToString(key))
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	base := DeriveKey([]byte("pw"), []byte("alice"))

	assert.NotEqual(t, base, DeriveKey([]byte("pw"), []byte("bob")))
	assert.NotEqual(t, base, DeriveKey([]byte("pw2"), []byte("alice")))
	assert.NotEqual(t, base, DeriveKey([]byte("pw"), []byte(BackupContext)))
}

func TestDeriveLegacyKey_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		salt []byte
		want string
	}{
		{"default salt", []byte("ClaudePA_default_salt_2024"), "616c3c214d1f52bd40e7d01ddcd74819c771db49f23c0006e443881b5f4fc48f"},
		{"empty salt", []byte{}, "f01edd41b7a69f15925e11e193f2ee167177ef3ca0eaedeec2c4be9e39c576ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := DeriveLegacyKey([]byte("legacy-pass"), tt.salt)
			require.Len(t, key, KeySize)
			assert.Equal(t, tt.want, hex.EncodeToString(key))
		})
	}
}

func TestLegacyCandidates_Order(t *testing.T) {
	c := LegacyCandidates("bob")
	require.Len(t, c, 5)

	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}
	assert.Equal(t, []string{"default", "empty", "app", "generic", "username"}, names)
	assert.Equal(t, []byte("ClaudePA_default_salt_2024"), c[0].Salt)
	assert.Empty(t, c[1].Salt)
	assert.Equal(t, []byte("bob"), c[4].Salt)
}

func TestHashPassword(t *testing.T) {
	h := HashPassword([]byte("Sup3r$ecret!"))
	assert.Equal(t, "4baefed653d18dc732495ce0118c0a0b89a09d95e4050989270d4b6c2c20c3fe", h)

	assert.True(t, VerifyPassword([]byte("Sup3r$ecret!"), h))
	assert.True(t, VerifyPassword([]byte("Sup3r$ecret!"), "4BAEFED653D18DC732495CE0118C0A0B89A09D95E4050989270D4B6C2C20C3FE"))
	assert.False(t, VerifyPassword([]byte("wrong"), h))
	assert.False(t, VerifyPassword([]byte("Sup3r$ecret!"), ""))
}
