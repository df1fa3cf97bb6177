package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoBoxRoundTrip(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	plaintext := "FP-TEMPLATE-DATA-0001"

	ciphertext, err := box.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := box.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCryptoBoxRandomNonce(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	// 同一明文两次加密结果不同
	first, err := box.Encrypt("same-template")
	require.NoError(t, err)
	second, err := box.Encrypt("same-template")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCryptoBoxEmptyInput(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	ciphertext, err := box.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", ciphertext)

	plaintext, err := box.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestCryptoBoxDecryptFailClosed(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{
			name:       "非 base64 输入",
			ciphertext: "not base64!!",
		},
		{
			name:       "长度不足以包含 nonce",
			ciphertext: "YWJj",
		},
		{
			name:       "合法 base64 但不是有效密文",
			ciphertext: "YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXowMTIzNDU2Nzg5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := box.Decrypt(tt.ciphertext)
			assert.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}
}

func TestCryptoBoxWrongKey(t *testing.T) {
	box, err := NewCryptoBox("secret-a")
	require.NoError(t, err)
	other, err := NewCryptoBox("secret-b")
	require.NoError(t, err)

	ciphertext, err := box.Encrypt("template")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}
