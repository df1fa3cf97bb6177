package fingerprint

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

var ErrMalformedCiphertext = errors.New("密文格式错误")

// CryptoBox 用 AES-256-GCM 加解密指纹模板。
// 密钥由配置的加密密钥经过 sha256 派生，密文为 base64url(nonce || ciphertext)。
type CryptoBox struct {
	aead cipher.AEAD
}

func NewCryptoBox(secret string) (*CryptoBox, error) {
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &CryptoBox{aead: aead}, nil
}

// Encrypt 加密明文。空输入原样返回。
func (cb *CryptoBox) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, cb.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := cb.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密密文。空输入原样返回；格式错误或非本密钥
// 加密的数据返回 ErrMalformedCiphertext，不会 panic。
func (cb *CryptoBox) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	if len(raw) < cb.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}

	nonce, sealed := raw[:cb.aead.NonceSize()], raw[cb.aead.NonceSize():]
	plaintext, err := cb.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	return string(plaintext), nil
}
