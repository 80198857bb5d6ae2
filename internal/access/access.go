package access

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// ErrAuthentication marks a decryption whose ciphertext or tag did not
// verify: wrong password, wrong salt/iterations, or tampered data.
var ErrAuthentication = errors.New("authentication failure")

const keySize = 32 // AES-256

// Encrypted is one access token: the hex-encoded nonce and ciphertext of a
// canonical video name.
type Encrypted struct {
	IV         string
	Ciphertext string
}

// DeriveKey stretches a password into an AES-256 key using
// PBKDF2-HMAC-SHA256. The iteration count is a cost parameter supplied by
// the caller; tokens derived with one count cannot be opened with another.
func DeriveKey(password, salt string, iterations int) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keySize, sha256.New)
}

// Encrypt seals plaintext under a password-derived key with AES-GCM and a
// fresh random 96-bit nonce. Two calls with identical inputs never produce
// the same token.
func Encrypt(password, salt string, iterations int, plaintext string) (Encrypted, error) {
	aead, err := newAEAD(password, salt, iterations)
	if err != nil {
		return Encrypted{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return Encrypted{}, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return Encrypted{
		IV:         hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(sealed),
	}, nil
}

// Decrypt is the exact inverse of Encrypt. It fails with ErrAuthentication
// when the token does not verify under the derived key.
func Decrypt(password, salt string, iterations int, encrypted Encrypted) (string, error) {
	aead, err := newAEAD(password, salt, iterations)
	if err != nil {
		return "", err
	}

	nonce, err := hex.DecodeString(encrypted.IV)
	if err != nil {
		return "", fmt.Errorf("decode iv: %w", err)
	}
	if len(nonce) != aead.NonceSize() {
		return "", fmt.Errorf("invalid iv length %d", len(nonce))
	}
	sealed, err := hex.DecodeString(encrypted.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrAuthentication
	}
	return string(plaintext), nil
}

func newAEAD(password, salt string, iterations int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(password, salt, iterations))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return aead, nil
}
