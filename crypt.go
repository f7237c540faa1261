package stego

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters.
const (
	saltLen = 16
	keyLen  = 32 // AES-256

	// pbkdf2Iterations follows the OWASP floor for PBKDF2-HMAC-SHA256.
	pbkdf2Iterations = 100_000
)

// Argon2Params configures the Argon2id key derivation.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
}

// DefaultArgon2Params returns recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
	}
}

// pbkdf2Cipher derives an AES-256 key with PBKDF2-HMAC-SHA256 and
// seals the plaintext with AES-GCM. Wire layout: salt || nonce ||
// sealed ciphertext. The salt is random per message, so equal
// plaintexts produce unrelated ciphertexts.
type pbkdf2Cipher struct {
	iterations int
}

// PBKDF2 returns the default password cipher: PBKDF2-HMAC-SHA256 key
// derivation with AES-256-GCM encryption. GCM authentication is what
// turns a wrong password into ErrAuthentication instead of garbage
// plaintext.
func PBKDF2() Cipher {
	return &pbkdf2Cipher{iterations: pbkdf2Iterations}
}

func (c *pbkdf2Cipher) Encrypt(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	key := pbkdf2.Key([]byte(password), salt, c.iterations, keyLen, sha256.New)
	return sealWithKey(key, salt, plaintext)
}

func (c *pbkdf2Cipher) Decrypt(ciphertext []byte, password string) ([]byte, error) {
	return openWithKDF(ciphertext, func(salt []byte) []byte {
		return pbkdf2.Key([]byte(password), salt, c.iterations, keyLen, sha256.New)
	})
}

// argon2Cipher is the pbkdf2Cipher with Argon2id key derivation.
type argon2Cipher struct {
	params Argon2Params
}

// Argon2 returns a password cipher using Argon2id key derivation with
// AES-256-GCM encryption.
func Argon2() Cipher {
	return Argon2WithParams(DefaultArgon2Params())
}

// Argon2WithParams returns an Argon2id cipher with custom parameters.
func Argon2WithParams(params Argon2Params) Cipher {
	return &argon2Cipher{params: params}
}

func (c *argon2Cipher) Encrypt(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(password), salt, c.params.Time, c.params.Memory, c.params.Threads, keyLen)
	return sealWithKey(key, salt, plaintext)
}

func (c *argon2Cipher) Decrypt(ciphertext []byte, password string) ([]byte, error) {
	return openWithKDF(ciphertext, func(salt []byte) []byte {
		return argon2.IDKey([]byte(password), salt, c.params.Time, c.params.Memory, c.params.Threads, keyLen)
	})
}

// sealWithKey seals plaintext with AES-GCM under key, prepending salt
// and nonce.
func sealWithKey(key, salt, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// openWithKDF splits salt and nonce off ciphertext, derives the key
// via kdf, and opens the sealed payload. Any structural shortfall or
// GCM failure maps to ErrAuthentication: from the caller's point of
// view both mean "wrong password or corrupted ciphertext".
func openWithKDF(ciphertext []byte, kdf func(salt []byte) []byte) ([]byte, error) {
	if len(ciphertext) < saltLen {
		return nil, fmt.Errorf("%w: ciphertext shorter than salt", ErrAuthentication)
	}
	salt, rest := ciphertext[:saltLen], ciphertext[saltLen:]

	gcm, err := newGCM(kdf(salt))
	if err != nil {
		return nil, err
	}

	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext shorter than nonce", ErrAuthentication)
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
