package envelope

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// Argon2id cost parameters, matching libsodium's moderate limits.
const (
	argonTime    = 3
	argonMemory  = 256 * 1024 // KiB
	argonThreads = 1
)

// KeySize is the derived symmetric key length in bytes.
const KeySize = 32

// Crypto is the primitive capability the codec depends on. Tests substitute
// deterministic implementations to validate framing independently of
// cryptographic strength.
type Crypto interface {
	// DeriveKey stretches a passphrase and salt into a symmetric key.
	DeriveKey(passphrase, salt []byte) [KeySize]byte

	// Seal encrypts and authenticates plaintext, returning the ciphertext
	// with its tag included.
	Seal(plaintext []byte, nonce [NonceSize]byte, key [KeySize]byte) []byte

	// Open authenticates and decrypts ciphertext. The bool is false when
	// authentication fails.
	Open(ciphertext []byte, nonce [NonceSize]byte, key [KeySize]byte) ([]byte, bool)

	// ReadRandom fills b with random bytes.
	ReadRandom(b []byte) error
}

// NaClCrypto implements Crypto with Argon2id key derivation and NaCl
// secretbox (XSalsa20-Poly1305) sealing.
type NaClCrypto struct{}

func (NaClCrypto) DeriveKey(passphrase, salt []byte) [KeySize]byte {
	var key [KeySize]byte
	copy(key[:], argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeySize))
	return key
}

func (NaClCrypto) Seal(plaintext []byte, nonce [NonceSize]byte, key [KeySize]byte) []byte {
	return secretbox.Seal(nil, plaintext, &nonce, &key)
}

func (NaClCrypto) Open(ciphertext []byte, nonce [NonceSize]byte, key [KeySize]byte) ([]byte, bool) {
	return secretbox.Open(nil, ciphertext, &nonce, &key)
}

func (NaClCrypto) ReadRandom(b []byte) error {
	_, err := io.ReadFull(rand.Reader, b)
	return err
}
