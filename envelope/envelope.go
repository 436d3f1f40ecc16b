// Package envelope wraps byte buffers in a versioned authenticated-encryption
// container. The on-disk layout is fixed: an 8-byte magic, a version byte,
// three reserved bytes, a 16-byte KDF salt, a 24-byte cipher nonce, and the
// ciphertext with its 16-byte authentication tag. Keys are derived from a
// passphrase with Argon2id and the payload is sealed with XSalsa20-Poly1305.
package envelope

import "errors"

const (
	// Magic identifies an enveloped buffer. It doubles as the
	// auto-detection probe for IsEnveloped.
	Magic = "SFDOTENV"

	// Version is the only envelope format version currently written
	// or accepted.
	Version = 0x01

	// SaltSize is the length of the KDF salt in bytes.
	SaltSize = 16

	// NonceSize is the length of the cipher nonce in bytes.
	NonceSize = 24

	// TagSize is the length of the authentication tag the cipher adds.
	TagSize = 16

	// HeaderSize is the fixed width of the envelope header:
	// magic + version + reserved + salt + nonce.
	HeaderSize = 8 + 1 + 3 + SaltSize + NonceSize
)

var (
	// ErrEmptyPassphrase is returned when the passphrase has zero length.
	ErrEmptyPassphrase = errors.New("envelope: passphrase must not be empty")

	// ErrNotEncrypted is returned when the input is too short or does not
	// start with the envelope magic.
	ErrNotEncrypted = errors.New("envelope: data is not encrypted")

	// ErrVersion is returned when the version byte is not Version.
	ErrVersion = errors.New("envelope: unsupported encryption format version")

	// ErrDecryptFailed is returned when authentication fails. Wrong key
	// and tampered data are deliberately indistinguishable.
	ErrDecryptFailed = errors.New("envelope: wrong key or tampered data")
)

// Codec wraps and unwraps envelopes using a Crypto capability. The zero
// value is not usable; use DefaultCodec or set Crypto explicitly.
type Codec struct {
	Crypto Crypto
}

// DefaultCodec uses the real Argon2id and XSalsa20-Poly1305 primitives.
var DefaultCodec = &Codec{Crypto: NaClCrypto{}}

// IsEnveloped reports whether data carries the envelope framing. It checks
// only length and magic, never the passphrase, so it is safe to probe
// arbitrary files with it.
func IsEnveloped(data []byte) bool {
	return len(data) >= HeaderSize && string(data[:len(Magic)]) == Magic
}

// Wrap encrypts plaintext under passphrase using the default codec.
func Wrap(plaintext, passphrase []byte) ([]byte, error) {
	return DefaultCodec.Wrap(plaintext, passphrase)
}

// Unwrap decrypts an enveloped buffer using the default codec.
func Unwrap(data, passphrase []byte) ([]byte, error) {
	return DefaultCodec.Unwrap(data, passphrase)
}

// Wrap derives a key from passphrase with a fresh random salt, seals
// plaintext under a fresh random nonce, and frames the result.
func (c *Codec) Wrap(plaintext, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	var salt [SaltSize]byte
	var nonce [NonceSize]byte
	if err := c.Crypto.ReadRandom(salt[:]); err != nil {
		return nil, err
	}
	if err := c.Crypto.ReadRandom(nonce[:]); err != nil {
		return nil, err
	}

	key := c.Crypto.DeriveKey(passphrase, salt[:])
	sealed := c.Crypto.Seal(plaintext, nonce, key)
	for i := range key {
		key[i] = 0
	}

	out := make([]byte, 0, HeaderSize+len(sealed))
	out = append(out, Magic...)
	out = append(out, Version, 0, 0, 0)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)
	return out, nil
}

// Unwrap validates the framing, re-derives the key from the embedded salt,
// and opens the ciphertext. Any framing or authentication failure is
// terminal; no partial plaintext is ever returned.
func (c *Codec) Unwrap(data, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(data) < HeaderSize || string(data[:len(Magic)]) != Magic {
		return nil, ErrNotEncrypted
	}
	if data[len(Magic)] != Version {
		return nil, ErrVersion
	}
	if len(data) < HeaderSize+TagSize {
		return nil, ErrDecryptFailed
	}

	var salt [SaltSize]byte
	var nonce [NonceSize]byte
	copy(salt[:], data[12:12+SaltSize])
	copy(nonce[:], data[12+SaltSize:HeaderSize])

	key := c.Crypto.DeriveKey(passphrase, salt[:])
	plaintext, ok := c.Crypto.Open(data[HeaderSize:], nonce, key)
	for i := range key {
		key[i] = 0
	}
	if !ok {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
