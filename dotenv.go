// Package dotenv loads environment configuration from dotenv files,
// transparently unwrapping encrypted files, expanding shell-style variable
// references in file order, and optionally decoding JSON-shaped values. The
// result is an ordered map that can be published to the process environment.
package dotenv

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/signalforge/dotenv/envelope"
	"github.com/signalforge/dotenv/envmap"
	"github.com/signalforge/dotenv/parser"
)

// Environment variables consulted for the decryption passphrase, in order,
// after Options.Key and Options.KeyEnv.
const (
	KeyEnvVar         = "SIGNALFORGE_DOTENV_KEY"
	KeyEnvVarFallback = "DOTENV_PRIVATE_KEY"
)

// Options configures a single load. The zero value disables publishing and
// JSON decoding; use DefaultOptions for the standard behavior.
type Options struct {
	// Encrypted forces the input to be treated as enveloped (true) or
	// plain (false). When nil, the envelope magic decides.
	Encrypted *bool

	// Key is the decryption passphrase. Takes precedence over every
	// environment source.
	Key string

	// KeyEnv names an environment variable to read the passphrase from.
	KeyEnv string

	// Override lets publishing overwrite variables that already exist.
	Override bool

	// Export publishes results to the process environment.
	Export bool

	// ExportServer additionally publishes to the per-request scratch
	// surface, where structured values are stored as-is.
	ExportServer bool

	// Arrays enables opportunistic JSON decoding of values that look
	// like arrays or objects.
	Arrays bool

	// Environment is the surface read from and published to.
	// Defaults to the process environment.
	Environment Environment

	// DecodeJSON decodes a candidate JSON value. Defaults to
	// encoding/json.
	DecodeJSON func(data []byte) (any, error)

	// Crypto overrides the envelope primitives. Defaults to Argon2id +
	// XSalsa20-Poly1305.
	Crypto envelope.Crypto
}

// DefaultOptions returns the standard configuration: auto-detect
// encryption, publish to the process environment without overriding, and
// decode JSON-shaped values.
func DefaultOptions() *Options {
	return &Options{
		Export: true,
		Arrays: true,
	}
}

// Load reads, optionally decrypts, parses, and post-processes the dotenv
// file at path, publishing the result according to opts. A nil opts means
// DefaultOptions. The returned map preserves file order with
// last-writer-wins on duplicate keys.
func Load(path string, opts *Options) (*envmap.Map[any], error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(CodeFileNotFound, fmt.Sprintf("file not found: %s", path), err)
		}
		return nil, newError(CodeFileRead, fmt.Sprintf("failed to stat %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, newError(CodeFileNotFound, fmt.Sprintf("not a regular file: %s", path), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(CodeFileRead, fmt.Sprintf("failed to read %s", path), err)
	}
	return LoadBytes(data, opts)
}

// LoadBytes is Load for an in-memory buffer.
func LoadBytes(data []byte, opts *Options) (*envmap.Map[any], error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Environment == nil {
		o.Environment = NewOSEnvironment()
	}
	if o.DecodeJSON == nil {
		o.DecodeJSON = decodeJSON
	}

	enveloped := envelope.IsEnveloped(data)
	if o.Encrypted != nil {
		enveloped = *o.Encrypted
	}
	if enveloped {
		plaintext, err := decrypt(data, &o)
		if err != nil {
			return nil, err
		}
		data = plaintext
	}

	entries, err := parser.Parse(data)
	if err != nil {
		return nil, newError(CodeParse, err.Error(), err)
	}

	result := postProcess(entries, &o)
	publish(result, &o)
	return result, nil
}

func decrypt(data []byte, o *Options) ([]byte, error) {
	passphrase := resolvePassphrase(o)
	if passphrase == "" {
		return nil, newError(CodeKeyRequired, "encrypted input requires a key and none was found", nil)
	}

	codec := envelope.DefaultCodec
	if o.Crypto != nil {
		codec = &envelope.Codec{Crypto: o.Crypto}
	}
	plaintext, err := codec.Unwrap(data, []byte(passphrase))
	if err != nil {
		if errors.Is(err, envelope.ErrEmptyPassphrase) {
			return nil, newError(CodeKeyInvalid, "encryption key must not be empty", err)
		}
		return nil, newError(CodeDecrypt, strings.TrimPrefix(err.Error(), "envelope: "), err)
	}
	return plaintext, nil
}

// resolvePassphrase walks the key sources in precedence order and returns
// the first non-empty hit.
func resolvePassphrase(o *Options) string {
	if o.Key != "" {
		return o.Key
	}
	names := make([]string, 0, 3)
	if o.KeyEnv != "" {
		names = append(names, o.KeyEnv)
	}
	names = append(names, KeyEnvVar, KeyEnvVarFallback)
	for _, name := range names {
		if v, ok := o.Environment.Lookup(name); ok && v != "" {
			return v
		}
	}
	return ""
}
