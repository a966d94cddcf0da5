package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"calorie-log/internal/cal"
)

// ageHeader starts every age file. An identity file that begins with it was
// wrapped with a passphrase.
const ageHeader = "age-encryption.org/"

// AgeCodec implements cal.Codec using filippo.io/age with one X25519 key.
// The log is encrypted to the key's recipient and decrypted with the key.
type AgeCodec struct {
	identity  age.Identity
	recipient age.Recipient
}

var _ cal.Codec = (*AgeCodec)(nil)

// GenerateIdentity creates a new X25519 key at path and returns its public
// recipient string. A non-empty passphrase wraps the key with age's
// scrypt-based passphrase encryption. Existing files are never overwritten.
func GenerateIdentity(path, passphrase string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("identity file already exists at %s", path)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", fmt.Errorf("generating key pair: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating key directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("creating identity file: %w", err)
	}
	defer f.Close()

	var w io.WriteCloser = nopWriteCloser{f}
	if passphrase != "" {
		recipient, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return "", fmt.Errorf("creating scrypt recipient: %w", err)
		}
		if w, err = age.Encrypt(f, recipient); err != nil {
			return "", fmt.Errorf("creating encrypted writer: %w", err)
		}
	}

	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return "", fmt.Errorf("writing identity: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing identity: %w", err)
	}

	return identity.Recipient().String(), nil
}

// LoadAgeCodec reads the identity at path. passphrase is required only when
// the identity was generated with one.
func LoadAgeCodec(path, passphrase string) (*AgeCodec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}

	if bytes.HasPrefix(data, []byte(ageHeader)) {
		if passphrase == "" {
			return nil, fmt.Errorf("identity %s is passphrase protected", path)
		}
		scrypt, err := age.NewScryptIdentity(passphrase)
		if err != nil {
			return nil, fmt.Errorf("creating scrypt identity: %w", err)
		}
		r, err := age.Decrypt(bytes.NewReader(data), scrypt)
		if err != nil {
			return nil, fmt.Errorf("unlocking identity: %w", err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("reading unlocked identity: %w", err)
		}
	}

	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	x25519, ok := identities[0].(*age.X25519Identity)
	if !ok {
		return nil, fmt.Errorf("identity %s is not an X25519 key", path)
	}

	return &AgeCodec{identity: x25519, recipient: x25519.Recipient()}, nil
}

// Seal encrypts plaintext to the codec's recipient.
func (c *AgeCodec) Seal(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, c.recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Open decrypts data sealed by Seal.
func (c *AgeCodec) Open(sealed []byte) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(sealed), c.identity)
	if err != nil {
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decrypting data: %w", err)
	}
	return data, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
