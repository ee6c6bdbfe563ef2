// Package crypto encrypts league documents at rest. Documents are JSON,
// sealed in a Fernet token, then base64url-armored for storage as text. The
// key comes either directly from configuration or is derived from a
// passphrase with PBKDF2, matching the documents already in the store.
package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/pbkdf2"
)

// ErrDecrypt means the ciphertext exists but could not be verified and
// decrypted. Callers must not confuse this with an absent document.
var ErrDecrypt = errors.New("failed to decrypt document")

// keyDerivationSalt and the iteration count are fixed by the documents
// already encrypted under them.
const (
	keyDerivationSalt = "prediction-league-salt"
	keyIterations     = 100000
)

// Codec seals and opens league documents.
type Codec struct {
	key *fernet.Key
}

// NewCodec builds a codec from an explicit base64url key, or derives one from
// the passphrase when no key is set.
func NewCodec(encodedKey, passphrase string) (*Codec, error) {
	if encodedKey == "" {
		derived := pbkdf2.Key([]byte(passphrase), []byte(keyDerivationSalt), keyIterations, 32, sha256.New)
		encodedKey = base64.URLEncoding.EncodeToString(derived)
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	return &Codec{key: key}, nil
}

// Encrypt marshals v to JSON and returns the armored ciphertext.
func (c *Codec) Encrypt(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	token, err := fernet.EncryptAndSign(plaintext, c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt document: %w", err)
	}

	return base64.URLEncoding.EncodeToString(token), nil
}

// Decrypt opens armored ciphertext into v. Tokens do not expire; the store is
// the system of record, not a message queue.
func (c *Codec) Decrypt(armored string, v any) error {
	token, err := base64.URLEncoding.DecodeString(armored)
	if err != nil {
		return fmt.Errorf("%w: bad armor: %v", ErrDecrypt, err)
	}

	plaintext := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return ErrDecrypt
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: bad payload: %v", ErrDecrypt, err)
	}
	return nil
}
