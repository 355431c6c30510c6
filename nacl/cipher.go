// Package nacl encrypts site credentials at rest with NaCl secretbox.
package nacl

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/fwojciec/readlater"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Argon2id parameters for deriving the secretbox key. Changing any of them
// makes stored credentials unreadable.
const (
	keySalt    = "readlater/site-credentials"
	keyTime    = 1
	keyMemory  = 64 * 1024
	keyThreads = 4
)

// Ensure Cipher implements readlater.Cipher at compile time.
var _ readlater.Cipher = (*Cipher)(nil)

// Cipher seals strings with a 32-byte key. Ciphertexts are base64 encoded
// with the random nonce prepended.
type Cipher struct {
	key [32]byte
}

// NewCipher derives the key from secret with Argon2id.
// Returns EINVALID if secret is empty.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, readlater.Errorf(readlater.EINVALID, "secret key required")
	}
	c := &Cipher{}
	copy(c.key[:], argon2.IDKey([]byte(secret), []byte(keySalt), keyTime, keyMemory, keyThreads, uint32(len(c.key))))
	return c, nil
}

// Encrypt seals plaintext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
// Returns EINVALID if the ciphertext is malformed or was sealed with another key.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", readlater.Errorf(readlater.EINVALID, "malformed ciphertext: %v", err)
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", readlater.Errorf(readlater.EINVALID, "ciphertext too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", readlater.Errorf(readlater.EINVALID, "cannot decrypt ciphertext")
	}
	return string(plain), nil
}
