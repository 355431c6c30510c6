package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var (
	_ readlater.SiteCredentialService = (*SiteCredentialService)(nil)
	_ readlater.Cipher                = (*Cipher)(nil)
)

// SiteCredentialService is a mock implementation of readlater.SiteCredentialService.
type SiteCredentialService struct {
	CreateSiteCredentialFn func(ctx context.Context, cred *readlater.SiteCredential) error
	FindSiteCredentialsFn  func(ctx context.Context, userID string) ([]*readlater.SiteCredential, error)
	DeleteSiteCredentialFn func(ctx context.Context, id string) error
}

func (s *SiteCredentialService) CreateSiteCredential(ctx context.Context, cred *readlater.SiteCredential) error {
	return s.CreateSiteCredentialFn(ctx, cred)
}

func (s *SiteCredentialService) FindSiteCredentials(ctx context.Context, userID string) ([]*readlater.SiteCredential, error) {
	return s.FindSiteCredentialsFn(ctx, userID)
}

func (s *SiteCredentialService) DeleteSiteCredential(ctx context.Context, id string) error {
	return s.DeleteSiteCredentialFn(ctx, id)
}

// Cipher is a mock implementation of readlater.Cipher.
type Cipher struct {
	EncryptFn func(plaintext string) (string, error)
	DecryptFn func(ciphertext string) (string, error)
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	return c.EncryptFn(plaintext)
}

func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	return c.DecryptFn(ciphertext)
}
