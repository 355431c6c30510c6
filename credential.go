package readlater

import (
	"context"
	"time"
)

// SiteCredential holds a user's login for a paywalled site. Username and
// Password are stored encrypted; see Cipher.
type SiteCredential struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Host      string    `json:"host"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the credential contains invalid fields.
func (c *SiteCredential) Validate() error {
	if c.UserID == "" {
		return Errorf(EINVALID, "credential user ID required")
	}
	if c.Host == "" {
		return Errorf(EINVALID, "credential host required")
	}
	return nil
}

// MatchesHost reports whether the credential applies to host.
func (c *SiteCredential) MatchesHost(host string) bool {
	return MatchHost(c.Host, host)
}

// SiteCredentialService represents a service for managing site credentials.
type SiteCredentialService interface {
	// CreateSiteCredential stores a new credential.
	CreateSiteCredential(ctx context.Context, cred *SiteCredential) error

	// FindSiteCredentials returns all credentials of the user.
	FindSiteCredentials(ctx context.Context, userID string) ([]*SiteCredential, error)

	// DeleteSiteCredential removes a credential.
	// Returns ENOTFOUND if credential does not exist.
	DeleteSiteCredential(ctx context.Context, id string) error
}

// Cipher encrypts secrets at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
