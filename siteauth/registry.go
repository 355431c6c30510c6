package siteauth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/readlater"
)

// Ensure CredentialRegistry implements readlater.SiteConfigRegistry at compile time.
var _ readlater.SiteConfigRegistry = (*CredentialRegistry)(nil)

// CredentialRegistry fills site configs with one user's decrypted
// credentials. A site that requires login but has no stored credential is
// treated as not requiring login.
type CredentialRegistry struct {
	next        readlater.SiteConfigRegistry
	credentials readlater.SiteCredentialService
	cipher      readlater.Cipher
	userID      string
	logger      *slog.Logger
}

// NewCredentialRegistry creates a CredentialRegistry for userID.
func NewCredentialRegistry(next readlater.SiteConfigRegistry, credentials readlater.SiteCredentialService, cipher readlater.Cipher, userID string, logger *slog.Logger) *CredentialRegistry {
	return &CredentialRegistry{
		next:        next,
		credentials: credentials,
		cipher:      cipher,
		userID:      userID,
		logger:      logger,
	}
}

// FindSiteConfig returns a copy of the site config with credentials filled in.
func (r *CredentialRegistry) FindSiteConfig(ctx context.Context, host string) (*readlater.SiteConfig, error) {
	found, err := r.next.FindSiteConfig(ctx, host)
	if err != nil {
		return nil, err
	}
	cfg := *found
	if !cfg.RequiresLogin {
		return &cfg, nil
	}

	cred, err := r.findCredential(ctx, host)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		r.logger.WarnContext(ctx, "no credentials for host", "host", host, "user", r.userID)
		cfg.RequiresLogin = false
		return &cfg, nil
	}

	if cfg.Username, err = r.cipher.Decrypt(cred.Username); err != nil {
		return nil, fmt.Errorf("decrypt username for %s: %w", cred.Host, err)
	}
	if cfg.Password, err = r.cipher.Decrypt(cred.Password); err != nil {
		return nil, fmt.Errorf("decrypt password for %s: %w", cred.Host, err)
	}
	return &cfg, nil
}

// findCredential returns the user's credential with the most specific host
// pattern covering host, or nil.
func (r *CredentialRegistry) findCredential(ctx context.Context, host string) (*readlater.SiteCredential, error) {
	creds, err := r.credentials.FindSiteCredentials(ctx, r.userID)
	if err != nil {
		return nil, fmt.Errorf("find credentials: %w", err)
	}

	var best *readlater.SiteCredential
	for _, c := range creds {
		if !c.MatchesHost(host) {
			continue
		}
		if best == nil || len(c.Host) > len(best.Host) {
			best = c
		}
	}
	return best, nil
}
