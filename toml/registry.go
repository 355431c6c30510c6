// Package toml loads per-site fetch configuration from TOML files.
package toml

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/readlater"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Ensure SiteConfigRegistry implements readlater.SiteConfigRegistry at compile time.
var _ readlater.SiteConfigRegistry = (*SiteConfigRegistry)(nil)

// file is the on-disk layout: a list of [[site]] tables.
type file struct {
	Sites []*readlater.SiteConfig `toml:"site"`
}

// SiteConfigRegistry holds site configs keyed by host pattern.
type SiteConfigRegistry struct {
	sites map[string]*readlater.SiteConfig
}

// NewSiteConfigRegistry creates an empty registry.
func NewSiteConfigRegistry() *SiteConfigRegistry {
	return &SiteConfigRegistry{sites: make(map[string]*readlater.SiteConfig)}
}

// Open reads a registry from the TOML file at path.
// An empty path yields an empty registry.
func Open(path string) (*SiteConfigRegistry, error) {
	r := NewSiteConfigRegistry()
	if path == "" {
		return r, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site config: %w", err)
	}
	defer f.Close()

	if err := r.Load(f); err != nil {
		return nil, err
	}
	return r, nil
}

// Load decodes [[site]] tables from rd and registers them. Later entries
// for the same host replace earlier ones.
func (r *SiteConfigRegistry) Load(rd io.Reader) error {
	var f file
	decoder := gotoml.NewDecoder(rd)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&f); err != nil {
		return readlater.Errorf(readlater.EINVALID, "parse site config: %v", err)
	}

	for i, cfg := range f.Sites {
		if strings.TrimSpace(cfg.Host) == "" {
			return readlater.Errorf(readlater.EINVALID, "site %d: host required", i+1)
		}
		r.Register(cfg)
	}
	return nil
}

// Register adds cfg under its host pattern.
func (r *SiteConfigRegistry) Register(cfg *readlater.SiteConfig) {
	r.sites[patternKey(cfg.Host)] = cfg
}

// Len returns the number of registered sites.
func (r *SiteConfigRegistry) Len() int {
	return len(r.sites)
}

// FindSiteConfig returns the config registered for host or the closest
// parent domain pattern.
func (r *SiteConfigRegistry) FindSiteConfig(_ context.Context, host string) (*readlater.SiteConfig, error) {
	for _, p := range readlater.HostPatterns(host) {
		if cfg, ok := r.sites[p]; ok {
			return cfg, nil
		}
	}
	return nil, readlater.Errorf(readlater.ENOTFOUND, "no site config for %s", host)
}

func patternKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(host, ".") {
		return host
	}
	return readlater.NormalizeHost(host)
}
