package bootstrapper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// FilesystemConfig holds settings for the filesystem bootstrapper.
type FilesystemConfig struct {
	BaseDir string `env:"TENANCY_FS_BASE" envDefault:"storage"` // BaseDir is the central storage root.
}

// Filesystem switches the active storage root between the central base
// directory and a per-tenant directory (<base>/tenants/<key>), creating the
// tenant directory on first use. Code writing files reads the active root
// through Root.
type Filesystem struct {
	cfg  FilesystemConfig
	root string
}

// NewFilesystem creates a filesystem bootstrapper rooted at cfg.BaseDir.
func NewFilesystem(cfg FilesystemConfig) *Filesystem {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "storage"
	}
	return &Filesystem{cfg: cfg, root: cfg.BaseDir}
}

func (f *Filesystem) Name() string { return "filesystem" }

// Bootstrap points the storage root at the tenant's directory.
func (f *Filesystem) Bootstrap(ctx context.Context, t *tenant.Tenant) error {
	dir := filepath.Join(f.cfg.BaseDir, "tenants", t.Key())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("bootstrapper: create tenant storage %q: %w", dir, err)
	}
	f.root = dir
	return nil
}

// Revert restores the central storage root.
func (f *Filesystem) Revert(ctx context.Context) error {
	f.root = f.cfg.BaseDir
	return nil
}

// Root returns the storage root for the active context.
func (f *Filesystem) Root() string {
	return f.root
}
