package storage

// This file contains backend configuration and the adapter factory. Each
// backend has its own config struct; the Backend tag selects exactly one of
// them, so the set of backends stays explicit and exhaustive.

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// BackendType tags the storage backend a config selects.
type BackendType string

const (
	BackendLocal      BackendType = "local"
	BackendGit        BackendType = "git"
	BackendSharePoint BackendType = "sharepoint"
	BackendAzureBlob  BackendType = "azureblob"
	BackendDrive      BackendType = "gdrive"
)

// Config is the tagged union of backend configurations. Exactly the variant
// matching Backend must be populated.
type Config struct {
	Backend    BackendType       `yaml:"backend"`
	Local      *LocalConfig      `yaml:"local,omitempty"`
	Git        *GitConfig        `yaml:"git,omitempty"`
	SharePoint *SharePointConfig `yaml:"sharepoint,omitempty"`
	AzureBlob  *AzureBlobConfig  `yaml:"azureblob,omitempty"`
	Drive      *DriveConfig      `yaml:"gdrive,omitempty"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	// BaseDir is the directory holding reports/ and index.json.
	BaseDir string `yaml:"base_dir"`
}

// GitConfig configures the git object store backend.
type GitConfig struct {
	// CloneDir is a working clone of the reports repository.
	CloneDir string `yaml:"clone_dir"`
	// Remote is the git remote to push to (default "origin").
	Remote string `yaml:"remote"`
	// Branch is the branch to commit on (default "main").
	Branch string `yaml:"branch"`
	// BaseURL renders report and asset locators for browsing, e.g. the
	// repository's web URL.
	BaseURL string `yaml:"base_url"`
	// Push disables pushing when false; commits stay local.
	Push bool `yaml:"push"`
}

// SharePointConfig configures the enterprise document library backend.
type SharePointConfig struct {
	SiteURL  string `yaml:"site_url"`
	Library  string `yaml:"library"`
	TenantID string `yaml:"tenant_id"`
	ClientID string `yaml:"client_id"`
}

// AzureBlobConfig configures the blob share backend.
type AzureBlobConfig struct {
	AccountName string `yaml:"account_name"`
	Container   string `yaml:"container"`
}

// DriveConfig configures the consumer drive backend.
type DriveConfig struct {
	FolderID        string `yaml:"folder_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// LoadConfig reads a backend config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read storage config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse storage config: %w", err)
	}
	return cfg, nil
}

// New builds the adapter selected by cfg.Backend.
//
// Backends without an implementation yet are returned as loud stubs: their
// connection test fails, every mutating operation errors, and reads come
// back empty so browsing degrades gracefully.
func New(logger zerolog.Logger, cfg Config) (Adapter, error) {
	switch cfg.Backend {
	case BackendLocal:
		if cfg.Local == nil {
			return nil, fmt.Errorf("backend %q selected but no local config given", cfg.Backend)
		}
		return NewLocal(logger, *cfg.Local), nil
	case BackendGit:
		if cfg.Git == nil {
			return nil, fmt.Errorf("backend %q selected but no git config given", cfg.Backend)
		}
		return NewGit(logger, *cfg.Git), nil
	case BackendSharePoint, BackendAzureBlob, BackendDrive:
		return NewStub(logger, cfg.Backend), nil
	case "":
		return nil, fmt.Errorf("no storage backend selected")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
