package storage

import (
	"fmt"
	"strings"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Config holds storage configuration
type Config struct {
	Type     string // "local" or "s3"
	LocalDir string // Directory for local storage
	BaseURL  string // Server base URL for generating local file URLs

	Bucket    string
	Region    string
	Endpoint  string // Optional, for S3-compatible services
	AccessKey string
	SecretKey string
	PublicURL string // Optional URL prefix for stored objects, defaults to the bucket URL
}

// New builds the backend selected by cfg.Type.
func New(cfg Config) (FileStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.BaseURL, cfg.LocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
