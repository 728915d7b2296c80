package storage

import (
	"context"
	"io"
)

// Disk is the filesystem view of a translation root. Paths are
// slash-separated and relative to the root; implementations must not let
// them escape it.
type Disk interface {
	// ListFiles returns every file below dir, recursively, in ascending
	// order. Returned paths are relative to the root (e.g. "en/auth.php").
	ListFiles(dir string) ([]string, error)

	// ListDirectories returns the immediate subdirectories of dir, in
	// ascending order, relative to the root. Use "" for the root itself.
	ListDirectories(dir string) ([]string, error)

	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool

	// Read returns the content of the file at path.
	// Missing files return an error wrapping ErrNotFound.
	Read(path string) ([]byte, error)

	// Write replaces the file at path with data, creating parent
	// directories as needed. Errors wrap ErrWriteFailed.
	Write(path string, data []byte) error

	// ResolvePath maps a relative path to its absolute location.
	ResolvePath(path string) string

	// MakeDirectory creates path and any missing parents.
	MakeDirectory(path string) error
}

// Storage defines object storage operations used for off-site archive copies.
type Storage interface {
	// Put uploads size bytes from r under the key set with WithKey.
	// The size parameter is used for content-length header.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Head returns the metadata of a stored object without downloading it.
	// Missing objects return an error wrapping ErrNotFound.
	Head(ctx context.Context, key string) (*FileInfo, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"BUCKET" yaml:"bucket"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"ACCESS_KEY" yaml:"access_key"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"SECRET_KEY" yaml:"secret_key"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"ENDPOINT" yaml:"endpoint"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"REGION" yaml:"region"`

	// Prefix is prepended to every key (optional).
	Prefix string `env:"PREFIX" yaml:"prefix"`

	// DefaultACL is the default ACL for uploaded files (default: private).
	DefaultACL ACL `env:"ACL" yaml:"acl"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"PATH_STYLE" yaml:"path_style"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// FileInfo contains metadata about an uploaded file.
type FileInfo struct {
	// Key is the storage key (path) for the file.
	Key string

	// ContentType is the content type sent with the upload.
	ContentType string

	// ACL is the access control setting.
	ACL ACL

	// Size is the file size in bytes.
	Size int64
}

// ACL represents access control levels for stored files.
type ACL string

const (
	// ACLPrivate makes the file accessible only with credentials.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the file publicly readable.
	ACLPublicRead ACL = "public-read"
)

// Default configuration values.
const (
	DefaultRegion      = "us-east-1"
	DefaultContentType = "application/octet-stream"
)

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

// validate checks that required configuration fields are set.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return ErrInvalidConfig
	}
	if c.AccessKey == "" {
		return ErrInvalidConfig
	}
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
