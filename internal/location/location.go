// Package location abstracts where backup artifacts are written to and read
// from: a local directory or an S3-compatible bucket.
package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/filex"
)

// Destination stores an artifact under name.
type Destination interface {
	Write(ctx context.Context, name string, data []byte) (Handle, error)
}

// Source yields one artifact.
type Source interface {
	// Name is the artifact's file name, used for extension checks.
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// Handle identifies a written artifact.
type Handle struct {
	Name string
	// URI is an absolute path or an s3://bucket/key reference.
	URI string
}

func (h Handle) String() string {
	return h.URI
}

const artifactPerm os.FileMode = 0o600

// Dir is a local directory destination.
type Dir struct {
	path string
}

func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Write creates the directory if needed and replaces name atomically.
func (d *Dir) Write(ctx context.Context, name string, data []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	if err := checkName(name); err != nil {
		return Handle{}, err
	}

	abs, err := filex.EnsureDir(d.path)
	if err != nil {
		return Handle{}, err
	}

	full := filepath.Join(abs, name)
	if err := filex.WriteFileAtomic(full, data, artifactPerm); err != nil {
		return Handle{}, err
	}
	return Handle{Name: name, URI: full}, nil
}

// File is a local file source.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return filepath.Base(f.path)
}

func (f *File) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.path, common.ErrorNotFound)
	}
	return data, err
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}
