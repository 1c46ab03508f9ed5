// Package genfs holds generated units in memory until they are written to, or
// verified against, a source tree.
package genfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const ioLimit = 12

// FS is a set of generated files keyed by slash-separated relative path.
// Files cannot be removed once added. FS is safe for concurrent use.
type FS struct {
	mu    sync.Mutex
	files map[string]entry
}

// File is a single generated file.
type File struct {
	// RelativePath is the slash-separated path below the output root.
	RelativePath string
	Data         []byte
}

type entry struct {
	data  []byte
	owner string
}

// New creates an empty FS.
func New() *FS {
	return &FS{files: make(map[string]entry)}
}

// Add adds files produced for owner. Nothing is added if any path is
// absolute or already taken.
func (fs *FS) Add(owner string, files ...File) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var result *multierror.Error
	for _, f := range files {
		if prev, has := fs.files[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("cannot create %s for %q, already created for %q", f.RelativePath, owner, prev.owner))
		}
		if path.IsAbs(f.RelativePath) || filepath.IsAbs(f.RelativePath) {
			result = multierror.Append(result, fmt.Errorf("generated files must have relative paths, got %s from %q", f.RelativePath, owner))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, f := range files {
		fs.files[f.RelativePath] = entry{data: f.Data, owner: owner}
	}
	return nil
}

// Len returns the number of files.
func (fs *FS) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.files)
}

// Files returns the files sorted by path.
func (fs *FS) Files() []File {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	result := make([]File, 0, len(fs.files))
	for p, e := range fs.files {
		result = append(result, File{RelativePath: p, Data: e.data})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RelativePath < result[j].RelativePath
	})
	return result
}

// Write writes every file below prefix, creating parent directories.
func (fs *FS) Write(ctx context.Context, prefix string) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(ioLimit)

	for _, f := range fs.Files() {
		f := f
		g.Go(func() error {
			p := filepath.Join(prefix, filepath.FromSlash(f.RelativePath))
			if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
				return fmt.Errorf("%s: failed to ensure parent directory exists: %w", p, err)
			}
			if err := os.WriteFile(p, f.Data, 0o644); err != nil {
				return fmt.Errorf("%s: error while writing file: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Verify compares every file with its counterpart below prefix. Missing and
// differing files are reported together; I/O failures abort verification.
func (fs *FS) Verify(ctx context.Context, prefix string) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(ioLimit)

	var mu sync.Mutex
	var result *multierror.Error
	report := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	for _, f := range fs.Files() {
		f := f
		g.Go(func() error {
			p := filepath.Join(prefix, filepath.FromSlash(f.RelativePath))
			onDisk, err := os.ReadFile(p)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					report(fmt.Errorf("%s: generated file should exist, but does not", p))
					return nil
				}
				return fmt.Errorf("%s: error reading file: %w", p, err)
			}
			if diff := cmp.Diff(string(onDisk), string(f.Data)); diff != "" {
				report(fmt.Errorf("%s would have changed:\n\n%s", p, diff))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("io error while verifying tree: %w", err)
	}
	return result.ErrorOrNil()
}
