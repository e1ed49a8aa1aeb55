package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// IdentifyFile resolves path to an absolute location and fingerprints its
// content with xxhash64.
func IdentifyFile(path string) (Identity, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Identity{}, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return Identity{}, fmt.Errorf("%w: %s: %w", ErrOpen, abs, err)
	}
	if !info.Mode().IsRegular() {
		return Identity{}, fmt.Errorf("%w: %s", ErrNotRegular, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s: %w", ErrOpen, abs, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err = io.Copy(h, f); err != nil {
		return Identity{}, fmt.Errorf("%w: %s: %w", ErrOpen, abs, err)
	}
	return Identity{Path: abs, Fingerprint: h.Sum64()}, nil
}

// Scan lists the files directly inside dir whose name ends in ext, sorted.
// Subdirectories are not descended into.
func Scan(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// IdentifyAll runs loader.Identify for every path concurrently. The results
// are aligned with paths; a failure for one path leaves the others intact.
func IdentifyAll(ctx context.Context, loader Loader, paths []string) ([]Identity, []error) {
	ids := make([]Identity, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			ids[i], errs[i] = loader.Identify(path)
			return nil
		})
	}
	_ = g.Wait()
	return ids, errs
}
