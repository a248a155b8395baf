// Package archive packs a measurement-set directory into a blob store
// and restores it back. Each file is compressed independently so single
// columns can be fetched without pulling the whole archive; a manifest
// blob records the file list, sizes and codec.
//
// Transfers run a bounded number of files in parallel and fail fast: the
// first error cancels the remaining workers. An optional rate limit caps
// the aggregate uncompressed throughput.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bmarcote/mstools/blobstore"
	"github.com/bmarcote/mstools/codec"
)

// ManifestName is the blob holding the archive description.
const ManifestName = "archive.json"

// Manifest describes one packed archive.
type Manifest struct {
	Created     time.Time   `json:"created"`
	Compression Compression `json:"compression"`
	Files       []FileEntry `json:"files"`
}

// FileEntry records one archived file.
type FileEntry struct {
	// Name is the slash-separated path relative to the table directory.
	Name string `json:"name"`
	// Size is the uncompressed size in bytes.
	Size int64 `json:"size"`
}

// Pack archives the table directory dir into the store under prefix.
// The resulting layout is prefix/archive.json plus one blob per file,
// suffixed with the codec extension.
func Pack(ctx context.Context, dir string, store blobstore.BlobStore, prefix string, opts ...Option) (*Manifest, error) {
	o := newOptions(opts)
	if !o.compression.valid() {
		return nil, fmt.Errorf("archive: unknown compression %q", o.compression)
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("archive: %s holds no files", dir)
	}

	manifest := &Manifest{
		Created:     time.Now().UTC(),
		Compression: o.compression,
		Files:       make([]FileEntry, len(files)),
	}

	lim := o.limiter()
	var sent atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, name := range files {
		g.Go(func() error {
			n, err := packFile(ctx, dir, name, store, prefix, o.compression, lim)
			if err != nil {
				return fmt.Errorf("archive %s: %w", name, err)
			}
			manifest.Files[i] = FileEntry{Name: name, Size: n}
			total := sent.Add(n)
			o.logger.Infof("archived %s (%d bytes, %d so far)", name, n, total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw, err := codec.Default.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	if err := store.Put(ctx, path.Join(prefix, ManifestName), raw); err != nil {
		return nil, err
	}
	o.logger.Infof("archive of %s complete: %d files, %d bytes", dir, len(files), sent.Load())
	return manifest, nil
}

// Fetch restores an archive from the store under prefix into dir.
// WithCompression is ignored here; the manifest decides the codec.
func Fetch(ctx context.Context, store blobstore.BlobStore, prefix, dir string, opts ...Option) (*Manifest, error) {
	o := newOptions(opts)

	manifest, err := ReadManifest(ctx, store, prefix)
	if err != nil {
		return nil, err
	}
	if !manifest.Compression.valid() {
		return nil, fmt.Errorf("archive: manifest names unknown compression %q", manifest.Compression)
	}

	lim := o.limiter()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, entry := range manifest.Files {
		g.Go(func() error {
			if err := fetchFile(ctx, store, prefix, entry, manifest.Compression, dir, lim); err != nil {
				return fmt.Errorf("fetch %s: %w", entry.Name, err)
			}
			o.logger.Infof("restored %s (%d bytes)", entry.Name, entry.Size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// ReadManifest loads the archive description without transferring data.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, prefix string) (*Manifest, error) {
	blob, err := store.Open(ctx, path.Join(prefix, ManifestName))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	raw := make([]byte, blob.Size())
	if _, err := io.ReadFull(io.NewSectionReader(blob, 0, blob.Size()), raw); err != nil {
		return nil, err
	}
	manifest := &Manifest{}
	if err := codec.Default.Unmarshal(raw, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func packFile(ctx context.Context, dir, name string, store blobstore.BlobStore, prefix string, c Compression, lim *rate.Limiter) (int64, error) {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w, err := store.Create(ctx, path.Join(prefix, name)+c.ext())
	if err != nil {
		return 0, err
	}
	n, err := c.compress(w, throttled(ctx, f, lim))
	if err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}

func fetchFile(ctx context.Context, store blobstore.BlobStore, prefix string, entry FileEntry, c Compression, dir string, lim *rate.Limiter) error {
	blob, err := store.Open(ctx, path.Join(prefix, entry.Name)+c.ext())
	if err != nil {
		return err
	}
	defer blob.Close()

	dst := filepath.Join(dir, filepath.FromSlash(entry.Name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	src := throttled(ctx, io.NewSectionReader(blob, 0, blob.Size()), lim)
	n, err := c.decompress(f, src)
	if err != nil {
		_ = f.Close()
		return err
	}
	if n != entry.Size {
		_ = f.Close()
		return fmt.Errorf("restored %d bytes, manifest says %d", n, entry.Size)
	}
	return f.Close()
}

// listFiles walks dir and returns the relative slash paths of its files,
// sorted. Hidden files (leftover temp files mostly) are skipped.
func listFiles(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// throttled wraps r so reads consume tokens from lim. A nil limiter
// returns r unchanged.
func throttled(ctx context.Context, r io.Reader, lim *rate.Limiter) io.Reader {
	if lim == nil {
		return r
	}
	return &throttledReader{ctx: ctx, r: r, lim: lim}
}

type throttledReader struct {
	ctx context.Context
	r   io.Reader
	lim *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > t.lim.Burst() {
		p = p[:t.lim.Burst()]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.lim.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
