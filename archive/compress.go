package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the per-file codec of an archive.
type Compression string

const (
	// None stores the files verbatim.
	None Compression = "none"
	// Zstd gives the best ratio on column data and is the default.
	Zstd Compression = "zstd"
	// LZ4 trades ratio for speed; useful when the archive target is fast
	// local storage rather than a remote bucket.
	LZ4 Compression = "lz4"
)

func (c Compression) valid() bool {
	switch c {
	case None, Zstd, LZ4:
		return true
	}
	return false
}

func (c Compression) ext() string {
	switch c {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	}
	return ""
}

// compress copies src into dst through the codec and returns the number
// of uncompressed bytes.
func (c Compression) compress(dst io.Writer, src io.Reader) (int64, error) {
	switch c {
	case None:
		return io.Copy(dst, src)
	case Zstd:
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return 0, err
		}
		n, err := io.Copy(zw, src)
		if err != nil {
			_ = zw.Close()
			return n, err
		}
		return n, zw.Close()
	case LZ4:
		lw := lz4.NewWriter(dst)
		n, err := io.Copy(lw, src)
		if err != nil {
			_ = lw.Close()
			return n, err
		}
		return n, lw.Close()
	}
	return 0, fmt.Errorf("archive: unknown compression %q", c)
}

// decompress copies src into dst through the codec.
func (c Compression) decompress(dst io.Writer, src io.Reader) (int64, error) {
	switch c {
	case None:
		return io.Copy(dst, src)
	case Zstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return 0, err
		}
		defer zr.Close()
		return io.Copy(dst, zr)
	case LZ4:
		return io.Copy(dst, lz4.NewReader(src))
	}
	return 0, fmt.Errorf("archive: unknown compression %q", c)
}
