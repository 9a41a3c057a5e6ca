// Package backup archives a GPT label's raw on-disk bytes to a
// compressed file and restores them later, the way a disk-imaging tool
// keeps a quick rollback point before a risky repartition.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/gosuri/uilive"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/earentir/gptlabel/gpt"
)

// Algorithm names a supported archive codec.
type Algorithm string

const (
	Gzip   Algorithm = "gzip"
	Zlib   Algorithm = "zlib"
	Bzip2  Algorithm = "bzip2"
	Snappy Algorithm = "snappy"
	S2     Algorithm = "s2"
	Zstd   Algorithm = "zstd"
	Zip    Algorithm = "zip"
)

// extension returns the conventional file suffix for algo.
func extension(algo Algorithm) (string, error) {
	switch algo {
	case Gzip:
		return ".gz", nil
	case Zlib:
		return ".zlib", nil
	case Bzip2:
		return ".bz2", nil
	case Snappy:
		return ".snappy", nil
	case S2:
		return ".s2", nil
	case Zstd:
		return ".zst", nil
	case Zip:
		return ".zip", nil
	default:
		return "", fmt.Errorf("backup: unsupported algorithm %q", algo)
	}
}

// newWriter wraps output in a compressing io.WriteCloser for algo. The
// returned closer must always be closed to flush trailing codec state;
// for Zip it also closes the archive's central directory.
func newWriter(algo Algorithm, output io.Writer) (io.WriteCloser, error) {
	switch algo {
	case Gzip:
		return gzip.NewWriter(output), nil
	case Zlib:
		return zlib.NewWriter(output), nil
	case Bzip2:
		return bzip2.NewWriter(output, &bzip2.WriterConfig{})
	case Snappy:
		return snappy.NewBufferedWriter(output), nil
	case S2:
		return s2.NewWriter(output), nil
	case Zstd:
		w, err := zstd.NewWriter(output)
		if err != nil {
			return nil, err
		}
		return w, nil
	case Zip:
		zw := zip.NewWriter(output)
		entry, err := zw.Create("label.bin")
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("backup: create zip entry: %w", err)
		}
		return &zipEntryWriter{entry: entry, zw: zw}, nil
	default:
		return nil, fmt.Errorf("backup: unsupported algorithm %q", algo)
	}
}

// zipEntryWriter adapts the write-only zip.Writer entry plus its
// archive-closing zip.Writer into a single io.WriteCloser.
type zipEntryWriter struct {
	entry io.Writer
	zw    *zip.Writer
}

func (z *zipEntryWriter) Write(p []byte) (int, error) { return z.entry.Write(p) }
func (z *zipEntryWriter) Close() error                { return z.zw.Close() }

func newReader(algo Algorithm, input io.Reader, size int64) (io.Reader, func() error, error) {
	switch algo {
	case Gzip:
		r, err := gzip.NewReader(input)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case Zlib:
		r, err := zlib.NewReader(input)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case Bzip2:
		r, err := bzip2.NewReader(input, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case Snappy:
		return snappy.NewReader(input), func() error { return nil }, nil
	case S2:
		return s2.NewReader(input), func() error { return nil }, nil
	case Zstd:
		r, err := zstd.NewReader(input)
		if err != nil {
			return nil, nil, err
		}
		return r, func() error { r.Close(); return nil }, nil
	case Zip:
		ra, ok := input.(io.ReaderAt)
		if !ok {
			return nil, nil, fmt.Errorf("backup: zip restore requires a seekable source")
		}
		zr, err := zip.NewReader(ra, size)
		if err != nil {
			return nil, nil, err
		}
		if len(zr.File) == 0 {
			return nil, nil, fmt.Errorf("backup: empty zip archive")
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	default:
		return nil, nil, fmt.Errorf("backup: unsupported algorithm %q", algo)
	}
}

// Dump archives l's raw on-disk bytes (as read from dev via
// gpt.ReadRaw) to path+extension(algo), reporting progress to stdout
// via uilive the way a full-image backup would for a far larger
// transfer.
func Dump(dev gpt.BlockDevice, l *gpt.DiskLabel, path string, algo Algorithm) (string, error) {
	raw, err := gpt.ReadRaw(dev, l)
	if err != nil {
		return "", err
	}

	ext, err := extension(algo)
	if err != nil {
		return "", err
	}
	outPath := path + ext

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("backup: create %s: %w", outPath, err)
	}
	defer f.Close()

	progress := uilive.New()
	progress.Start()
	defer progress.Stop()

	w, err := newWriter(algo, f)
	if err != nil {
		return "", err
	}

	start := time.Now()
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("backup: write %s stream: %w", algo, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("backup: close %s stream: %w", algo, err)
	}

	fmt.Fprintf(progress, "wrote %d bytes to %s in %s\n", len(raw), outPath, time.Since(start).Truncate(time.Millisecond))
	_ = progress.Flush()

	return outPath, nil
}

// Restore reads an archive produced by Dump and writes its raw label
// bytes back to dev at LBA 1 via gpt.WriteRaw. It does not touch the
// backup area or protective MBR; call gpt.Write with the corresponding
// decoded label for a fully consistent restore.
func Restore(dev gpt.BlockDevice, archivePath string, algo Algorithm) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", archivePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("backup: stat %s: %w", archivePath, err)
	}

	r, closeFn, err := newReader(algo, f, info.Size())
	if err != nil {
		return fmt.Errorf("backup: open %s stream: %w", algo, err)
	}
	defer closeFn()

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("backup: read %s stream: %w", algo, err)
	}

	return gpt.WriteRaw(dev, raw)
}
