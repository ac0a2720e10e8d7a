package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"
)

// maxEntryBytes bounds a single extracted file.
const maxEntryBytes = 500 << 20

// ArchiveFormat identifies a supported archive container.
type ArchiveFormat int

const (
	FormatUnknown ArchiveFormat = iota
	FormatZip
	FormatTarGz
	FormatTarXz
)

func (f ArchiveFormat) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	default:
		return "unknown"
	}
}

var (
	magicZip  = []byte("PK\x03\x04")
	magicGzip = []byte{0x1f, 0x8b}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// DetectFormat identifies an archive by its leading magic bytes.
func DetectFormat(header []byte) ArchiveFormat {
	switch {
	case bytes.HasPrefix(header, magicZip):
		return FormatZip
	case bytes.HasPrefix(header, magicGzip):
		return FormatTarGz
	case bytes.HasPrefix(header, magicXz):
		return FormatTarXz
	default:
		return FormatUnknown
	}
}

// Extract unpacks archivePath into a new temporary directory under dir and
// returns that directory together with the archive's single top-level
// directory. On any error the temporary directory is removed.
func Extract(archivePath, dir string) (tmpDir, root string, err error) {
	tmpDir, err = os.MkdirTemp(dir, "offdroid-extract-*")
	if err != nil {
		return "", "", fmt.Errorf("creating extraction dir: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			tmpDir, root = "", ""
		}
	}()

	root, err = ExtractTo(archivePath, tmpDir)
	return tmpDir, root, err
}

// ExtractTo unpacks archivePath into dest and returns the path of the single
// top-level directory it contains.
func ExtractTo(archivePath, dest string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", &ExtractionError{Archive: archivePath, Reason: "cannot open archive", Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, _ := br.Peek(len(magicXz))

	var tops map[string]bool
	switch format := DetectFormat(header); format {
	case FormatZip:
		tops, err = extractZip(archivePath, dest)
	case FormatTarGz:
		var gz *gzip.Reader
		gz, err = gzip.NewReader(br)
		if err == nil {
			defer gz.Close()
			tops, err = extractTar(gz, dest)
		}
	case FormatTarXz:
		var xr *xz.Reader
		xr, err = xz.NewReader(br)
		if err == nil {
			tops, err = extractTar(xr, dest)
		}
	default:
		return "", &ExtractionError{Archive: archivePath, Reason: "unsupported archive format"}
	}
	if err != nil {
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			extractErr.Archive = archivePath
			return "", extractErr
		}
		return "", &ExtractionError{Archive: archivePath, Reason: "corrupt archive", Err: err}
	}

	if len(tops) != 1 {
		names := make([]string, 0, len(tops))
		for name := range tops {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &ExtractionError{
			Archive: archivePath,
			Reason:  fmt.Sprintf("expected exactly one top-level directory, found %d %v", len(tops), names),
		}
	}

	var root string
	for name := range tops {
		root = filepath.Join(dest, name)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", &ExtractionError{Archive: archivePath, Reason: "top-level entry is not a directory"}
	}
	return root, nil
}

// entryTarget validates an archive entry name and returns its destination path
// and its top-level component.
func entryTarget(dest, name string) (target, top string, err error) {
	clean := path.Clean(strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./"))
	if clean == "." || clean == "" {
		return "", "", nil
	}
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", &ExtractionError{Reason: fmt.Sprintf("entry %q escapes destination", name)}
	}

	target = filepath.Join(dest, filepath.FromSlash(clean))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", "", &ExtractionError{Reason: fmt.Sprintf("entry %q escapes destination", name)}
	}
	top, _, _ = strings.Cut(clean, "/")
	return target, top, nil
}

func extractZip(archivePath, dest string) (map[string]bool, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	tops := make(map[string]bool)
	for _, f := range r.File {
		target, top, err := entryTarget(dest, f.Name)
		if err != nil {
			return nil, err
		}
		if target == "" {
			continue
		}
		tops[top] = true

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		err = writeFile(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return nil, err
		}
	}
	return tops, nil
}

func extractTar(r io.Reader, dest string) (map[string]bool, error) {
	tr := tar.NewReader(r)
	tops := make(map[string]bool)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return tops, nil
		}
		if err != nil {
			return nil, err
		}

		// GitHub tarballs start with a pax global header carrying the commit id.
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, top, err := entryTarget(dest, hdr.Name)
		if err != nil {
			return nil, err
		}
		if target == "" {
			continue
		}
		tops[top] = true

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return nil, err
			}
		default:
			// Links and devices are skipped.
		}
	}
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(r, maxEntryBytes)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
