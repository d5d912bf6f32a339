package source

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ArchiveExtensions are the bundled-source archive formats Extract understands, in lookup order
var ArchiveExtensions = []string{".tar.xz", ".txz", ".tar.zst", ".tar.gz", ".tgz", ".tar"}

// FindArchive looks in dir for <name>-<version><ext> and then <name><ext>.
// It returns "" when no archive exists.
func FindArchive(dir, name, version string) string {
	var bases []string
	if version != "" {
		bases = append(bases, name+"-"+version)
	}
	bases = append(bases, name)

	for _, base := range bases {
		for _, ext := range ArchiveExtensions {
			p := filepath.Join(dir, base+ext)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// Extract unpacks a (possibly compressed) tar archive into dest, dropping the first
// strip path components of every entry. It returns the number of files written.
func Extract(archivePath, dest string, strip int) (int, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	r, closeFn, err := decompressor(archivePath, f)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}

	return extractTar(tar.NewReader(r), dest, strip)
}

func decompressor(name string, r io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch {
	case strings.HasSuffix(name, ".xz") || strings.HasSuffix(name, ".txz"):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("creating xz reader: %w", err)
		}
		return xzReader, noop, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".tgz"):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzReader, func() { gzReader.Close() }, nil
	case strings.HasSuffix(name, ".tar"):
		return r, noop, nil
	}
	return nil, noop, fmt.Errorf("unsupported archive format: %s", filepath.Base(name))
}

func extractTar(tr *tar.Reader, dest string, strip int) (int, error) {
	files := 0
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, fmt.Errorf("reading tar: %w", err)
		}

		rel := stripComponents(header.Name, strip)
		if rel == "" {
			continue
		}
		target := filepath.Join(dest, rel)
		if !within(dest, target) {
			return files, fmt.Errorf("illegal path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, fmt.Errorf("creating directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return files, fmt.Errorf("creating parent directory: %w", err)
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode)&0777|0600)
			if err != nil {
				return files, fmt.Errorf("creating file: %w", err)
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return files, fmt.Errorf("writing file: %w", err)
			}
			outFile.Close()
			files++
		case tar.TypeSymlink:
			linkTarget := filepath.Join(filepath.Dir(target), header.Linkname)
			if filepath.IsAbs(header.Linkname) || !within(dest, linkTarget) {
				return files, fmt.Errorf("illegal symlink in archive: %s -> %s", header.Name, header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return files, fmt.Errorf("creating parent directory: %w", err)
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return files, fmt.Errorf("creating symlink: %w", err)
			}
		}
	}
	return files, nil
}

func stripComponents(name string, n int) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) <= n {
		return ""
	}
	return filepath.FromSlash(strings.Join(parts[n:], "/"))
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
