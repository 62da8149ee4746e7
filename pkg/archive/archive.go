// Package archive bundles the files of a split run into a single archive.
// Entries are stored under their base filename only, mirroring the layout the
// desktop shell produces: a flat archive of 1.pdf, 2.pdf, ...
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// TickFunc is called after each file is archived, with the number of files
// done so far and the total found. Returning true stops archiving early; the
// entries already written remain in the archive.
type TickFunc func(done, total int) (stop bool)

// OutputPath returns the conventional destination for an archive of
// outputDir: a file in the parent of outputDir named after the input file's
// base name up to the first dot, with ext appended (e.g. ".zip").
func OutputPath(inputPath, outputDir, ext string) string {
	base := filepath.Base(inputPath)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(outputDir), base+ext)
}

// collectFiles gathers every regular file under root, recursively.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}
	return files, nil
}

// Zip writes a zip archive to w containing every file found under dir.
// Entries are flattened to their base filenames, so two same-named files in
// different subdirectories collide and the later one wins. tick may be nil.
func Zip(dir string, w io.Writer, tick TickFunc) error {
	files, err := collectFiles(dir)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for i, path := range files {
		if err := addZipEntry(zw, path); err != nil {
			zw.Close()
			return err
		}
		if tick != nil && tick(i+1, len(files)) {
			break
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip writer: %w", err)
	}
	return nil
}

// addZipEntry copies one file into the zip under its base name.
func addZipEntry(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create entry %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("write entry %s: %w", filepath.Base(path), err)
	}
	return nil
}

// TarLZ4 writes an lz4-compressed tar archive to w with the same flattening
// and early-stop contract as Zip. tick may be nil.
func TarLZ4(dir string, w io.Writer, tick TickFunc) error {
	files, err := collectFiles(dir)
	if err != nil {
		return err
	}

	zw := lz4.NewWriter(w)
	tw := tar.NewWriter(zw)
	for i, path := range files {
		if err := addTarEntry(tw, path); err != nil {
			tw.Close()
			zw.Close()
			return err
		}
		if tick != nil && tick(i+1, len(files)) {
			break
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close lz4 writer: %w", err)
	}
	return nil
}

// addTarEntry copies one file into the tar stream under its base name.
func addTarEntry(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("header %s: %w", path, err)
	}
	hdr.Name = filepath.Base(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write entry %s: %w", hdr.Name, err)
	}
	return nil
}
