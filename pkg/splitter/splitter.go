// Package splitter splits a PDF document into fixed-size page chunks, one
// output file per chunk, with synchronous progress reporting and cooperative
// cancellation polled at chunk boundaries.
package splitter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ProgressFunc receives the integer percentage reported after each chunk is
// written. Delivery is synchronous on the goroutine running Split, so a
// handler may call Cancel to stop the run at the next chunk boundary.
type ProgressFunc func(percent int)

// Splitter holds the configuration and state of a split run. One instance is
// long-lived and mutated in place between runs. It is not safe for concurrent
// mutation and at most one Split call may be in flight at a time; Cancel is
// the only method safe to call from another goroutine.
type Splitter struct {
	InputPath     string // path of the PDF to split
	OutputDir     string // existing directory receiving the <n>.pdf files
	PagesPerChunk int    // pages per output file, at least 1
	CompressZip   bool   // advisory flag, read by the shell after Split

	// ChunkCount is the 1-based number of the next chunk to write. After a
	// run it is one past the number of files written; the shell reads it to
	// size the archive progress range.
	ChunkCount int

	// OnProgress, when non-nil, is invoked once per chunk with
	// (startPage+PagesPerChunk)*100/totalPages. The value exceeds 100 on a
	// short final chunk and is deliberately not clamped.
	OnProgress ProgressFunc

	// Logger receives debug records for chunk writes and cancellation.
	// Nil falls back to slog.Default.
	Logger *slog.Logger

	cancelRequested atomic.Bool
}

// New returns a Splitter with the default configuration.
func New() *Splitter {
	s := &Splitter{}
	s.Reset()
	return s
}

// Reset restores the default configuration: empty paths, one page per chunk,
// no compression, zero chunks written, cancellation cleared.
func (s *Splitter) Reset() {
	s.InputPath = ""
	s.OutputDir = ""
	s.PagesPerChunk = 1
	s.CompressZip = false
	s.ChunkCount = 0
	s.cancelRequested.Store(false)
}

// Cancel requests that a running Split stop at the next chunk boundary. The
// chunk being written when Cancel arrives is still completed. Idempotent;
// has no effect on later runs because Split clears the flag on entry.
func (s *Splitter) Cancel() {
	s.cancelRequested.Store(true)
}

// CheckValid reports whether the file at path opens and parses as a PDF.
// It never fails: unreadable or malformed files simply report false.
func (s *Splitter) CheckValid(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if _, err := api.ReadContext(f, model.NewDefaultConfiguration()); err != nil {
		return false
	}
	return true
}

// Preflight runs the checks a shell performs before Split, in precedence
// order: not a PDF, then missing input file, then missing output directory.
// Returns nil when Split may proceed.
func (s *Splitter) Preflight() error {
	if !s.CheckValid(s.InputPath) {
		return fmt.Errorf("%w: %s", ErrNotAPDF, s.InputPath)
	}
	if info, err := os.Stat(s.InputPath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, s.InputPath)
	}
	if info, err := os.Stat(s.OutputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, s.OutputDir)
	}
	return nil
}

// Split reads InputPath and writes its pages in windows of PagesPerChunk to
// OutputDir/1.pdf, 2.pdf, ... in original page order. A document with zero
// pages produces no files and no progress events. Re-running Split restarts
// numbering at 1 and overwrites same-named files from a previous run without
// warning; chunks already written are never rolled back on error or
// cancellation.
func (s *Splitter) Split() error {
	if s.PagesPerChunk < 1 {
		return fmt.Errorf("pages per chunk must be at least 1, got %d", s.PagesPerChunk)
	}

	// A cancellation requested between runs must not stop this one.
	s.cancelRequested.Store(false)

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(s.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, s.InputPath)
		}
		return fmt.Errorf("%w: open %s: %v", ErrIOFailure, s.InputPath, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedDocument, s.InputPath, err)
	}

	totalPages := ctx.PageCount
	s.ChunkCount = 1
	if totalPages == 0 {
		return nil
	}

	for startPage := 0; startPage < totalPages; startPage += s.PagesPerChunk {
		endPage := min(startPage+s.PagesPerChunk, totalPages)

		// pdfcpu page numbers are 1-based.
		pages := make([]int, 0, endPage-startPage)
		for p := startPage + 1; p <= endPage; p++ {
			pages = append(pages, p)
		}

		chunkCtx, err := pdfcpu.ExtractPages(ctx, pages, false)
		if err != nil {
			return fmt.Errorf("%w: extract pages %d-%d: %v", ErrMalformedDocument, startPage+1, endPage, err)
		}

		path := filepath.Join(s.OutputDir, strconv.Itoa(s.ChunkCount)+".pdf")
		if err := writeChunk(chunkCtx, path); err != nil {
			return err
		}
		s.ChunkCount++

		percent := (startPage + s.PagesPerChunk) * 100 / totalPages
		logger.Debug("chunk written", "file", path, "pages", len(pages), "percent", percent)
		if s.OnProgress != nil {
			s.OnProgress(percent)
		}

		if s.cancelRequested.Load() {
			logger.Debug("split cancelled", "chunks_written", s.ChunkCount-1)
			break
		}
	}
	return nil
}

// writeChunk serializes an extracted page context to path.
func writeChunk(ctx *model.Context, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIOFailure, path, err)
	}
	if err := api.WriteContext(ctx, out); err != nil {
		out.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIOFailure, path, err)
	}
	return nil
}
