// Command pdfmanager splits a PDF into fixed-size page chunks and optionally
// bundles the results into a single archive.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmoruda/PDFManager/pkg/archive"
	"github.com/Carmoruda/PDFManager/pkg/progress"
	"github.com/Carmoruda/PDFManager/pkg/splitter"
)

func main() {
	pages := flag.Int("pages", 1, "number of pages per output PDF")
	compress := flag.Bool("zip", false, "bundle the output PDFs into a single archive")
	format := flag.String("format", "zip", "archive format: zip or tar.lz4")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 2 {
		printUsage()
		os.Exit(1)
	}

	s := splitter.New()
	s.InputPath = flag.Arg(0)
	s.OutputDir = flag.Arg(1)
	s.PagesPerChunk = *pages
	s.CompressZip = *compress
	s.Logger = newLogger(*logLevel)

	if err := checkInputs(s); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if err := runSplit(s); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if s.CompressZip {
		if err := runArchive(s, *format); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	}

	fmt.Println("PDFs have been split successfully!")
}

// printUsage prints the command-line usage information
func printUsage() {
	fmt.Fprintf(os.Stderr, `pdfmanager — split a PDF into fixed-size page chunks

usage:
  pdfmanager [flags] input.pdf output_dir

flags:
  -pages N          pages per output PDF (default 1)
  -zip              bundle the output PDFs into a single archive
  -format FORMAT    archive format: zip or tar.lz4 (default zip)
  -log-level LEVEL  debug, info, warn or error (default info)

Output files are written as output_dir/1.pdf, 2.pdf, ... in page order.
The optional archive is placed next to output_dir, named after the input
file. Press Ctrl-C during a run to stop at the next chunk boundary; chunks
already written are kept.
`)
}

// newLogger builds the stderr logger for the requested level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// checkInputs mirrors the dialog precedence of the desktop shell: one
// distinct message per violated precondition.
func checkInputs(s *splitter.Splitter) error {
	if s.InputPath == "" {
		return errors.New("no file selected")
	}
	if s.OutputDir == "" {
		return errors.New("no output directory selected")
	}
	if s.PagesPerChunk < 1 {
		return fmt.Errorf("pages per output PDF must be at least 1, got %d", s.PagesPerChunk)
	}
	return s.Preflight()
}

// runSplit executes the split with SIGINT mapped to cooperative cancellation.
func runSplit(s *splitter.Splitter) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		s.Cancel()
	}()

	progress.Init("Splitting PDF")
	defer progress.Stop()
	s.OnProgress = progress.Set

	return s.Split()
}

// runArchive bundles the split output into a single archive placed next to
// the output directory.
func runArchive(s *splitter.Splitter, format string) error {
	var ext string
	switch format {
	case "zip":
		ext = ".zip"
	case "tar.lz4":
		ext = ".tar.lz4"
	default:
		return fmt.Errorf("unknown archive format: %s", format)
	}
	dest := archive.OutputPath(s.InputPath, s.OutputDir, ext)

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", dest, err)
	}
	defer out.Close()

	progress.Init("Compressing files")
	defer progress.Stop()
	tick := func(done, total int) bool {
		progress.Set(done * 100 / total)
		return false
	}

	w := &progress.Writer{W: out}
	if format == "zip" {
		err = archive.Zip(s.OutputDir, w, tick)
	} else {
		err = archive.TarLZ4(s.OutputDir, w, tick)
	}
	if err != nil {
		return fmt.Errorf("archive %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", dest, err)
	}
	return nil
}
