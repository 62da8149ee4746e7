// Package progress renders terminal progress for the split and archive
// stages. Producers report a percentage (and optionally processed bytes); a
// background ticker prints the value whenever it changes.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Global variables for progress tracking; one operation is rendered at a time.
var (
	currentPercent      atomic.Int64
	totalBytesProcessed atomic.Uint64
	label               string
	done                chan struct{}
	trackerRunning      bool
	trackerMutex        sync.Mutex
	isTestMode          bool
)

// Init starts rendering progress for the named operation. Calling Init while
// a tracker is already running is a no-op.
func Init(name string) {
	trackerMutex.Lock()
	defer trackerMutex.Unlock()

	if trackerRunning {
		return
	}

	currentPercent.Store(0)
	totalBytesProcessed.Store(0)
	label = name
	done = make(chan struct{})
	trackerRunning = true
	go logger()
}

// SetTestMode enables or disables test mode. In test mode the periodic
// output is suppressed to avoid cluttering test logs.
func SetTestMode(enabled bool) {
	trackerMutex.Lock()
	defer trackerMutex.Unlock()
	isTestMode = enabled
}

// Stop stops the tracker and prints the completion summary.
func Stop() {
	trackerMutex.Lock()
	defer trackerMutex.Unlock()

	if trackerRunning {
		close(done)
		trackerRunning = false
	}
}

// Set records the current percentage. Values above 100 are rendered exactly
// as reported; the splitter's final chunk may legitimately exceed 100.
func Set(percent int) {
	currentPercent.Store(int64(percent))
}

// AddBytes adds processed bytes to the counter shown in the final summary.
func AddBytes(n uint64) {
	if n > 0 {
		totalBytesProcessed.Add(n)
	}
}

// formatSize returns a human-readable size string.
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// logger prints the current percentage whenever it changes, four times a
// second, and a summary line when the tracker stops.
func logger() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	startTime := time.Now()
	prev := int64(-1)

	for {
		select {
		case <-ticker.C:
			if isTestMode {
				continue
			}
			p := currentPercent.Load()
			if p != prev {
				fmt.Printf("\r%s: %d%%", label, p)
				os.Stdout.Sync()
				prev = p
			}
		case <-done:
			if !isTestMode {
				elapsed := time.Since(startTime).Seconds()
				if bytes := totalBytesProcessed.Load(); bytes > 0 {
					fmt.Printf("\r%s: done, %s written in %.1f seconds\n", label, formatSize(bytes), elapsed)
				} else {
					fmt.Printf("\r%s: done in %.1f seconds\n", label, elapsed)
				}
			}
			return
		}
	}
}

// Writer wraps an io.Writer and counts bytes written for the completion
// summary.
type Writer struct {
	W io.Writer
}

// Write implements io.Writer and tracks bytes written
func (pw *Writer) Write(p []byte) (n int, err error) {
	n, err = pw.W.Write(p)
	if err == nil && n > 0 {
		AddBytes(uint64(n))
	}
	return
}
