package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the expected size in bytes, or -1 when unknown. A
	// later Update call may fill it in once the server declares it.
	TotalSize int64

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to refresh the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// SourceURL is the URL being downloaded (for display).
	SourceURL string

	// InitialOffset is how many bytes were already on disk when the
	// transfer started (resume).
	InitialOffset int64
}

// Reporter outputs human-readable progress information. Update is safe to
// call from the download loop while the refresh goroutine prints.
type Reporter struct {
	opts Options

	done  atomic.Int64
	total atomic.Int64

	mu         sync.Mutex
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
	stopCh     chan struct{}
	stopped    bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	r := &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
	r.total.Store(opts.TotalSize)
	r.done.Store(opts.InitialOffset)
	return r
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime
	r.lastBytes = r.opts.InitialOffset

	fmt.Fprintf(r.opts.Output, "[wget-go] Downloading: %s\n", r.opts.SourceURL)
	if r.opts.InitialOffset > 0 {
		fmt.Fprintf(r.opts.Output, "[wget-go] Resuming at %s\n", formatBytes(r.opts.InitialOffset))
	}

	go r.updateLoop()
}

// Stop stops the reporter and prints the final status line.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// Update records the current progress. Matches the downloader's progress
// callback shape; total is -1 while unknown.
func (r *Reporter) Update(done, total int64) {
	r.done.Store(done)
	r.total.Store(total)
}

// updateLoop periodically refreshes the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) printProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	done := r.done.Load()
	total := r.total.Load()

	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(done-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = done

	if total <= 0 {
		fmt.Fprintf(r.opts.Output, "\r[wget-go] Progress: %s | Speed: %s/s    ",
			formatBytes(done),
			formatBytes(int64(speed)),
		)
		return
	}

	percent := float64(done) / float64(total) * 100
	eta := "calculating..."
	if speed > 0 {
		etaSeconds := float64(total-done) / speed
		eta = formatDuration(time.Duration(etaSeconds * float64(time.Second)))
	}

	fmt.Fprintf(r.opts.Output, "\r[wget-go] Progress: %.1f%% | %s / %s | Speed: %s/s | ETA: %s    ",
		percent,
		formatBytes(done),
		formatBytes(total),
		formatBytes(int64(speed)),
		eta,
	)
}

func (r *Reporter) printFinalStatus() {
	done := r.done.Load()
	duration := time.Since(r.startTime)
	transferred := done - r.opts.InitialOffset
	avgSpeed := float64(transferred) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[wget-go] Downloaded %s in %s (%s/s)    \n",
		formatBytes(done),
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// ParseBytes parses a human-readable byte string (e.g., "256KB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
