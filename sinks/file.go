// Package sinks provides Sink implementations beyond the three
// (file/stdout/discard) built into the core package: a rotating file
// sink backed by lethe, and a GCS archival sink. Both implement
// ttl.Sink; neither is imported by the ttl package itself, so importing
// sinks never creates a dependency cycle. Archive's init registers the
// "gcs" URI scheme; File has no fixed construction-time path policy to
// encode as a bare URI, so it is used through ttl.InitWithSink.
package sinks

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/agilira/lethe"

	"github.com/neehar-mavuduru/ttl"
)

// File is a rotating-file Sink: size/age-based rotation, optional
// compression and retention, provided by lethe.Logger, in place of the
// single ever-growing file the core's built-in "file://" sink writes.
type File struct {
	mu     sync.Mutex
	logger *lethe.Logger
	clock  *timecache.TimeCache
}

// FileOptions configures rotation policy for a File sink.
type FileOptions struct {
	Path       string
	MaxSize    string // e.g. "100MB"; empty disables size rotation
	MaxAge     string // e.g. "24h"; empty disables age rotation
	MaxBackups int
	Compress   bool
}

// NewFile constructs a rotating file sink. Errors returned are
// construction-time only; the sink treats write failures the same way
// the core's built-in file sink does, as a sink-local, silently reported
// condition (spec.md §7).
func NewFile(opts FileOptions) (*File, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("sinks: File requires a Path")
	}
	return &File{
		logger: &lethe.Logger{
			Filename:   opts.Path,
			MaxSizeStr: opts.MaxSize,
			MaxAgeStr:  opts.MaxAge,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
		},
		clock: timecache.NewWithResolution(time.Millisecond),
	}, nil
}

// Publish encodes event as one NDJSON line and writes it through the
// rotating logger.
func (f *File) Publish(event ttl.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, err := encodeNDJSON(event)
	if err != nil {
		fmt.Printf("sinks: File encode failed: %v\n", err)
		return
	}
	if _, err := f.logger.Write(line); err != nil {
		fmt.Printf("sinks: File write failed at %s: %v\n", f.clock.CachedTime().Format(time.RFC3339), err)
	}
}

// Close flushes and releases the underlying rotating logger.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock.Stop()
	return f.logger.Close()
}
