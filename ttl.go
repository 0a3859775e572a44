// Package ttl is an in-process telemetry ingestion core: wait-free hot-path
// recording into a sharded double-buffer, and a background collector that
// periodically drains, aggregates, and publishes to a pluggable Sink.
package ttl

import (
	"fmt"
	"strings"
	"sync"
)

// SinkFactory constructs a Sink from the path portion of a "scheme://path"
// URI (everything after "://"). Concrete sinks beyond the three built into
// this package (file, stdout, discard) register a factory from their own
// package's init, matching the database/sql driver-registration idiom:
// importing a sink package for its side effect (commonly a blank import)
// is what makes its scheme available to Init.
type SinkFactory func(path string) (Sink, error)

var (
	factoryMu sync.Mutex
	factories = map[string]SinkFactory{}
)

// RegisterSinkFactory makes scheme available to Init/InitWithConfig. It
// panics on a duplicate registration, matching database/sql.Register's
// contract for driver name collisions.
func RegisterSinkFactory(scheme string, factory SinkFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factories[scheme]; exists {
		panic(fmt.Sprintf("ttl: sink factory already registered for scheme %q", scheme))
	}
	factories[scheme] = factory
}

func openSink(uri string) (Sink, error) {
	scheme, path, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("ttl: invalid sink uri %q: missing \"://\"", uri)
	}

	switch scheme {
	case "discard":
		return discardSink{}, nil
	case "stdout":
		return newStdoutSink(), nil
	case "file":
		return newFileSink(path)
	}

	factoryMu.Lock()
	factory, ok := factories[scheme]
	factoryMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("ttl: unsupported sink scheme %q", scheme)
	}
	return factory(path)
}

// InitWithSink starts the runtime against a caller-constructed Sink
// instead of one built from a URI — the entry point for sinks that need
// construction-time options a bare path string can't express (e.g.
// sinks.File's rotation policy, sinks.Archive's GCS client options).
func InitWithSink(sink Sink, cfg Config) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRuntime != nil {
		return ErrAlreadyRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r := newRuntime(cfg, sink)
	r.start()
	defaultRuntime = r
	return nil
}
