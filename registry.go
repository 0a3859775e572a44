package ttl

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// ErrAlreadyRunning is returned by Init when a runtime is already active.
var ErrAlreadyRunning = errors.New("ttl: runtime already running")

// object is the capture-only capability Counter and Logger both implement.
// It is unexported because spec.md describes user-defined sampling
// strategies, not user-defined telemetry object types; the registry's
// dispatch seam stays internal, matching original_source's
// ITelemetryObject being an implementation detail of bits::ttl rather than
// a public extension point. nowUS is the scheduler's single cached-clock
// read for this tick, not a fresh time.Now() per object.
type object interface {
	capture(sink Sink, nowUS int64)
}

// Stat is a read-only enumeration entry returned by runtime.Snapshot.
type Stat struct {
	Name string
	Kind string // "counter" or "logger"
}

// runtime is the process-wide registry, scheduler, and sink owner. The
// package-level default instance is created lazily by Init; tests may
// construct independent instances via newRuntime for isolation.
type runtime struct {
	cfg   Config
	sink  Sink
	clock *timecache.TimeCache

	objects sync.Map // name (string) -> object
	kinds   sync.Map // name (string) -> "counter"|"logger"

	stop    chan struct{}
	stopped chan struct{}
}

func newRuntime(cfg Config, sink Sink) *runtime {
	return &runtime{
		cfg:     cfg,
		sink:    sink,
		clock:   timecache.NewWithResolution(time.Millisecond),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// getOrMakeCounter is the deduplicating factory for Counter: LoadOrStore
// guarantees exactly one Counter per name survives, matching the teacher's
// LoggerManager.getOrCreateLogger sync.Map pattern — the Go idiom for the
// shared/exclusive-lock double-checked-construct spec.md describes.
func (r *runtime) getOrMakeCounter(name string, withHistogram bool) *Counter {
	if v, ok := r.objects.Load(name); ok {
		return v.(*Counter)
	}
	c := newCounter(name, r.cfg, withHistogram)
	actual, loaded := r.objects.LoadOrStore(name, c)
	if loaded {
		return actual.(*Counter)
	}
	r.kinds.Store(name, "counter")
	return c
}

func (r *runtime) getOrMakeLogger(name string) *Logger {
	if v, ok := r.objects.Load(name); ok {
		return v.(*Logger)
	}
	l := newLogger(name, r.clock)
	actual, loaded := r.objects.LoadOrStore(name, l)
	if loaded {
		return actual.(*Logger)
	}
	r.kinds.Store(name, "logger")
	return l
}

// snapshot returns a stable slice of the currently registered objects,
// independent of subsequent registry mutations.
func (r *runtime) snapshot() []object {
	var out []object
	r.objects.Range(func(_, v any) bool {
		out = append(out, v.(object))
		return true
	})
	return out
}

// Snapshot enumerates registered telemetry objects by name and kind, for
// diagnostics and tests.
func (r *runtime) Snapshot() []Stat {
	var out []Stat
	r.objects.Range(func(k, _ any) bool {
		name := k.(string)
		kind, _ := r.kinds.Load(name)
		out = append(out, Stat{Name: name, Kind: kind.(string)})
		return true
	})
	return out
}

// captureAll reads the cached clock once for this tick and runs
// capture(sink, nowUS) on every object in a stable snapshot, so a single
// scheduler tick stamps every object's Sample/Event with the same instant
// instead of one time.Now() syscall per object.
func (r *runtime) captureAll() {
	nowUS := r.clock.CachedTime().UnixMicro()
	for _, o := range r.snapshot() {
		o.capture(r.sink, nowUS)
	}
}

// run is the scheduler loop: capture, then wait for the flush interval or
// a stop request, whichever comes first. On stop it performs one final
// capture pass before signaling stopped, so the final flush never races a
// flush still in flight.
func (r *runtime) run() {
	defer close(r.stopped)
	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			r.captureAll()
			return
		case <-ticker.C:
			r.captureAll()
		}
	}
}

func (r *runtime) start() {
	go r.run()
}

// shutdown requests the scheduler stop and waits for its final capture
// pass to complete.
func (r *runtime) shutdown() {
	close(r.stop)
	<-r.stopped
	r.clock.Stop()
}

var (
	defaultMu      sync.Mutex
	defaultRuntime *runtime
)

// Init constructs the sink for uri, starts the background scheduler, and
// installs it as the process-wide runtime. It is not idempotent: calling
// it while a runtime is already active fails with ErrAlreadyRunning.
func Init(uri string) error {
	return InitWithConfig(uri, DefaultConfig())
}

// InitWithConfig is Init with an explicit Config.
func InitWithConfig(uri string, cfg Config) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRuntime != nil {
		return ErrAlreadyRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sink, err := openSink(uri)
	if err != nil {
		return fmt.Errorf("ttl: init: %w", err)
	}

	r := newRuntime(cfg, sink)
	r.start()
	defaultRuntime = r
	return nil
}

// Shutdown stops the scheduler (if running), performs its final capture
// pass, and releases the sink. Idempotent: shutdown with no active
// runtime is a no-op.
func Shutdown() {
	defaultMu.Lock()
	r := defaultRuntime
	defaultRuntime = nil
	defaultMu.Unlock()

	if r == nil {
		return
	}
	r.shutdown()
}

// GetCounter returns the process-wide runtime's Counter for name,
// creating it on first lookup. Panics if called before Init — matching
// spec.md's contract that telemetry objects are registry-owned.
func GetCounter(name string) *Counter {
	return currentRuntime().getOrMakeCounter(name, false)
}

// GetCounterWithHistogram is GetCounter with the optional log-scale
// histogram attachment enabled (spec.md §3/§6, supplemented per
// original_source/ttl/measure.hpp).
func GetCounterWithHistogram(name string) *Counter {
	return currentRuntime().getOrMakeCounter(name, true)
}

// GetLogger returns the process-wide runtime's Logger for name, creating
// it on first lookup.
func GetLogger(name string) *Logger {
	return currentRuntime().getOrMakeLogger(name)
}

func currentRuntime() *runtime {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRuntime == nil {
		panic("ttl: no active runtime; call Init first")
	}
	return defaultRuntime
}
