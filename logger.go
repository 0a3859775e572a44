package ttl

import (
	"fmt"
	"time"

	"github.com/agilira/go-timecache"

	"github.com/neehar-mavuduru/ttl/internal/mpsc"
)

// Level is a log severity, ordered Trace < Debug < Info < Warn < Error <
// Critical.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Critical
)

// String renders the exact level names spec.md §4.5 requires.
func (l Level) String() string {
	switch l {
	case Trace:
		return "Trace"
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Logger is a named telemetry object backed by an unbounded MPSC queue: log
// operations never block and never drop, unlike Counter's lossy sampler.
type Logger struct {
	name  string
	queue *mpsc.Queue[Event]
	clock *timecache.TimeCache
}

func newLogger(name string, clock *timecache.TimeCache) *Logger {
	return &Logger{name: name, queue: mpsc.New[Event](), clock: clock}
}

// Log renders msg with fmt.Sprintf(format, args...) (format is used verbatim
// when no args are given) and enqueues a "log" Event at the given level. Wait-free except for the queue node
// allocation, the one documented exception to the no-allocation hot-path
// rule. The timestamp comes from the runtime's cached clock rather than a
// time.Now() syscall on every call, since Log is the producer hot path.
func (l *Logger) Log(level Level, format string, args ...any) {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	l.queue.Push(Event{
		Type:      "log",
		Name:      l.name,
		Timestamp: time.Duration(l.clock.CachedTime().UnixNano()),
		Fields: []Field{
			{Key: "level", Value: StringValue(level.String())},
			{Key: "message", Value: StringValue(message)},
		},
	})
}

func (l *Logger) Trace(format string, args ...any)    { l.Log(Trace, format, args...) }
func (l *Logger) Debug(format string, args ...any)    { l.Log(Debug, format, args...) }
func (l *Logger) Info(format string, args ...any)     { l.Log(Info, format, args...) }
func (l *Logger) Warn(format string, args ...any)     { l.Log(Warn, format, args...) }
func (l *Logger) Error(format string, args ...any)    { l.Log(Error, format, args...) }
func (l *Logger) Critical(format string, args ...any) { l.Log(Critical, format, args...) }

// capture dequeues until empty, publishing each Event in FIFO order. nowUS
// is unused: every Event already carries its own enqueue-time timestamp
// from Log, unlike Counter where the Sample is only timestamped at
// capture time.
func (l *Logger) capture(sink Sink, _ int64) {
	for {
		event, ok := l.queue.TryTake()
		if !ok {
			return
		}
		sink.Publish(event)
	}
}
