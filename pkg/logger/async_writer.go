package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// AsyncWriter decouples log producers from a slow sink: writes go onto a
// bounded channel drained by one background goroutine, and a full channel
// drops the line instead of blocking the caller.
type AsyncWriter struct {
	sink    io.Writer
	lines   chan []byte
	done    chan struct{}
	dropped atomic.Uint64
}

// NewAsyncWriter starts the drain goroutine for the given sink. A nil sink
// falls back to stdout.
func NewAsyncWriter(sink io.Writer, bufSize int) *AsyncWriter {
	if sink == nil {
		sink = os.Stdout
	}
	aw := &AsyncWriter{
		sink:  sink,
		lines: make(chan []byte, bufSize),
		done:  make(chan struct{}),
	}
	go aw.drain()
	return aw
}

// Write implements io.Writer. It never blocks and never reports an error;
// overflow is counted and surfaced on Close.
func (a *AsyncWriter) Write(p []byte) (int, error) {
	// zerolog reuses its buffer after Write returns, so the line is copied
	// before crossing the channel.
	line := make([]byte, len(p))
	copy(line, p)

	select {
	case a.lines <- line:
	default:
		a.dropped.Add(1)
	}
	return len(p), nil
}

func (a *AsyncWriter) drain() {
	defer close(a.done)
	for line := range a.lines {
		_, _ = a.sink.Write(line)
	}
}

// Close flushes the remaining lines, stops the drain goroutine, and reports
// how many lines the overflow policy discarded.
func (a *AsyncWriter) Close() error {
	close(a.lines)
	<-a.done

	if dropped := a.dropped.Load(); dropped > 0 {
		fmt.Fprintf(a.sink, "AsyncWriter: dropped %d messages due to buffer overflow\n", dropped)
	}
	return nil
}
