package iomerge

import (
	"fmt"
	"io"
	"log/slog"
)

// Tracer receives one formatted line per traced record. Implementations
// are injected with WithTracer; a nil tracer disables tracing entirely.
type Tracer interface {
	Tracef(format string, args ...any)
}

// WriterTracer returns a Tracer that prints one line per call to w.
func WriterTracer(w io.Writer) Tracer {
	return &writerTracer{w: w}
}

type writerTracer struct {
	w io.Writer
}

func (t *writerTracer) Tracef(format string, args ...any) {
	fmt.Fprintf(t.w, format+"\n", args...)
}

// SlogTracer returns a Tracer that emits every line through l at debug
// level.
func SlogTracer(l *slog.Logger) Tracer {
	return &slogTracer{l: l}
}

type slogTracer struct {
	l *slog.Logger
}

func (t *slogTracer) Tracef(format string, args ...any) {
	t.l.Debug(fmt.Sprintf(format, args...))
}

func (o *Optimizer) traceIOCB(cb *IOCB, prefix string) {
	if cb.Op.IsVector() {
		o.tracer.Tracef("%soff: %08x, type: %s, segments: %d, merged: %v",
			prefix, cb.Offset, cb.Op, len(cb.Vec), cb.shadow != nil)
		for _, el := range cb.Vec {
			o.tracer.Tracef("%s\tnbytes: %04x", prefix, len(el))
		}
		return
	}
	o.tracer.Tracef("%soff: %08x, nbytes: %04x, type: %s, merged: %v",
		prefix, cb.Offset, cb.Nbytes, cb.Op, cb.shadow != nil)
}

// traceMerged dumps a compacted queue, group members indented under their
// heads in submission order.
func (o *Optimizer) traceMerged(queue []*IOCB) {
	if o.tracer == nil {
		return
	}
	o.tracer.Tracef("merged queue: %d blocks", len(queue))
	n := 0
	for _, cb := range queue {
		o.traceIOCB(cb, fmt.Sprintf("%d: ", n))
		n++
		if cb.shadow == nil {
			continue
		}
		for s := cb.shadow.next; s != nil; s = s.next {
			o.traceIOCB(&s.orig, fmt.Sprintf("  %d: ", n))
			n++
		}
	}
}

func (o *Optimizer) traceEvents(events []Event) {
	if o.tracer == nil {
		return
	}
	o.tracer.Tracef("event queue: %d events", len(events))
	for i := range events {
		o.tracer.Tracef("%d: res: %d", i, events[i].Res)
		o.traceIOCB(events[i].CB, "\t")
	}
}
