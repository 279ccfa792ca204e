package iomerge

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// OpenTraceFile creates a line-oriented trace sink at path. Paths ending
// in ".gz" or ".lz4" are compressed transparently. Pair it with
// WriterTracer:
//
//	sink, err := iomerge.OpenTraceFile("merge-trace.gz")
//	...
//	opt, err := iomerge.New(depth, iomerge.WithTracer(iomerge.WriterTracer(sink)))
//
// Close flushes the codec before closing the file.
func OpenTraceFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		return &codecFile{codec: gzip.NewWriter(f), file: f}, nil
	case strings.HasSuffix(path, ".lz4"):
		return &codecFile{codec: lz4.NewWriter(f), file: f}, nil
	default:
		return f, nil
	}
}

type codecFile struct {
	codec io.WriteCloser
	file  *os.File
}

func (cf *codecFile) Write(p []byte) (int, error) {
	return cf.codec.Write(p)
}

func (cf *codecFile) Close() error {
	if err := cf.codec.Close(); err != nil {
		cf.file.Close()
		return err
	}
	return cf.file.Close()
}
