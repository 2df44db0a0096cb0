package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to every writer even if some of them fail,
// unlike io.MultiWriter which stops at the first error.
// Used to write logs to both stdout and the rotated log file.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write returns the sum of bytes written to all writers and
// all write errors combined.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		n += written
		err = multierr.Append(err, werr)
	}
	return n, err
}
