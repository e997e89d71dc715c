// Copyright © 2024 The Gide authors

package gidetest

import (
	"bytes"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
)

// Logger is an io.Writer that forwards complete lines to t.Log.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Logger)(nil)

func NewLogger(t testing.TB) *Logger {
	return &Logger{
		t: t,
	}
}

func (l *Logger) Write(b []byte) (int, error) {
	l.buf = append(l.buf, b...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			return len(b), nil
		}
		l.t.Log(string(l.buf[:i])) // slice does not include \n
		l.buf = l.buf[i+1:]
	}
}

func (l *Logger) Flush() {
	if len(l.buf) == 0 {
		return
	}
	l.t.Log(string(l.buf))
	l.buf = nil
}

// CaptureLogs routes logrus output to the test log at debug level for the
// duration of the test.
func CaptureLogs(t testing.TB) {
	l := NewLogger(t)
	out, level := log.StandardLogger().Out, log.GetLevel()
	log.SetOutput(l)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		l.Flush()
		log.SetOutput(out)
		log.SetLevel(level)
	})
}
