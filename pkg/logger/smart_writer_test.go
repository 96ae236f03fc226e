package logger_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

type captureWriter struct {
	buf bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func TestSmartWriterImmediateFlushOnError(t *testing.T) {
	out := &captureWriter{}
	sw := logger.NewSmartWriter(out, 10*time.Second)

	infoLog := []byte(`{"level":"info","message":"phase opened"}` + "\n")
	n, err := sw.Write(infoLog)
	assert.NoError(t, err)
	assert.Equal(t, len(infoLog), n)
	assert.Equal(t, 0, out.buf.Len(), "info lines should stay buffered")

	errorLog := []byte(`{"level":"error","message":"tally failed"}` + "\n")
	n, err = sw.Write(errorLog)
	assert.NoError(t, err)
	assert.Equal(t, len(errorLog), n)

	assert.Equal(t, string(infoLog)+string(errorLog), out.buf.String(),
		"an error line should flush everything buffered before it")
}

func TestSmartWriterAutoFlush(t *testing.T) {
	out := &captureWriter{}
	sw := logger.NewSmartWriter(out, 100*time.Millisecond)

	infoLog := []byte(`{"level":"info","message":"phase opened"}` + "\n")
	_, err := sw.Write(infoLog)
	assert.NoError(t, err)
	assert.Equal(t, 0, out.buf.Len())

	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, string(infoLog), out.buf.String())
}

func TestSmartWriterExplicitSync(t *testing.T) {
	out := &captureWriter{}
	sw := logger.NewSmartWriter(out, 10*time.Second)

	infoLog := []byte(`{"level":"info","message":"phase opened"}` + "\n")
	_, err := sw.Write(infoLog)
	assert.NoError(t, err)
	assert.Equal(t, 0, out.buf.Len())

	assert.NoError(t, sw.Sync())
	assert.Equal(t, string(infoLog), out.buf.String())
}
