package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	msgs   []string
	fields [][]Field
}

func (r *recordingLogger) record(msg string, fields []Field) {
	r.msgs = append(r.msgs, msg)
	r.fields = append(r.fields, fields)
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.record(msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.record(msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...Field)  { r.record(msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.record(msg, fields) }

func TestWithFields(t *testing.T) {
	rec := &recordingLogger{}

	l := WithFields(rec, String("request_id", "abc"))
	l = WithFields(l, Int("attempt", 2))
	l.Info("open", Bool("reused", true))

	require.Len(t, rec.fields, 1)
	assert.Equal(t, []Field{
		String("request_id", "abc"),
		Int("attempt", 2),
		Bool("reused", true),
	}, rec.fields[0])
}

func TestWithFields_NoFieldsReturnsSameLogger(t *testing.T) {
	rec := &recordingLogger{}
	assert.Same(t, Logger(rec), WithFields(rec))
}

func TestZerologAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf))

	z.Info("window opened",
		String("window", "windows_1"),
		Strings("files", []string{"/a", "/b"}),
		Err(errors.New("boom")),
	)

	out := buf.String()
	assert.True(t, strings.Contains(out, `"window":"windows_1"`), out)
	assert.True(t, strings.Contains(out, `"files":["/a","/b"]`), out)
	assert.True(t, strings.Contains(out, `"error":"boom"`), out)
	assert.True(t, strings.Contains(out, `"message":"window opened"`), out)
}

func TestZerologConsole_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologConsole(&buf, zerolog.WarnLevel)

	z.Debug("hidden")
	z.Info("hidden")
	assert.Empty(t, buf.String())

	z.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
