package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewWithWriterAddsService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "info", ServiceName: "flightscanner"}, &buf)
	l.Info().Str(FieldOrigin, "DUB").Msg("hello")
	l.Debug().Msg("filtered")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "flightscanner", line[FieldService])
	assert.Equal(t, "DUB", line[FieldOrigin])
	assert.Equal(t, "hello", line["message"])
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(Config{}, &buf).With().Str(FieldSearchID, "abc").Logger()
	ctx := WithLogger(context.Background(), l)

	got := Ctx(ctx)
	got.Info().Msg("scoped")
	assert.Contains(t, buf.String(), `"search_id":"abc"`)

	assert.Equal(t, L(), Ctx(context.Background()))
}
