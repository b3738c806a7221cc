package tracer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		wantNoop bool
	}{
		{name: "disabled", cfg: Config{}, wantNoop: true},
		{name: "noop exporter", cfg: Config{Enabled: true, Exporter: "noop"}, wantNoop: true},
		{name: "empty exporter", cfg: Config{Enabled: true}, wantNoop: true},
		{name: "stdout exporter", cfg: Config{Enabled: true, Exporter: "stdout", Writer: &bytes.Buffer{}}},
		{name: "unsupported exporter", cfg: Config{Enabled: true, Exporter: "jaeger"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer shutdown(context.Background())

			_, isNoop := otel.GetTracerProvider().(noop.TracerProvider)
			assert.Equal(t, tt.wantNoop, isNoop)
		})
	}
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Config{Enabled: true, Exporter: "stdout", Writer: &buf})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "message.send", attribute.String("platform", "KOOK"))
	RecordError(span, errors.New("rejected"))
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "message.send")
	assert.Contains(t, buf.String(), "KOOK")

	otel.SetTracerProvider(noop.NewTracerProvider())
}

func TestHelpersOnNoopSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())
	ctx, span := StartSpan(context.Background(), "test-span")
	assert.NotNil(t, ctx)
	SetOK(span)
	RecordError(span, errors.New("test error"))
	span.End()
}
