package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/devmojahid/restu-food-sub005/config"
	"go.opentelemetry.io/otel"
)

func TestInitDisabled(t *testing.T) {
	cfg := &config.Config{}
	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := &config.Config{Tracing: config.TracingConfig{Enabled: true, ServiceName: "catalog-test"}}
	shutdown, err := initWithWriter(context.Background(), cfg, &buf)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "regenerate")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "regenerate") {
		t.Errorf("exported output missing span name: %s", buf.String())
	}
}
