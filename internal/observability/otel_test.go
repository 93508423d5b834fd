package observability

import (
	"context"
	"testing"
)

func TestHeadersParsing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, broken ,=nokey,tenant=mcat")
	h := headers()
	if len(h) != 2 || h["x-api-key"] != "abc" || h["tenant"] != "mcat" {
		t.Fatalf("unexpected headers: %v", h)
	}
}

func TestSampleRatio(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "-3": 0, "7": 1, "nope": 1}
	for raw, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", raw)
		if got := sampleRatio(); got != want {
			t.Fatalf("sampleRatio(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestServiceName(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	if got := ServiceName(OtelConfig{}); got != DefaultServiceName {
		t.Fatalf("default service name = %q", got)
	}
	if got := ServiceName(OtelConfig{ServiceName: "seed"}); got != "seed" {
		t.Fatalf("explicit service name = %q", got)
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatalf("expected a shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
