package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name:    "host and port",
			opts:    Options{ServiceName: "test-service", Endpoint: "localhost:4318"},
			wantErr: false,
		},
		{
			name:    "http url with version",
			opts:    Options{ServiceName: "test-service", ServiceVersion: "1.0.0", Endpoint: "http://localhost:4318"},
			wantErr: false,
		},
		{
			name:    "default service name",
			opts:    Options{Endpoint: "localhost:4318"},
			wantErr: false,
		},
		{
			name:    "missing endpoint",
			opts:    Options{ServiceName: "test-service"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tp, err := InitTracer(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("InitTracer() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tp != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := Shutdown(shutdownCtx, tp); err != nil {
					t.Errorf("Shutdown() error = %v", err)
				}
			}
		})
	}
}

func TestExporterOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint string
		want     int
	}{
		{"collector:4318", 2},
		{"http://collector:4318", 2},
		{"https://collector.example.com", 1},
	}
	for _, tt := range tests {
		if got := len(exporterOptions(tt.endpoint)); got != tt.want {
			t.Errorf("exporterOptions(%q) returned %d options, want %d", tt.endpoint, got, tt.want)
		}
	}
}

func TestShutdown(t *testing.T) {
	t.Run("shutdown with nil provider", func(t *testing.T) {
		if err := Shutdown(context.Background(), nil); err != nil {
			t.Errorf("Shutdown() with nil provider should not error, got: %v", err)
		}
	})
}
