package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/benvon/healthcheck-api/internal/models"
	"github.com/spf13/cobra"
)

var probeHeaders = []string{
	"Access-Control-Allow-Origin",
	"Access-Control-Allow-Credentials",
	"Access-Control-Expose-Headers",
	"Vary",
	"Retry-After",
	"X-Request-ID",
}

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	var baseURL string
	var origin string
	var extended bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe the health endpoint of a running instance",
		Long:  "GET /api/v1/health with an optional Origin header and report status and CORS headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimRight(baseURL, "/") + "/api/v1/health"
			if extended {
				target += "?mode=extended"
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, target, nil)
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}
			if origin != "" {
				req.Header.Set("Origin", origin)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Probing %s\n", target)

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach health endpoint: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			fmt.Fprintf(out, "HTTP status: %d\n", resp.StatusCode)
			var health models.HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("failed to decode health response: %w", err)
			}
			fmt.Fprintf(out, "Health status: %s\n", health.Status)
			for name, result := range health.Checks {
				fmt.Fprintf(out, "  %s: %s\n", name, result)
			}
			for _, h := range probeHeaders {
				if v := resp.Header.Get(h); v != "" {
					fmt.Fprintf(out, "%s: %s\n", h, v)
				}
			}
			if origin != "" && resp.Header.Get("Access-Control-Allow-Origin") == "" {
				fmt.Fprintf(out, "✗ Origin %s is not allowed\n", origin)
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
			}
			fmt.Fprintln(out, "✓ Health endpoint is healthy")
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the running API")
	cmd.Flags().StringVar(&origin, "origin", "", "Origin header to send")
	cmd.Flags().BoolVar(&extended, "extended", false, "Request the extended health check")
	return cmd
}
