package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/benvon/healthcheck-api/internal/config"
	"github.com/benvon/healthcheck-api/internal/cors"
	"github.com/benvon/healthcheck-api/internal/models"
	"github.com/spf13/cobra"
)

// NewCorsCmd creates the cors command with show and check subcommands.
func NewCorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Inspect CORS configuration",
		Long:  "Show the CORS policy resolved from the environment, or check an ad hoc origin list.",
	}
	cmd.AddCommand(newCorsShowCmd())
	cmd.AddCommand(newCorsCheckCmd())
	return cmd
}

func newCorsShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective CORS policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			report := cfg.CORSReport()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newCorsCheckCmd() *cobra.Command {
	var origins string
	var env string
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve and classify an origin list",
		Long:  "Resolve a comma-separated origin list for an environment without loading configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			origins = strings.TrimSpace(origins)
			if origins == "" {
				return fmt.Errorf("--origins is required (comma-separated list or *)")
			}
			if err := cors.CheckOrigins(origins); err != nil {
				return err
			}
			environment := cors.Environment(env)
			resolved := cors.ParseOrigins(origins, environment)
			secure := cors.IsSecure(resolved, environment)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Environment: %s\n", environment)
			fmt.Fprintf(out, "Resolved origins: %s\n", formatList(resolved))
			if dropped := cors.DroppedOrigins(origins); len(dropped) > 0 {
				fmt.Fprintf(out, "Dropped origins: %s\n", strings.Join(dropped, ", "))
			}
			fmt.Fprintf(out, "Secure: %v\n", secure)
			if strict && !secure {
				return fmt.Errorf("origin list is not secure for %s", environment)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&origins, "origins", "", "Comma-separated origins, or *")
	cmd.Flags().StringVar(&env, "env", string(cors.Production), "Environment (development, staging, production)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the resolved list is not secure")
	return cmd
}

func printReport(w io.Writer, r models.CorsPolicyReport) {
	fmt.Fprintln(w, "CORS configuration:")
	fmt.Fprintf(w, "  Environment: %s\n", r.Environment)
	fmt.Fprintf(w, "  Allowed origins: %s\n", formatList(r.Origins))
	fmt.Fprintf(w, "  Allowed methods: %s\n", formatList(r.Methods))
	fmt.Fprintf(w, "  Allowed headers: %s\n", formatList(r.Headers))
	fmt.Fprintf(w, "  Allow credentials: %v\n", r.AllowCredentials)
	fmt.Fprintf(w, "  Max-Age: %d\n", r.MaxAge)
	fmt.Fprintf(w, "  Secure: %v\n", r.Secure)
	if len(r.DroppedOrigins) > 0 {
		fmt.Fprintf(w, "  Dropped origins: %s\n", strings.Join(r.DroppedOrigins, ", "))
	}
	if len(r.InvalidTokens) > 0 {
		fmt.Fprintf(w, "  Invalid method/header names: %s\n", strings.Join(r.InvalidTokens, ", "))
	}
}

func formatList(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return strings.Join(list, ", ")
}
