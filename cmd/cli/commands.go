package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iho/timelimit/internal/adapter/gotest"
	"github.com/iho/timelimit/internal/adapter/http/dto"
	redisRepo "github.com/iho/timelimit/internal/adapter/repository/redis"
	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/infrastructure/metrics"
	"github.com/iho/timelimit/internal/infrastructure/redis"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func boundsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds [category...]",
		Short: "Show effective bounds of the built-in, configured and given categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			extra := make([]string, 0, len(env.file.Timeouts)+len(args))
			for category := range env.file.Timeouts {
				extra = append(extra, category)
			}
			slices.Sort(extra)
			extra = append(extra, args...)

			categories, err := env.timeLimits.EffectiveBounds(extra...)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), dto.CategoriesFromDomain(categories))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Bound)
			}
			return tw.Flush()
		},
	}
}

func suggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <duration>",
		Short: "Suggest the smallest built-in category for a runtime (ms or Go duration)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDuration(args[0])
			if err != nil {
				return err
			}

			env, err := a.setup(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			category, ok := env.timeLimits.SuggestCategory(d)
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), dto.SuggestResponse{
					DurationMs: d.Milliseconds(),
					Category:   category,
					Found:      ok,
				})
			}

			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No default category defined for this runtime.")
				return errFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), category)
			return nil
		},
	}
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <category> <duration>",
		Short: "Check a runtime against the bound of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := args[0]
			if err := domain.ValidateCategoryName(category); err != nil {
				return err
			}
			observed, err := domain.ParseDuration(args[1])
			if err != nil {
				return err
			}

			env, err := a.setup(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			violation, err := env.timeLimits.ValidateRuntime(observed, category)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				bound := domain.Bound{}
				if violation != nil {
					bound = violation.Bound
				} else if bound, err = env.timeLimits.ResolveBound(category); err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), dto.ValidateFromDomain(category, observed, bound, violation)); err != nil {
					return err
				}
			} else if violation != nil {
				fmt.Fprintln(cmd.OutOrStdout(), violation)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %dms is within '%s'\n", observed.Milliseconds(), category)
			}

			if violation != nil {
				return errFailed
			}
			return nil
		},
	}
}

type findingJSON struct {
	Package    string `json:"package"`
	Test       string `json:"test"`
	Category   string `json:"category"`
	ObservedMs int64  `json:"observed_ms"`
	Bound      string `json:"bound,omitempty"`
	Suggested  string `json:"suggested,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

type reportJSON struct {
	RunID      string        `json:"run_id"`
	Checked    int           `json:"checked"`
	Undeclared int           `json:"undeclared"`
	Skipped    int           `json:"skipped"`
	Failures   []findingJSON `json:"failures"`
}

func reportToJSON(s *gotest.Summary) reportJSON {
	out := reportJSON{
		RunID:      s.RunID,
		Checked:    len(s.Findings),
		Undeclared: s.Undeclared,
		Skipped:    s.Skipped,
		Failures:   []findingJSON{},
	}
	for _, f := range s.Failures() {
		fj := findingJSON{
			Package:    f.Package,
			Test:       f.Test,
			Category:   f.Category,
			ObservedMs: f.Observed.Milliseconds(),
		}
		if f.Err != nil {
			fj.Error = f.Err.Error()
		} else {
			fj.Bound = f.Violation.Bound.String()
			fj.Suggested = f.Violation.Suggested
			fj.Message = f.Violation.String()
		}
		out.Failures = append(out.Failures, fj)
	}
	return out
}

func reportCmd(a *app) *cobra.Command {
	var (
		input       string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Check `go test -json` output against declared categories",
		Long: `Reads test2json events from stdin (or --input) and checks every finished test
whose category is declared in the configuration file. Exits non-zero when a
test ran outside its bound or its category has no resolvable bound.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			in := a.stdin
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			registry := prometheus.NewRegistry()
			reporter := gotest.NewReporter(env.timeLimits, env.file.Declarations,
				gotest.WithLogger(env.log),
				gotest.WithRecorder(metrics.New(registry)),
			)

			summary, err := reporter.Run(cmd.Context(), in)
			if err != nil {
				return err
			}

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}

			if a.jsonOutput {
				err = printJSON(cmd.OutOrStdout(), reportToJSON(summary))
			} else {
				err = gotest.WriteText(cmd.OutOrStdout(), summary)
			}
			if err != nil {
				return err
			}

			if summary.Failed() {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "File with go test -json output (default stdin)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics of this run to a textfile")

	return cmd
}

func overridesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage bound overrides shared through Redis (requires REDIS_URL)",
	}

	withStore := func(cmd *cobra.Command, fn func(store *redisRepo.OverrideStore, namespace string) error) error {
		cfg, _, err := a.loadConfig()
		if err != nil {
			return err
		}
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is not set")
		}

		client, err := redis.NewClient(cmd.Context(), cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			return err
		}
		defer client.Close()

		return fn(redisRepo.NewOverrideStore(client, cfg.RedisKey), cfg.Namespace)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List shared overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *redisRepo.OverrideStore, _ string) error {
				snapshot, err := store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return printJSON(cmd.OutOrStdout(), snapshot)
				}

				keys := make([]string, 0, len(snapshot))
				for k := range snapshot {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, snapshot[k])
				}
				return nil
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <category> <lower|upper> <duration>",
		Short: "Set one bound edge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge, err := parseEdge(args[1])
			if err != nil {
				return err
			}
			d, err := domain.ParseDuration(args[2])
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *redisRepo.OverrideStore, namespace string) error {
				return store.Set(cmd.Context(), namespace, args[0], edge, d)
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <category> <lower|upper>",
		Short: "Delete one bound edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge, err := parseEdge(args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *redisRepo.OverrideStore, namespace string) error {
				return store.Delete(cmd.Context(), namespace, args[0], edge)
			})
		},
	}

	cmd.AddCommand(listCmd, setCmd, deleteCmd)
	return cmd
}

func parseEdge(s string) (domain.Edge, error) {
	switch s {
	case domain.EdgeLower.String():
		return domain.EdgeLower, nil
	case domain.EdgeUpper.String():
		return domain.EdgeUpper, nil
	default:
		return 0, fmt.Errorf("edge must be lower or upper, got %q", s)
	}
}
