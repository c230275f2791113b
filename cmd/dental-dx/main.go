// Package main implements the dental-dx CLI tool for validating
// diagnostic rule tables and resolving observations against them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/engine"
	"github.com/godental/diagnostics/ruletable"
	"github.com/godental/diagnostics/tables"
	"github.com/godental/diagnostics/worker"
)

const version = "0.1.0"

// Config holds CLI configuration, loaded from flags, environment
// variables with the DENTALDX_ prefix, and an optional env file.
type Config struct {
	TableDir  string `mapstructure:"TABLE_DIR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	Strict    bool   `mapstructure:"STRICT"`
	Heuristic bool   `mapstructure:"HEURISTIC"`
	Workers   int    `mapstructure:"WORKERS"`
	Output    string `mapstructure:"OUTPUT"`
}

func loadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DENTALDX")
	v.AutomaticEnv()

	v.SetDefault("TABLE_DIR", "")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("STRICT", false)
	v.SetDefault("HEURISTIC", true)
	v.SetDefault("WORKERS", 0)
	v.SetDefault("OUTPUT", "text")

	v.BindEnv("TABLE_DIR")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("STRICT")
	v.BindEnv("HEURISTIC")
	v.BindEnv("WORKERS")
	v.BindEnv("OUTPUT")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func main() {
	var cfgFile string
	var cfg *Config

	rootCmd := &cobra.Command{
		Use:           "dental-dx",
		Short:         "Dental diagnostic rule resolution engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			// Flags set explicitly win over env and file values.
			if cmd.Flags().Changed("tables") {
				loaded.TableDir, _ = cmd.Flags().GetString("tables")
			}
			if cmd.Flags().Changed("log-level") {
				loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("strict") {
				loaded.Strict, _ = cmd.Flags().GetBool("strict")
			}
			if cmd.Flags().Changed("output") {
				loaded.Output, _ = cmd.Flags().GetString("output")
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().String("tables", "", "Directory of rule table JSON files (default: embedded tables)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("strict", false, "Treat table warnings as errors")
	rootCmd.PersistentFlags().String("output", "text", "Output format: text, json")

	rootCmd.AddCommand(validateCmd(&cfg))
	rootCmd.AddCommand(resolveCmd(&cfg))
	rootCmd.AddCommand(batchCmd(&cfg))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the dental-dx version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dental-dx v%s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildEngine constructs an engine over the configured rule tables: the
// embedded defaults, or the JSON files in the configured directory.
func buildEngine(cfg *Config, logger zerolog.Logger) (*engine.Engine, error) {
	opts := []dx.Option{
		dx.WithHeuristicFallback(cfg.Heuristic),
		dx.WithStrictTables(cfg.Strict),
		dx.WithWorkerCount(cfg.Workers),
		dx.WithLogger(logger),
	}

	if cfg.TableDir == "" {
		store, err := tables.DefaultStoreWithLogger(logger)
		if err != nil {
			return nil, err
		}
		return engine.New(store, opts...), nil
	}

	paths, err := filepath.Glob(filepath.Join(cfg.TableDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan table directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no rule table files in %s", cfg.TableDir)
	}

	docs := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, data)
	}

	eng := engine.New(ruletable.NewStore(logger), opts...)
	report, err := eng.LoadTables(docs...)
	if err != nil {
		printReport(report, cfg.Output)
		return nil, err
	}
	return eng, nil
}

func validateCmd(cfg **Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate rule table files and report findings",
		Long: `Validate runs every table check against the given rule table JSON
files, or against the embedded default tables when no files are given.
Exits nonzero when any error-level finding is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			logger := newLogger(c.LogLevel)

			report := dx.NewReport()
			if len(args) == 0 {
				eng, err := buildEngine(c, logger)
				if err != nil {
					return err
				}
				report = eng.ValidateTables()
			} else {
				loader := ruletable.NewLoader(0, logger)
				for _, path := range args {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					table, err := loader.LoadJSON(data)
					if err != nil {
						return fmt.Errorf("load %s: %w", path, err)
					}
					report.Merge(table.Validate(0))
				}
			}

			printReport(report, c.Output)
			if report.HasErrors() || (c.Strict && len(report.Warnings()) > 0) {
				return fmt.Errorf("validation failed: %d error(s), %d warning(s)",
					report.ErrorCount(), len(report.Warnings()))
			}
			return nil
		},
	}
}

func printReport(report *dx.Report, output string) {
	if report == nil {
		return
	}
	if strings.EqualFold(output, "json") {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	status := "VALID"
	if report.HasErrors() {
		status = "INVALID"
	}
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Rows checked: %d\n", report.RowsChecked)
	fmt.Printf("Errors: %d, Warnings: %d\n", report.ErrorCount(), len(report.Warnings()))

	if len(report.Issues) > 0 {
		fmt.Println("\nFindings:")
		for _, iss := range report.Issues {
			fmt.Printf("  %s\n", iss.String())
		}
	}
	fmt.Println()
}

// resolveOutput is the JSON shape of a single resolution.
type resolveOutput struct {
	Family   string    `json:"family"`
	Matched  bool      `json:"matched"`
	Codes    []dx.Code `json:"codes,omitempty"`
	Duration string    `json:"duration"`
}

func resolveCmd(cfg **Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one observation against the rule tables",
		Long: `Resolve reads a single observation as JSON from --input (or stdin
with "-") and prints the resulting diagnosis. The observation shape
depends on --family:

  caries       {"aspect": "Occlusal", "depth": "Enamel", "cavitation": "Cavitated", "classification": "C1"}
  endodontic   {"cold": {"result": "positive", "detail": "pain_lingering"}, "percussion": {...}, "palpation": {...}}
  periodontal  {"sites": {"buccal": {"probingDepth": 4, "gingivalMargin": 1, "bleeding": true}}, "patientAge": 25, ...}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			family, _ := cmd.Flags().GetString("family")
			input, _ := cmd.Flags().GetString("input")

			fam := dx.Family(family)
			if !fam.IsValid() || fam == dx.FamilyHeat {
				return fmt.Errorf("unsupported family %q (want caries, endodontic, or periodontal)", family)
			}

			data, err := readInput(input)
			if err != nil {
				return err
			}

			logger := newLogger(c.LogLevel)
			eng, err := buildEngine(c, logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			start := time.Now()

			var diag *dx.Diagnosis
			switch fam {
			case dx.FamilyCaries:
				var obs dx.CariesObservation
				if err := json.Unmarshal(data, &obs); err != nil {
					return fmt.Errorf("decode caries observation: %w", err)
				}
				diag, err = eng.ResolveCaries(ctx, obs)
			case dx.FamilyEndodontic:
				obs := dx.EndodonticObservation{}
				if err := json.Unmarshal(data, &obs); err != nil {
					return fmt.Errorf("decode endodontic observation: %w", err)
				}
				diag, err = eng.ResolveEndodontic(ctx, obs)
			case dx.FamilyPeriodontal:
				var obs dx.PeriodontalObservation
				if err := json.Unmarshal(data, &obs); err != nil {
					return fmt.Errorf("decode periodontal observation: %w", err)
				}
				diag, err = eng.ResolvePeriodontal(ctx, obs)
			}
			if err != nil {
				return err
			}

			duration := time.Since(start).Round(time.Microsecond)
			if strings.EqualFold(c.Output, "json") {
				out := resolveOutput{
					Family:   string(fam),
					Matched:  diag != nil,
					Duration: duration.String(),
				}
				if diag != nil {
					out.Codes = diag.Codes
				}
				enc, _ := json.MarshalIndent(out, "", "  ")
				fmt.Println(string(enc))
				return nil
			}

			fmt.Printf("Family: %s\n", fam)
			fmt.Printf("Diagnosis: %s\n", diag.String())
			fmt.Printf("Duration: %s\n", duration)
			return nil
		},
	}
	cmd.Flags().String("family", "", "Observation family: caries, endodontic, periodontal")
	cmd.Flags().String("input", "-", "Observation JSON file, or - for stdin")
	cmd.MarkFlagRequired("family")
	return cmd
}

// jobInput is the JSON shape of one batch entry.
type jobInput struct {
	Tooth       string                     `json:"tooth"`
	Family      dx.Family                  `json:"family"`
	Caries      *dx.CariesObservation      `json:"caries,omitempty"`
	Endodontic  dx.EndodonticObservation   `json:"endodontic,omitempty"`
	Periodontal *dx.PeriodontalObservation `json:"periodontal,omitempty"`
}

// batchEntryOutput is the JSON shape of one batch result.
type batchEntryOutput struct {
	ID      string    `json:"id"`
	Tooth   string    `json:"tooth,omitempty"`
	Family  string    `json:"family"`
	Matched bool      `json:"matched"`
	Codes   []dx.Code `json:"codes,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func batchCmd(cfg **Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve a batch of observations in parallel",
		Long: `Batch reads a JSON array of jobs from --input (or stdin with "-")
and resolves them on a worker pool. Each job names a tooth, a family
and the matching observation:

  [{"tooth": "16", "family": "caries", "caries": {"aspect": "Occlusal", ...}}, ...]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			input, _ := cmd.Flags().GetString("input")

			data, err := readInput(input)
			if err != nil {
				return err
			}
			var inputs []jobInput
			if err := json.Unmarshal(data, &inputs); err != nil {
				return fmt.Errorf("decode batch input: %w", err)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("batch input is empty")
			}

			logger := newLogger(c.LogLevel)
			eng, err := buildEngine(c, logger)
			if err != nil {
				return err
			}

			jobs := make([]worker.Job, 0, len(inputs))
			for _, in := range inputs {
				jobs = append(jobs, worker.Job{
					Tooth:       in.Tooth,
					Family:      in.Family,
					Caries:      in.Caries,
					Endodontic:  in.Endodontic,
					Periodontal: in.Periodontal,
				})
			}
			runner := worker.NewBatch(eng, eng.Options().WorkerCount)
			batch := runner.ResolveAll(context.Background(), jobs)

			if strings.EqualFold(c.Output, "json") {
				outputs := make([]batchEntryOutput, 0, len(batch.Results))
				for _, r := range batch.Results {
					entry := batchEntryOutput{
						ID:      r.ID,
						Tooth:   r.Tooth,
						Family:  string(r.Family),
						Matched: r.Err == nil && r.Diagnosis != nil,
					}
					if r.Diagnosis != nil {
						entry.Codes = r.Diagnosis.Codes
					}
					if r.Err != nil {
						entry.Error = r.Err.Error()
					}
					outputs = append(outputs, entry)
				}
				enc, _ := json.MarshalIndent(outputs, "", "  ")
				fmt.Println(string(enc))
			} else {
				for _, r := range batch.Results {
					label := r.Tooth
					if label == "" {
						label = r.ID
					}
					if r.Err != nil {
						fmt.Printf("  %-8s %-12s error: %v\n", label, r.Family, r.Err)
						continue
					}
					fmt.Printf("  %-8s %-12s %s\n", label, r.Family, r.Diagnosis.String())
				}
				fmt.Printf("\n%d job(s), %d matched, %d error(s)\n",
					batch.TotalJobs, batch.Matched, batch.Errors)
			}

			if batch.Errors > 0 {
				return fmt.Errorf("%d job(s) failed", batch.Errors)
			}
			return nil
		},
	}
	cmd.Flags().String("input", "-", "Batch JSON file, or - for stdin")
	return cmd
}

func readInput(input string) ([]byte, error) {
	if input == "" || input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return data, nil
}
