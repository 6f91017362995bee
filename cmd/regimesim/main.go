package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rgehrsitz/regimesim/internal/config"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/rgehrsitz/regimesim/internal/output"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}

	log = logrus.WithField("module", "regimesim")
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "regimesim",
		Short: "Business tax regime simulator",
		Long: `Compare the tax a business owes under the unified-simplified, presumed-profit,
real-profit and prospective unified regimes, and find the revenues where the
cheapest regime changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(cmd)
		},
	}

	root.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error, critical, off)")
	root.PersistentFlags().Bool("debug", false, "Shorthand for --log-level debug")
	root.PersistentFlags().String("catalog", "", "Rate dataset YAML (default: embedded dataset)")

	root.AddCommand(
		simulateCmd(),
		batchCmd(),
		legacyCmd(),
		breakEvenCmd(),
		sweepCmd(),
		catalogCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

func configureLogging(cmd *cobra.Command) error {
	logrus.SetOutput(cmd.ErrOrStderr())
	levelName, _ := cmd.Flags().GetString("log-level")
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		levelName = "debug"
	}
	level, ok := logLevels[strings.ToLower(levelName)]
	if !ok {
		return fmt.Errorf("log-level must be one of trace, debug, info, warn, error, critical, off (got %q)", levelName)
	}
	logrus.SetLevel(level)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "regimesim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// loadCatalog reads the --catalog dataset, or the embedded one when unset
func loadCatalog(cmd *cobra.Command) (*catalog.RateCatalog, string, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		cat, err := config.DefaultCatalog()
		return cat, "embedded", err
	}
	log.Debugf("loading rate catalog from %s", path)
	cat, err := config.NewInputParser().LoadCatalogFromFile(path)
	return cat, path, err
}

// newEngine builds a regime engine over the selected catalog with CLI logging
func newEngine(cmd *cobra.Command) (*calculation.RegimeEngine, string, error) {
	cat, source, err := loadCatalog(cmd)
	if err != nil {
		return nil, "", err
	}
	engine := calculation.NewRegimeEngine(cat)
	engine.SetLogger(log.WithField("component", "engine"))
	return engine, source, nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("revenue", 0, "Gross annual revenue (required)")
	cmd.Flags().Float64("profit", 0, "Net profit")
	cmd.Flags().StringP("jurisdiction", "j", "", "State code, e.g. SP")
	cmd.Flags().StringP("sector", "s", "", "Sector code, e.g. servicos")
	cmd.Flags().String("name", "", "Company name for reports")
	_ = cmd.MarkFlagRequired("revenue")
}

func inputFromFlags(cmd *cobra.Command) (domain.InputRecord, error) {
	revenue, _ := cmd.Flags().GetFloat64("revenue")
	profit, _ := cmd.Flags().GetFloat64("profit")
	jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
	sector, _ := cmd.Flags().GetString("sector")
	name, _ := cmd.Flags().GetString("name")

	in, err := domain.NewInputRecord(revenue, profit, jurisdiction, sector)
	if err != nil {
		return domain.InputRecord{}, err
	}
	in.Name = name
	return in, nil
}

// decimalFlag reads a float flag as a decimal, rejecting negative and non-finite values
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	v, _ := cmd.Flags().GetFloat64(name)
	if err := domain.CheckAmount("--"+name, v); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(v), nil
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one business under every regime",
		Example: `  regimesim simulate --revenue 1000000 --profit 50000 -j SP -s servicos
  regimesim simulate --revenue 250000 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputFromFlags(cmd)
			if err != nil {
				return err
			}
			engine, _, err := newEngine(cmd)
			if err != nil {
				return err
			}

			result, err := compare.NewCompareEngine(engine).CompareOne(in)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown output format %q (valid: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
			}

			if save, _ := cmd.Flags().GetBool("save"); save {
				filename, err := output.WriteFormatted(f, result, fileExtension(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := f.Format(result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, json, html)")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func fileExtension(formatter string) string {
	switch formatter {
	case "csv", "json", "html":
		return formatter
	default:
		return "txt"
	}
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [inputs-file]",
		Short: "Simulate every company listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := config.NewInputParser().LoadInputsFromFile(args[0])
			if err != nil {
				return err
			}
			engine, source, err := newEngine(cmd)
			if err != nil {
				return err
			}

			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), inputs)
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			compSet.CatalogSource = source
			log.Infof("simulated %d companies", len(compSet.Results))

			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(compSet)
				if err != nil {
					return fmt.Errorf("failed to format CSV: %w", err)
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprint(out, s)
			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(compSet))
			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}

func legacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Flat-rate reform estimate for an individual (PF) or entity (PJ)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := decimalFlag(cmd, "income")
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("type")

			estimate, err := calculation.EstimateFlatReform(income, calculation.ParseTaxpayerType(kind))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income:          %s\n", output.FormatCurrency(estimate.Income))
			fmt.Fprintf(out, "Current tax:     %s\n", output.FormatCurrency(estimate.CurrentTax))
			fmt.Fprintf(out, "Reform tax:      %s\n", output.FormatCurrency(estimate.ReformTax))
			fmt.Fprintf(out, "Difference:      %s (%s)\n", output.FormatCurrency(estimate.Difference), output.FormatPercentage(estimate.PercentDifference))
			return nil
		},
	}
	cmd.Flags().Float64("income", 0, "Income to tax")
	cmd.Flags().StringP("type", "t", "PF", "Taxpayer type (PF or PJ)")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or validate rate datasets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List jurisdictions, sectors and regime parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, source, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			meta := cat.Metadata()
			fmt.Fprintf(out, "Rate catalog: %s (data year %d)\n\n", source, meta.DataYear)

			fmt.Fprintf(out, "%-6s %-26s %12s %12s\n", "CODE", "JURISDICTION", "CONSUMPTION", "VALUE-ADDED")
			for _, code := range cat.Jurisdictions() {
				r := cat.RatesForJurisdiction(code)
				fmt.Fprintf(out, "%-6s %-26s %12s %12s\n", code, cat.JurisdictionName(code),
					output.FormatRate(r.ConsumptionTaxRate), output.FormatRate(r.ValueAddedRate))
			}

			fmt.Fprintf(out, "\n%-12s %-26s %12s\n", "CODE", "SECTOR", "SERVICE")
			for _, code := range cat.Sectors() {
				fmt.Fprintf(out, "%-12s %-26s %12s\n", code, cat.SectorName(code), output.FormatRate(cat.RateForSector(code)))
			}

			p := cat.Parameters()
			fmt.Fprintf(out, "\nUnified-simplified ceiling: %s\n", output.FormatCurrency(p.SimplifiedRevenueCeiling))
			fmt.Fprintf(out, "Real-profit rate:           %s\n", output.FormatRate(p.RealProfitRate))
			fmt.Fprintf(out, "Federal add-on rate:        %s\n", output.FormatRate(p.FederalAddOnRate))
			return nil
		},
	}

	validate := &cobra.Command{
		Use:   "validate [dataset-file]",
		Short: "Validate a rate dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewInputParser().LoadCatalogFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate dataset %s is valid\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, validate)
	return cmd
}

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
