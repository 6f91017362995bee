package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/breakeven"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/spf13/cobra"
)

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find the revenue at which two regimes cost the same",
		Long: `Bisect the revenue range for the point where two regimes owe the same tax.

Examples:
  regimesim breakeven --a simples --b real --revenue 100000 --profit 50000 -j SP -s servicos
  regimesim breakeven --all --revenue 1000000 --profit 200000 --profit-mode margin`,
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
			solver := breakeven.NewDefaultSolver(engine)

			modeName, _ := cmd.Flags().GetString("profit-mode")
			mode, err := breakeven.ParseProfitMode(modeName)
			if err != nil {
				return err
			}
			bounds, err := boundsFromFlags(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			tf := &breakeven.TableFormatter{}
			out := cmd.OutOrStdout()

			if all, _ := cmd.Flags().GetBool("all"); all {
				pairs, err := solver.AllPairs(cmd.Context(), in, bounds, mode)
				if err != nil {
					return err
				}
				if strings.EqualFold(format, "json") {
					s, err := breakeven.FormatJSON(pairs)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, s)
					return nil
				}
				fmt.Fprint(out, tf.FormatPairs(pairs))
				return nil
			}

			aName, _ := cmd.Flags().GetString("a")
			bName, _ := cmd.Flags().GetString("b")
			a, err := domain.ParseRegime(aName)
			if err != nil {
				return err
			}
			b, err := domain.ParseRegime(bName)
			if err != nil {
				return err
			}

			req := breakeven.Request{
				Input:      in,
				RegimeA:    a,
				RegimeB:    b,
				Bounds:     bounds,
				ProfitMode: mode,
			}
			if cmd.Flags().Changed("margin") {
				margin, err := decimalFlag(cmd, "margin")
				if err != nil {
					return err
				}
				req.Margin = &margin
			}

			result, err := solver.RevenueBreakEven(cmd.Context(), req)
			if err != nil {
				return err
			}
			log.Debugf("break-even %s/%s converged in %d iterations", a, b, result.Iterations)

			if strings.EqualFold(format, "json") {
				s, err := breakeven.FormatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprint(out, tf.Format(result))
			return nil
		},
	}

	addInputFlags(cmd)
	cmd.Flags().String("a", "", "First regime (unified_simplified, presumed_profit, real_profit, prospective_unified or short name)")
	cmd.Flags().String("b", "", "Second regime")
	cmd.Flags().Bool("all", false, "Scan every regime pair")
	cmd.Flags().Float64("min", 1, "Lowest revenue searched")
	cmd.Flags().Float64("max", 50000000, "Highest revenue searched")
	cmd.Flags().String("profit-mode", "fixed", "How profit follows revenue (fixed, margin)")
	cmd.Flags().Float64("margin", 0, "Profit margin for --profit-mode margin (default: profit/revenue)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.MarkFlagsRequiredTogether("a", "b")
	cmd.MarkFlagsOneRequired("a", "all")
	return cmd
}

func boundsFromFlags(cmd *cobra.Command) (breakeven.Bounds, error) {
	minRevenue, err := decimalFlag(cmd, "min")
	if err != nil {
		return breakeven.Bounds{}, err
	}
	maxRevenue, err := decimalFlag(cmd, "max")
	if err != nil {
		return breakeven.Bounds{}, err
	}
	if maxRevenue.LessThanOrEqual(minRevenue) {
		return breakeven.Bounds{}, fmt.Errorf("revenue range must satisfy 0 <= min < max (got %s, %s)", minRevenue, maxRevenue)
	}
	return breakeven.Bounds{MinRevenue: minRevenue, MaxRevenue: maxRevenue}, nil
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Tabulate every regime's tax across a revenue range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputFromFlags(cmd)
			if err != nil {
				return err
			}
			engine, _, err := newEngine(cmd)
			if err != nil {
				return err
			}

			from, err := decimalFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := decimalFlag(cmd, "to")
			if err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")
			modeName, _ := cmd.Flags().GetString("profit-mode")
			mode, err := breakeven.ParseProfitMode(modeName)
			if err != nil {
				return err
			}

			rows, err := breakeven.NewDefaultSolver(engine).Sweep(cmd.Context(), breakeven.SweepRequest{
				Input:      in,
				From:       from,
				To:         to,
				Steps:      steps,
				ProfitMode: mode,
			})
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "csv":
				s, err := breakeven.FormatSweepCSV(rows)
				if err != nil {
					return fmt.Errorf("failed to format CSV: %w", err)
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := breakeven.FormatJSON(rows)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			case "table", "":
				fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatSweep(rows))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
			}
			return nil
		},
	}

	addInputFlags(cmd)
	cmd.Flags().Float64("from", 0, "First revenue")
	cmd.Flags().Float64("to", 6000000, "Last revenue")
	cmd.Flags().Int("steps", 12, "Number of intervals")
	cmd.Flags().String("profit-mode", "margin", "How profit follows revenue (fixed, margin)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	return cmd
}
