package main

import (
	"github.com/spf13/cobra"

	"github.com/tuneinsight/shiftrule"
)

func newRootCmd() *cobra.Command {

	root := &cobra.Command{
		Use:           "shiftrule",
		Short:         "Compute shift rules for derivatives of periodic signals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSolveCmd(), newSweepCmd())

	return root
}

func newSolveCmd() *cobra.Command {

	var (
		opts       options
		prec       uint
		useFloat64 bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one problem at a given precision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			var cfg Config
			if cfg, err = opts.resolve(cmd); err != nil {
				return
			}

			if cmd.Flags().Changed("prec") {
				cfg.Precision = prec
			}

			var p shiftrule.Problem
			if p, err = shiftrule.NewProblemFromLiteral(cfg.ProblemLiteral); err != nil {
				return
			}

			if useFloat64 {
				var u []float64
				var residual float64
				if u, residual, err = shiftrule.EstimateFloat64(p); err != nil {
					return
				}
				printEstimate(cmd.OutOrStdout(), cfg, u, residual)
				return nil
			}

			var sol *shiftrule.Solution
			if sol, err = shiftrule.Solve(p, cfg.Precision); err != nil {
				return
			}

			printSolution(cmd.OutOrStdout(), cfg, sol)

			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().UintVar(&prec, "prec", 256, "working precision in bits")
	cmd.Flags().BoolVar(&useFloat64, "float64", false, "solve in double precision instead")

	return cmd
}

func newSweepCmd() *cobra.Command {

	var (
		opts  options
		precs []uint
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve one problem at increasing precisions and classify its support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			var cfg Config
			if cfg, err = opts.resolve(cmd); err != nil {
				return
			}

			if cmd.Flags().Changed("precs") {
				cfg.Precisions = precs
			}

			var p shiftrule.Problem
			if p, err = shiftrule.NewProblemFromLiteral(cfg.ProblemLiteral); err != nil {
				return
			}

			var report *shiftrule.SweepReport
			if report, err = shiftrule.Sweep(p, cfg.Precisions); err != nil {
				return
			}

			printSweep(cmd.OutOrStdout(), cfg, report)

			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().UintSliceVar(&precs, "precs", nil, "comma separated precisions in bits")

	return cmd
}
