package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tuneinsight/shiftrule"
)

func printSolution(w io.Writer, cfg Config, sol *shiftrule.Solution) {

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "offset\tcoefficient")
	for i, u := range sol.U {
		fmt.Fprintf(tw, "%s\t%.*g\n", cfg.Support[i], cfg.Digits, u)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "method:   %s (rank %d, %d bits)\n", sol.Method, sol.Rank, sol.Prec)
	fmt.Fprintf(w, "error:    %.6g\n", sol.Error)
	fmt.Fprintf(w, "cost:     %.*g\n", cfg.Digits, sol.Cost())
	fmt.Fprintf(w, "bound:    %.*g\n", cfg.Digits, sol.Bound)
	fmt.Fprintf(w, "cost gap: %.6g\n", sol.CostGap())
	fmt.Fprintf(w, "feasible: %t\n", sol.Feasible())
}

func printEstimate(w io.Writer, cfg Config, u []float64, residual float64) {

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "offset\tcoefficient")
	for i := range u {
		fmt.Fprintf(tw, "%s\t%.17g\n", cfg.Support[i], u[i])
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "method:   float64 SVD\n")
	fmt.Fprintf(w, "error:    %.6g\n", residual)
}

func printSweep(w io.Writer, cfg Config, report *shiftrule.SweepReport) {

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "prec\tlog2(error)\terror\tcost gap")
	for _, pt := range report.Points {
		fmt.Fprintf(tw, "%d\t%.1f\t%.6g\t%.6g\n", pt.Prec, pt.Log2Error, pt.Error, pt.CostGap)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "verdict: %s (slope %.3f bits per bit)\n", report.Verdict, report.Slope)

	last := report.Last().Solution
	fmt.Fprintf(w, "coefficients at %d bits:\n", last.Prec)
	for i, u := range last.U {
		fmt.Fprintf(w, "  %s\t%.*g\n", cfg.Support[i], cfg.Digits, u)
	}
}
