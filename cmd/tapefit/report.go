package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/tapefit/tapefit/pkg/analysis"
)

func printReport(w io.Writer, r *analysis.Report) {
	bold := func(format string, a ...interface{}) string { return color.New(color.Bold).Sprintf(format, a...) }
	unavailable := color.New(color.FgYellow).Sprint("unavailable")

	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}
	if r.Info != nil {
		fmt.Fprintf(w, "Applied field: %s at %s\n", bold("%g T", r.Info.FieldStrength), bold("%d°", r.Info.AngleDeg))
	}
	fmt.Fprintf(w, "Samples: %d (fingerprint %s)\n", r.Samples, r.Fingerprint)
	fmt.Fprintf(w, "Background: V = %.5g·I %+.5g (%d points below %g A)\n",
		r.Background.Slope, r.Background.Intercept, r.Background.Points, r.Background.Threshold)

	p, ok := r.Fit.Params()
	if !ok {
		fmt.Fprintf(w, "Fit: %s (%s)\n", color.New(color.FgRed, color.Bold).Sprint("failed"), r.Fit.Reason)
		fmt.Fprintf(w, "Critical current: %s\n", unavailable)
		fmt.Fprintf(w, "n-value: %s\n", unavailable)
		fmt.Fprintln(w, "Only the corrected data is available, there is no model curve.")
		return
	}

	se, _ := r.Fit.StdErr()
	fmt.Fprintf(w, "Fit: %s after %d evaluations\n", color.New(color.FgGreen).Sprint("converged"), r.Fit.Evaluations)
	fmt.Fprintf(w, "Parameter 0: %s ± %.5f (critical current, A)\n", bold("%.5f", p.CriticalCurrent), se.CriticalCurrent)
	fmt.Fprintf(w, "Parameter 1: %s ± %.5f (n-value)\n", bold("%.5f", p.Exponent), se.Exponent)
}
