// Package analysis composes the background corrector and the power-law
// fitter into the single-pass pipeline run on one sweep:
//
//	measurement -> background.Corrector -> corrected curve -> powerlaw.Fitter -> Report
//
// The Report is plain data meant for plotting and tables: it carries the
// corrected curve, the background line, the fit outcome and, for converged
// fits only, the model sampled over the observed current range.
package analysis
