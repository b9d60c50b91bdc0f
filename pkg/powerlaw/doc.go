// Package powerlaw fits the superconducting transition of a
// background-corrected sweep to
//
//	E(I) = Ec * ((|I| + eps) / Ic)^n
//
// where Ec is the fixed electric-field criterion, Ic the critical current and
// n the transition exponent. The fit is an unconstrained Levenberg-Marquardt
// least-squares minimization with a fixed evaluation budget.
//
// A fit that does not converge is not an error: Fit returns a Result whose
// Status is StatusFailed and whose Reason explains why, so callers can still
// show the corrected data without a model overlay.
package powerlaw
