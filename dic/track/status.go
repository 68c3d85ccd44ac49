package track

// Status records how the pipeline for one window ended.
type Status int

const (
	// StatusOK means integer search and sub-pixel refinement both converged.
	StatusOK Status = iota
	// StatusDegenerate means a window had zero variance.
	StatusDegenerate
	// StatusIntegerBudget means the integer search used all its rounds
	// without reaching a zero shift.
	StatusIntegerBudget
	// StatusIntegerDiverged means the accumulated integer shift exceeded
	// half the window size.
	StatusIntegerDiverged
	// StatusSubpixelNotConverged means the residual stayed above the
	// tolerance after the iteration budget. The estimate is still reported
	// unless strict convergence is requested.
	StatusSubpixelNotConverged
	// StatusFault means the window task failed unexpectedly.
	StatusFault
)

var statusNames = [...]string{
	StatusOK:                   "ok",
	StatusDegenerate:           "degenerate",
	StatusIntegerBudget:        "integer-budget",
	StatusIntegerDiverged:      "integer-diverged",
	StatusSubpixelNotConverged: "subpixel-not-converged",
	StatusFault:                "fault",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Failed reports whether the status sets the error flag.
func (s Status) Failed() bool {
	return s != StatusOK
}
