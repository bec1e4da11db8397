// Package hrv implements the heart-rate-variability analysis engine:
// artifact detection and correction, time-/frequency-domain and nonlinear
// metric computation, detrended fluctuation analysis, stress scoring,
// recovery-window selection, and two-source beat fusion.
package hrv

import "errors"

// Expected data-insufficiency conditions surface as these sentinel errors
// (or as absent optional metric blocks); they are normal operating states,
// not exceptional failures.
var (
	ErrInsufficientData   = errors.New("hrv: insufficient clean beats for requested metric")
	ErrNoValidWindow      = errors.New("hrv: no valid analysis window in search band")
	ErrBothSourcesInvalid = errors.New("hrv: neither capture source produced a usable sequence")
	ErrMalformedInterval  = errors.New("hrv: beat interval outside physiological bounds")
)
