package errors

import "math"

// ValidateRadius validates a projection search radius.
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || radius <= 0 {
		return New(ErrCodeInvalidInput, "search radius must be positive, got %v", radius)
	}
	return nil
}

// ValidateStep validates a station spacing step.
func ValidateStep(step float64) error {
	if math.IsNaN(step) || step <= 0 {
		return New(ErrCodeInvalidInput, "station step must be positive, got %v", step)
	}
	return nil
}

// ValidateWindow validates a vertex window width.
func ValidateWindow(window int) error {
	if window < 0 {
		return New(ErrCodeInvalidInput, "window must be non-negative, got %d", window)
	}
	return nil
}

// ValidateThresholds validates knickpoint detection thresholds. The slope
// threshold is a grade (rise/run) and must be positive; the drop threshold
// must be non-negative.
func ValidateThresholds(minSlope, minDrop float64) error {
	if math.IsNaN(minSlope) || minSlope <= 0 {
		return New(ErrCodeInvalidInput, "slope threshold must be positive, got %v", minSlope)
	}
	if math.IsNaN(minDrop) || minDrop < 0 {
		return New(ErrCodeInvalidInput, "drop threshold must be non-negative, got %v", minDrop)
	}
	return nil
}
