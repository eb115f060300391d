package capacity

// Confidence describes how an estimate was derived.
type Confidence int

const (
	// ConfidenceObservedMax means the value is only the largest cargo total
	// seen so far, not an authoritative capacity report.
	ConfidenceObservedMax Confidence = iota
	// ConfidenceExplicit means the value came from an authoritative
	// capacity-bearing event (or the auxiliary vehicle table).
	ConfidenceExplicit
)

// String implements fmt.Stringer.
func (c Confidence) String() string {
	if c == ConfidenceExplicit {
		return "explicit"
	}
	return "observed_max"
}

// Estimate is a cargo capacity value with its confidence.
type Estimate struct {
	Value      int        `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// Guessed reports whether the value is still an observation-based guess.
func (e Estimate) Guessed() bool {
	return e.Confidence == ConfidenceObservedMax
}

// Estimator tracks the cargo capacity of a single vehicle context using a
// "low bound from observation, corrected by explicit signal" policy.
type Estimator struct {
	est Estimate
}

// Observe proposes a currently-held cargo total as a lower bound.
// The estimate ratchets upward while still observation-based and is a
// no-op once an explicit value has been set.
func (e *Estimator) Observe(currentTotal int) {
	if e.est.Confidence == ConfidenceExplicit {
		return
	}
	if currentTotal > e.est.Value {
		e.est.Value = currentTotal
	}
}

// SetExplicit unconditionally adopts an authoritative capacity value.
// Once explicit, the estimator never reverts to observed-max tracking.
func (e *Estimator) SetExplicit(capacity int) {
	e.est = Estimate{Value: capacity, Confidence: ConfidenceExplicit}
}

// Reset returns the estimator to an empty observation-based state.
func (e *Estimator) Reset() {
	e.est = Estimate{}
}

// Current returns the current estimate.
func (e *Estimator) Current() Estimate {
	return e.est
}
