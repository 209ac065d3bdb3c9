package rating

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithInitialRating sets the rating assigned to new players.
func WithInitialRating(rating float64) Option {
	return func(e *Engine) {
		if rating > 0 {
			e.initialRating = rating
		}
	}
}

// WithKRange sets the K-factor blend endpoints: provisional applies at the
// confidence floor, stable at the ceiling.
func WithKRange(provisional, stable float64) Option {
	return func(e *Engine) {
		if stable > 0 && provisional >= stable {
			e.kProvisional = provisional
			e.kStable = stable
		}
	}
}

// WithConfidenceBounds sets the confidence floor and ceiling.
func WithConfidenceBounds(floor, ceiling float64) Option {
	return func(e *Engine) {
		if floor >= 0 && ceiling > floor {
			e.confidenceFloor = floor
			e.confidenceCeiling = ceiling
		}
	}
}

// WithConfidenceGain sets the fraction of the remaining gap to the ceiling
// gained per match.
func WithConfidenceGain(gain float64) Option {
	return func(e *Engine) {
		if gain > 0 && gain <= 1 {
			e.confidenceGain = gain
		}
	}
}
