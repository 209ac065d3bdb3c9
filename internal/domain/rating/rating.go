// Package rating implements the pairwise Elo update with a confidence factor.
//
// Each player carries a rating and a confidence in [floor, ceiling]. The
// expected score is the standard Elo logistic; the per-player K-factor blends
// linearly from KProvisional down to KStable as confidence grows, so fresh
// ratings move fast and converged ratings move slowly. Confidence itself
// rises toward the ceiling by a fixed fraction of the remaining gap after
// every match.
package rating

import (
	"math"

	"github.com/smashden/smashden/internal/domain/model"
)

// Default engine parameters.
const (
	defaultInitialRating     = 1500.0
	defaultKProvisional      = 64.0
	defaultKStable           = 16.0
	defaultConfidenceFloor   = 0.10
	defaultConfidenceCeiling = 1.0
	defaultConfidenceGain    = 0.20

	// Ratings never go below zero.
	ratingFloor = 0.0

	eloBase  = 10.0
	eloScale = 400.0

	scoreWin  = 1.0
	scoreLoss = 0.0
)

// Engine computes rating updates. It is pure: callers own lookup,
// validation, and persistence.
type Engine struct {
	initialRating     float64
	kProvisional      float64
	kStable           float64
	confidenceFloor   float64
	confidenceCeiling float64
	confidenceGain    float64
}

// NewEngine creates an engine with default parameters, adjusted by options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		initialRating:     defaultInitialRating,
		kProvisional:      defaultKProvisional,
		kStable:           defaultKStable,
		confidenceFloor:   defaultConfidenceFloor,
		confidenceCeiling: defaultConfidenceCeiling,
		confidenceGain:    defaultConfidenceGain,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewRecord returns a fresh roster record with the default rating and the
// confidence floor.
func (e *Engine) NewRecord(name, character string) model.PlayerRecord {
	return model.PlayerRecord{
		Name:       name,
		Character:  character,
		Rating:     e.initialRating,
		Confidence: e.confidenceFloor,
	}
}

// ExpectedScore returns the probability of self beating other under the Elo
// logistic model.
func (e *Engine) ExpectedScore(self, other float64) float64 {
	return 1.0 / (1.0 + math.Pow(eloBase, (other-self)/eloScale))
}

// EffectiveK maps a confidence to the per-match K-factor: KProvisional at the
// confidence floor, KStable at the ceiling, linear in between.
func (e *Engine) EffectiveK(confidence float64) float64 {
	span := e.confidenceCeiling - e.confidenceFloor
	if span <= 0 {
		return e.kStable
	}
	t := (confidence - e.confidenceFloor) / span
	t = math.Max(0, math.Min(1, t))
	return e.kProvisional - (e.kProvisional-e.kStable)*t
}

// NextConfidence moves a confidence toward the ceiling by the configured
// gain. The result stays within [floor, ceiling] and never decreases.
func (e *Engine) NextConfidence(confidence float64) float64 {
	next := confidence + e.confidenceGain*(e.confidenceCeiling-confidence)
	next = math.Max(e.confidenceFloor, next)
	return math.Min(e.confidenceCeiling, next)
}

// Apply computes the post-match records for a winner/loser pair. Both
// ratings and both confidences are updated; inputs are returned unchanged in
// all other fields.
func (e *Engine) Apply(winner, loser model.PlayerRecord) (model.PlayerRecord, model.PlayerRecord) {
	expWinner := e.ExpectedScore(winner.Rating, loser.Rating)
	expLoser := e.ExpectedScore(loser.Rating, winner.Rating)

	winner.Rating = clampRating(winner.Rating + e.EffectiveK(winner.Confidence)*(scoreWin-expWinner))
	loser.Rating = clampRating(loser.Rating + e.EffectiveK(loser.Confidence)*(scoreLoss-expLoser))

	winner.Confidence = e.NextConfidence(winner.Confidence)
	loser.Confidence = e.NextConfidence(loser.Confidence)

	return winner, loser
}

func clampRating(r float64) float64 {
	return math.Max(ratingFloor, r)
}
