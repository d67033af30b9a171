// Package dynamics implements the non-adaptive seller's round-over-round
// evolution of discount and emotion.
//
// The discount follows a path-dependent autoregressive process on [0,1]:
//
//	a  = β0 + β1·(1 − t/T) + β2·(offer − c_S)/(c_B − c_S)
//	μ  = (1−ρ)·σ(a) + ρ·δ_last
//	δ' ~ Beta(μκ, (1−μ)κ)
//
// where σ is the logistic link. The time term decays the urgency to
// concede, the offer term measures how far the buyer's offer sits inside
// the bargaining range, ρ controls stickiness toward the previous value,
// and κ controls concentration of the draw around μ.
package dynamics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Params are the coefficients of the discount process.
type Params struct {
	Beta0 float64
	Beta1 float64
	Beta2 float64
	Rho   float64
	Kappa float64
}

// DefaultParams returns the standard seller coefficients.
func DefaultParams() Params {
	return Params{
		Beta0: 0.2,
		Beta1: 0.5,
		Beta2: 0.3,
		Rho:   0.5,
		Kappa: 0.9,
	}
}

// Model samples seller discount and emotion transitions. Randomness is an
// explicit dependency: the model owns a seeded source, so tests and batch
// runs control their own streams.
type Model struct {
	src    rand.Source
	params Params
}

// NewModel creates a dynamics model drawing from src with the given
// coefficients.
func NewModel(src rand.Source, params Params) *Model {
	return &Model{src: src, params: params}
}

// NewSeededModel creates a dynamics model with default coefficients and
// its own source seeded from seed.
func NewSeededModel(seed int64) *Model {
	return NewModel(rand.NewPCG(uint64(seed), uint64(seed)), DefaultParams())
}

// NextDiscount draws the seller's discount for the current round.
// Successive calls with identical arguments generally differ; determinism
// comes only from the injected source. Degenerate configurations
// (buyerCost == sellerCost, or μκ collapsing to a non-positive Beta
// parameter) are surfaced as errors; they indicate a misconfigured
// scenario, never something to clamp.
func (m *Model) NextDiscount(current float64, round, maxRounds int, buyerOffer, sellerCost, buyerCost float64) (float64, error) {
	if buyerCost == sellerCost {
		return 0, fmt.Errorf("degenerate bargaining range: buyer cost equals seller cost (%v)", buyerCost)
	}

	a := m.params.Beta0
	a += m.params.Beta1 * (1 - float64(round)/float64(maxRounds))
	a += m.params.Beta2 * (buyerOffer - sellerCost) / (buyerCost - sellerCost)

	mu := (1-m.params.Rho)*logistic(a) + m.params.Rho*current

	b1 := mu * m.params.Kappa
	b2 := (1 - mu) * m.params.Kappa
	if b1 <= 0 || b2 <= 0 {
		return 0, fmt.Errorf("beta parameters out of domain: alpha=%v beta=%v (mu=%v)", b1, b2, mu)
	}

	dist := distuv.Beta{Alpha: b1, Beta: b2, Src: m.src}
	return dist.Rand(), nil
}

func logistic(a float64) float64 {
	return 1 / (1 + math.Exp(-a))
}
