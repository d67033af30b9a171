// Package evaluation scores a finished negotiation against a closed-form
// game-theoretic benchmark.
package evaluation

import (
	"fmt"

	"github.com/talgya/bargain-sim/internal/negotiation"
)

// Metrics summarizes a terminal negotiation state.
type Metrics struct {
	Success          bool    `json:"success"`
	Turns            int     `json:"turns"`
	BuyerSavingsPct  float64 `json:"buyer_savings_pct"`
	EquilibriumPrice float64 `json:"equilibrium_price,omitempty"`
	AboveEqPct       float64 `json:"above_eq_pct,omitempty"`
}

// Evaluate computes post-hoc metrics from a terminal state.
//
// The equilibrium benchmark assumes discount factors were static for the
// run. It is applied unconditionally, including runs where discounts
// evolved dynamically — a known simplification, kept rather than
// special-cased.
func Evaluate(st negotiation.State) (Metrics, error) {
	if st.AgreedPrice == nil {
		return Metrics{
			Success:         false,
			Turns:           st.Round,
			BuyerSavingsPct: 0,
		}, nil
	}

	if st.InitialOffer == nil || *st.InitialOffer == 0 {
		return Metrics{}, fmt.Errorf("cannot compute savings: initial offer is zero or unset")
	}

	eq, err := EquilibriumPrice(st.BuyerDiscount, st.SellerDiscount, st.SellerCost, st.BuyerCost)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		Success:          true,
		Turns:            st.Round,
		BuyerSavingsPct:  (*st.InitialOffer - *st.AgreedPrice) / *st.InitialOffer,
		EquilibriumPrice: eq,
		AboveEqPct:       (*st.AgreedPrice - eq) / eq,
	}, nil
}

// EquilibriumPrice computes the Rubinstein alternating-offers bargaining
// solution under static discount factors:
//
//	p* = ((1−δ_B)·c_S + δ_B·(1−δ_S)·c_B) / (1 − δ_B·δ_S)
//
// The solution is undefined when δ_B·δ_S == 1.
func EquilibriumPrice(buyerDiscount, sellerDiscount, sellerCost, buyerCost float64) (float64, error) {
	denom := 1 - buyerDiscount*sellerDiscount
	if denom == 0 {
		return 0, fmt.Errorf("equilibrium undefined: product of discount factors is 1")
	}
	num := (1-buyerDiscount)*sellerCost + buyerDiscount*(1-sellerDiscount)*buyerCost
	return num / denom, nil
}
