package evaluation

import (
	"math"
	"testing"

	"github.com/talgya/bargain-sim/internal/negotiation"
)

func ptr(v float64) *float64 { return &v }

func TestEvaluateSuccessfulRun(t *testing.T) {
	st := negotiation.State{
		Round:            3,
		MaxRounds:        10,
		InitialOffer:     ptr(100),
		AgreedPrice:      ptr(85),
		AgreementReached: true,
		BuyerDiscount:    0.5,
		SellerDiscount:   0.5,
		BuyerCost:        150,
		SellerCost:       100,
	}

	m, err := Evaluate(st)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !m.Success {
		t.Error("success = false, want true")
	}
	if m.Turns != 3 {
		t.Errorf("turns = %d, want 3", m.Turns)
	}
	if m.BuyerSavingsPct != 0.15 {
		t.Errorf("buyer savings = %v, want exactly 0.15", m.BuyerSavingsPct)
	}

	wantEq := 116.66666666666667 // (0.5·100 + 0.5·0.5·150) / 0.75
	if math.Abs(m.EquilibriumPrice-wantEq) > 1e-12 {
		t.Errorf("equilibrium price = %v, want %v", m.EquilibriumPrice, wantEq)
	}
	wantAbove := (85 - wantEq) / wantEq
	if math.Abs(m.AboveEqPct-wantAbove) > 1e-12 {
		t.Errorf("above-equilibrium pct = %v, want %v", m.AboveEqPct, wantAbove)
	}
}

func TestEvaluateFailedRun(t *testing.T) {
	tests := []struct {
		name string
		st   negotiation.State
	}{
		{
			name: "breakdown",
			st:   negotiation.State{Round: 4, MaxRounds: 10, Breakdown: true, InitialOffer: ptr(100)},
		},
		{
			name: "round exhaustion",
			st:   negotiation.State{Round: 10, MaxRounds: 10, InitialOffer: ptr(100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Evaluate(tt.st)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if m.Success {
				t.Error("success = true for a run with no agreed price")
			}
			if m.BuyerSavingsPct != 0.0 {
				t.Errorf("buyer savings = %v, want 0.0", m.BuyerSavingsPct)
			}
			if m.Turns != tt.st.Round {
				t.Errorf("turns = %d, want %d", m.Turns, tt.st.Round)
			}
		})
	}
}

func TestEvaluateZeroInitialOffer(t *testing.T) {
	st := negotiation.State{
		InitialOffer:     ptr(0),
		AgreedPrice:      ptr(0),
		AgreementReached: true,
	}
	if _, err := Evaluate(st); err == nil {
		t.Fatal("expected division error for zero initial offer")
	}
}

func TestEquilibriumPrice(t *testing.T) {
	tests := []struct {
		name                   string
		deltaB, deltaS, cS, cB float64
		want                   float64
		wantErr                bool
	}{
		{
			name: "symmetric halves", deltaB: 0.5, deltaS: 0.5, cS: 100, cB: 150,
			want: (50 + 37.5) / 0.75,
		},
		{
			name: "impatient buyer concedes everything", deltaB: 0, deltaS: 0.5, cS: 100, cB: 150,
			want: 100, // (1−0)·cS with no buyer weight
		},
		{
			name: "patient buyer, impatient seller", deltaB: 1, deltaS: 0, cS: 100, cB: 150,
			want: 150,
		},
		{
			name: "undefined at unit product", deltaB: 1, deltaS: 1, cS: 100, cB: 150,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EquilibriumPrice(tt.deltaB, tt.deltaS, tt.cS, tt.cB)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("EquilibriumPrice: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("equilibrium = %v, want %v", got, tt.want)
			}
		})
	}
}
