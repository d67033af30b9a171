package agents

import (
	"context"
	"fmt"

	"github.com/talgya/bargain-sim/internal/engine"
	"github.com/talgya/bargain-sim/internal/negotiation"
)

// Scripted agents play fixed concession policies with no network calls.
// They keep the simulator usable without an API key and give the engine
// deterministic counterparties in tests. Both reuse their profile's
// static emotion/discount every round.

// ScriptedSeller opens at the standard opening offer and walks its ask
// down by a fixed fraction of the bargaining range each round, never
// below its floor. It accepts any buyer bid at or above the floor.
type ScriptedSeller struct {
	Concession float64 // fraction of the range conceded per round
	MinMargin  float64 // floor above seller cost, as a fraction of the range
}

// NewScriptedSeller returns a seller with moderate concessions.
func NewScriptedSeller() *ScriptedSeller {
	return &ScriptedSeller{Concession: 0.15, MinMargin: 0.1}
}

func (s *ScriptedSeller) Role() negotiation.Role { return negotiation.RoleSeller }

func (s *ScriptedSeller) Act(_ context.Context, st negotiation.State) (engine.Move, error) {
	choices := negotiation.Choices{Emotion: st.SellerEmotion, Discount: st.SellerDiscount}

	if st.Round == 0 {
		price := OpeningOffer(st.BuyerCost, st.SellerCost)
		return offerMove(choices, price,
			fmt.Sprintf("Hi, I am %s. My first offer is $%.2f for the %s. Are you interested?",
				st.SellerName, price, st.ProductName)), nil
	}

	span := st.BuyerCost - st.SellerCost
	floor := st.SellerCost + s.MinMargin*span

	if st.CurrentBuyerOffer != nil && *st.CurrentBuyerOffer >= floor {
		return acceptMove(choices, "Alright, you have a deal."), nil
	}

	ask := OpeningOffer(st.BuyerCost, st.SellerCost)
	if st.CurrentSellerOffer != nil {
		ask = *st.CurrentSellerOffer
	}
	ask -= s.Concession * span
	if ask < floor {
		ask = floor
	}
	return offerMove(choices, ask, fmt.Sprintf("I can come down to $%.2f, but that's stretching it.", ask)), nil
}

// ScriptedBuyer bids upward from the bottom of the range until the
// seller's ask crosses its reservation price, then accepts.
type ScriptedBuyer struct {
	Concession  float64 // fraction of the range added to the bid per round
	Reservation float64 // acceptable ask above seller cost, as a fraction of the range
}

// NewScriptedBuyer returns a buyer willing to meet in the upper middle of
// the range.
func NewScriptedBuyer() *ScriptedBuyer {
	return &ScriptedBuyer{Concession: 0.15, Reservation: 0.6}
}

func (b *ScriptedBuyer) Role() negotiation.Role { return negotiation.RoleBuyer }

func (b *ScriptedBuyer) Act(_ context.Context, st negotiation.State) (engine.Move, error) {
	choices := negotiation.Choices{Emotion: st.BuyerEmotion, Discount: st.BuyerDiscount}
	inference := Infer(st)

	span := st.BuyerCost - st.SellerCost
	reservation := st.SellerCost + b.Reservation*span

	if st.CurrentSellerOffer != nil && *st.CurrentSellerOffer <= reservation {
		move := acceptMove(choices, "That works for me. Deal.")
		move.Inference = inference
		return move, nil
	}

	bid := st.SellerCost + b.Concession*span
	if st.CurrentBuyerOffer != nil {
		bid = *st.CurrentBuyerOffer + b.Concession*span
	}
	if bid > reservation {
		bid = reservation
	}
	move := offerMove(choices, bid, fmt.Sprintf("Best I can do right now is $%.2f.", bid))
	move.Inference = inference
	return move, nil
}

func offerMove(choices negotiation.Choices, price float64, message string) engine.Move {
	return engine.Move{
		Action: negotiation.Action{
			Type:    negotiation.ActionOffer,
			Price:   &price,
			Message: message,
		},
		Choices: choices,
	}
}

func acceptMove(choices negotiation.Choices, message string) engine.Move {
	return engine.Move{
		Action:  negotiation.Action{Type: negotiation.ActionAccept, Message: message},
		Choices: choices,
	}
}
