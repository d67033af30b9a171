package agents

import (
	"context"
	"fmt"

	"github.com/talgya/bargain-sim/internal/dynamics"
	"github.com/talgya/bargain-sim/internal/engine"
	"github.com/talgya/bargain-sim/internal/negotiation"
)

// OpeningOffer is the seller's default round-0 price: just inside the
// buyer's valuation, conceding 5% of the bargaining range.
func OpeningOffer(buyerCost, sellerCost float64) float64 {
	return buyerCost - 0.05*(buyerCost-sellerCost)
}

// Seller is the LLM-backed seller agent. Its emotion and discount evolve
// each round through the dynamics model when their modes are dynamic; the
// model itself is non-adaptive (it does not read the conversation, only
// the offer trajectory).
type Seller struct {
	llm *Client
	dyn *dynamics.Model
}

// NewSeller builds a seller agent over a chat client and a dynamics model.
func NewSeller(llm *Client, dyn *dynamics.Model) *Seller {
	return &Seller{llm: llm, dyn: dyn}
}

func (s *Seller) Role() negotiation.Role { return negotiation.RoleSeller }

// Act produces the seller's move. Round 0 is the deterministic opening
// offer and skips the model call entirely; later rounds evolve
// emotion/discount, prompt the model, and parse its reply.
func (s *Seller) Act(ctx context.Context, st negotiation.State) (engine.Move, error) {
	if st.Round == 0 {
		price := OpeningOffer(st.BuyerCost, st.SellerCost)
		if st.InitialOffer != nil {
			price = *st.InitialOffer
		}
		message := fmt.Sprintf("Hi, I am %s. My first offer is $%.2f for the %s. Are you interested?",
			st.SellerName, price, st.ProductName)
		return engine.Move{
			Action: negotiation.Action{
				Type:    negotiation.ActionOffer,
				Price:   &price,
				Message: message,
			},
			Choices: negotiation.Choices{Emotion: st.SellerEmotion, Discount: st.SellerDiscount},
		}, nil
	}

	choices, err := s.evolve(st)
	if err != nil {
		return engine.Move{}, err
	}

	raw, err := s.llm.Chat(ctx, sellerSystemPrompt, sellerPrompt(st, choices))
	if err != nil {
		return engine.Move{}, err
	}

	action, err := ParseAction(raw)
	if err != nil {
		return engine.Move{}, fmt.Errorf("seller reply: %w", err)
	}

	return engine.Move{Action: action, Choices: choices}, nil
}

// evolve derives this round's emotion and discount: dynamics output when
// the mode is dynamic, the prior value otherwise.
func (s *Seller) evolve(st negotiation.State) (negotiation.Choices, error) {
	discount := st.SellerDiscount
	if st.SellerDiscountMode == negotiation.ModeDynamic {
		if st.CurrentBuyerOffer == nil {
			return negotiation.Choices{}, fmt.Errorf("dynamic discount needs a standing buyer offer at round %d", st.Round)
		}
		var err error
		discount, err = s.dyn.NextDiscount(st.SellerDiscount, st.Round, st.MaxRounds,
			*st.CurrentBuyerOffer, st.SellerCost, st.BuyerCost)
		if err != nil {
			return negotiation.Choices{}, err
		}
	}

	emotion := st.SellerEmotion
	if st.SellerEmotionMode == negotiation.ModeDynamic {
		emotion = s.dyn.NextEmotion(discount)
	}

	return negotiation.Choices{Emotion: emotion, Discount: discount}, nil
}
