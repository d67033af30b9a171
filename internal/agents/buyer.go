package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/bargain-sim/internal/engine"
	"github.com/talgya/bargain-sim/internal/negotiation"
)

// Buyer is the LLM-backed buyer agent.
type Buyer struct {
	llm *Client
}

// NewBuyer builds a buyer agent over a chat client.
func NewBuyer(llm *Client) *Buyer {
	return &Buyer{llm: llm}
}

func (b *Buyer) Role() negotiation.Role { return negotiation.RoleBuyer }

// Act produces the buyer's move: infer the seller's private values, fix
// this round's emotion/discount, prompt the model, parse its reply.
func (b *Buyer) Act(ctx context.Context, st negotiation.State) (engine.Move, error) {
	inference := Infer(st)
	choices := buyerChoices(st, inference)

	raw, err := b.llm.Chat(ctx, buyerSystemPrompt, buyerPrompt(st, inference, choices))
	if err != nil {
		return engine.Move{}, err
	}

	action, err := ParseAction(raw)
	if err != nil {
		return engine.Move{}, fmt.Errorf("buyer reply: %w", err)
	}

	return engine.Move{Action: action, Choices: choices, Inference: inference}, nil
}

// Infer returns the buyer's estimate of the seller's private values.
// Current policy is full-information passthrough when inference is
// enabled, and nulls otherwise.
func Infer(st negotiation.State) negotiation.Inference {
	if !st.BuyerInference {
		return negotiation.Inference{}
	}
	cost := st.SellerCost
	emotion := st.SellerEmotion
	discount := st.SellerDiscount
	return negotiation.Inference{
		SellerCost:     &cost,
		SellerEmotion:  &emotion,
		SellerDiscount: &discount,
	}
}

// buyerChoices fixes the buyer's emotion/discount for the turn. Only the
// static passthrough is implemented; an adaptive buyer policy conditioned
// on the inference would hook in here. A dynamic mode on the buyer side
// falls back to the static values, loudly.
func buyerChoices(st negotiation.State, _ negotiation.Inference) negotiation.Choices {
	if st.BuyerEmotionMode == negotiation.ModeDynamic || st.BuyerDiscountMode == negotiation.ModeDynamic {
		slog.Warn("dynamic buyer attributes are not implemented, using static values",
			"emotion_mode", string(st.BuyerEmotionMode),
			"discount_mode", string(st.BuyerDiscountMode))
	}
	return negotiation.Choices{Emotion: st.BuyerEmotion, Discount: st.BuyerDiscount}
}
