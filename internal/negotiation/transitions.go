package negotiation

import "fmt"

// ApplySellerAction folds one validated seller action into the state.
// Stochastic quantities (the seller's emotion/discount for the turn) are
// computed by the caller and passed in via choices; the fold itself is
// deterministic. The input state is not modified.
func ApplySellerAction(st State, action Action, choices Choices) (State, error) {
	if err := action.Validate(); err != nil {
		return State{}, fmt.Errorf("seller action: %w", err)
	}

	// Round 0 is always the opening offer. It seeds initial_offer and does
	// not advance last_seller_offer — there is no prior offer to shift.
	if st.Round == 0 {
		if action.Type != ActionOffer {
			return State{}, fmt.Errorf("seller must open round 0 with an offer, got %q", action.Type)
		}
		next := st
		next.InitialOffer = ptr(*action.Price)
		next.CurrentSellerOffer = ptr(*action.Price)
		next.CurrentOfferBy = ptr(RoleSeller)
		return next.withHistory(HistoryEntry{
			Role:     RoleSeller,
			Action:   string(action.Type),
			Price:    ptr(*action.Price),
			Message:  action.Message,
			Emotion:  st.SellerEmotion,
			Discount: st.SellerDiscount,
		}), nil
	}

	next := st
	next.SellerEmotion = choices.Emotion
	next.SellerDiscount = choices.Discount

	entry := HistoryEntry{
		Role:     RoleSeller,
		Action:   string(action.Type),
		Message:  action.Message,
		Emotion:  choices.Emotion,
		Discount: choices.Discount,
	}

	switch action.Type {
	case ActionOffer:
		next.LastSellerOffer = next.CurrentSellerOffer
		next.CurrentSellerOffer = ptr(*action.Price)
		next.CurrentOfferBy = ptr(RoleSeller)
		entry.Price = ptr(*action.Price)

	case ActionAccept:
		// Acceptance locks in the counterparty's standing offer. A second
		// accept after agreement is a harmless no-op on price.
		if !next.AgreementReached {
			if next.CurrentBuyerOffer == nil {
				return State{}, fmt.Errorf("seller accepted with no standing buyer offer")
			}
			next.AgreedPrice = next.CurrentBuyerOffer
			next.AgreementReached = true
		}

	case ActionBreakdown:
		next.Breakdown = true

	default:
		// Chit-chat: recorded in history, no offer fields change.
	}

	return next.withHistory(entry), nil
}

// ApplyBuyerAction is the buyer-side fold, symmetric to the seller path.
// The buyer has no round-0 special case because the seller always moves
// first. Inference results and the buyer's emotion/discount choices are
// computed by the caller.
func ApplyBuyerAction(st State, action Action, inference Inference, choices Choices) (State, error) {
	if err := action.Validate(); err != nil {
		return State{}, fmt.Errorf("buyer action: %w", err)
	}

	next := st
	next.InferSellerCost = inference.SellerCost
	next.InferSellerEmotion = inference.SellerEmotion
	next.InferSellerDiscount = inference.SellerDiscount
	next.BuyerEmotion = choices.Emotion
	next.BuyerDiscount = choices.Discount

	entry := HistoryEntry{
		Role:     RoleBuyer,
		Action:   string(action.Type),
		Message:  action.Message,
		Emotion:  choices.Emotion,
		Discount: choices.Discount,
	}

	switch action.Type {
	case ActionOffer:
		next.LastBuyerOffer = next.CurrentBuyerOffer
		next.CurrentBuyerOffer = ptr(*action.Price)
		next.CurrentOfferBy = ptr(RoleBuyer)
		entry.Price = ptr(*action.Price)

	case ActionAccept:
		if !next.AgreementReached {
			if next.CurrentSellerOffer == nil {
				return State{}, fmt.Errorf("buyer accepted with no standing seller offer")
			}
			next.AgreedPrice = next.CurrentSellerOffer
			next.AgreementReached = true
		}

	case ActionBreakdown:
		next.Breakdown = true

	default:
		// Chit-chat.
	}

	return next.withHistory(entry), nil
}

// IncrementRound advances the round counter after a full seller+buyer
// exchange. The round never moves any other way.
func IncrementRound(st State) State {
	st.Round++
	return st
}
