package negotiation

import (
	"testing"

	"github.com/talgya/bargain-sim/internal/scenario"
)

func testState(t *testing.T) State {
	t.Helper()
	product := scenario.Product{
		Name:        "Laptop001",
		Description: "a used laptop",
		Category:    "electronics",
		Condition:   "good",
		Used:        2,
		BuyerCost:   150,
		SellerCost:  100,
	}
	buyer := scenario.Persona{Personality: "frugal", Background: "student", Emotion: "neutral", Discount: 0.5}
	seller := scenario.Persona{Personality: "firm", Background: "shop owner", Emotion: "baseline", Discount: 0.6}

	st, err := NewState(product, "Ravi", buyer, "Leah", seller, Options{MaxRounds: 10})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

func offer(price float64, msg string) Action {
	return Action{Type: ActionOffer, Price: &price, Message: msg}
}

func TestSellerOpeningOffer(t *testing.T) {
	st := testState(t)

	next, err := ApplySellerAction(st, offer(147.5, "my first offer"), Choices{})
	if err != nil {
		t.Fatalf("ApplySellerAction: %v", err)
	}

	if next.InitialOffer == nil || *next.InitialOffer != 147.5 {
		t.Errorf("initial offer = %v, want 147.5", next.InitialOffer)
	}
	if next.CurrentSellerOffer == nil || *next.CurrentSellerOffer != 147.5 {
		t.Errorf("current seller offer = %v, want 147.5", next.CurrentSellerOffer)
	}
	if next.LastSellerOffer != nil {
		t.Errorf("last seller offer should stay nil on the opening offer, got %v", *next.LastSellerOffer)
	}
	if next.CurrentOfferBy == nil || *next.CurrentOfferBy != RoleSeller {
		t.Errorf("current offer by = %v, want seller", next.CurrentOfferBy)
	}
	if len(next.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(next.History))
	}
	if next.History[0].Role != RoleSeller || next.History[0].Action != "offer" {
		t.Errorf("first history entry = %+v", next.History[0])
	}
}

func TestSellerMustOpenWithOffer(t *testing.T) {
	st := testState(t)
	_, err := ApplySellerAction(st, Action{Type: ActionAccept, Message: "deal"}, Choices{})
	if err == nil {
		t.Fatal("expected error for non-offer seller action at round 0")
	}
}

func TestOfferShiftsCurrentToLast(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	st, _ = ApplyBuyerAction(st, offer(110, "too high"), Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	st = IncrementRound(st)

	choices := Choices{Emotion: "sadness", Discount: 0.4}
	st, err := ApplySellerAction(st, offer(140, "meet me halfway"), choices)
	if err != nil {
		t.Fatalf("ApplySellerAction: %v", err)
	}

	if st.LastSellerOffer == nil || *st.LastSellerOffer != 147.5 {
		t.Errorf("last seller offer = %v, want 147.5", st.LastSellerOffer)
	}
	if st.CurrentSellerOffer == nil || *st.CurrentSellerOffer != 140 {
		t.Errorf("current seller offer = %v, want 140", st.CurrentSellerOffer)
	}
	if st.SellerEmotion != "sadness" || st.SellerDiscount != 0.4 {
		t.Errorf("seller choices not applied: emotion=%q discount=%v", st.SellerEmotion, st.SellerDiscount)
	}

	last := st.History[len(st.History)-1]
	if last.Emotion != "sadness" || last.Discount != 0.4 {
		t.Errorf("history entry not tagged with choices: %+v", last)
	}
}

func TestAcceptLocksCounterpartyOffer(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})

	// Buyer accepts: agreed price is the seller's standing offer, not
	// anything of the buyer's.
	next, err := ApplyBuyerAction(st, Action{Type: ActionAccept, Message: "deal"}, Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	if err != nil {
		t.Fatalf("ApplyBuyerAction: %v", err)
	}
	if !next.AgreementReached {
		t.Fatal("agreement not reached after accept")
	}
	if next.AgreedPrice == nil || *next.AgreedPrice != 147.5 {
		t.Errorf("agreed price = %v, want 147.5", next.AgreedPrice)
	}
}

func TestSellerAcceptLocksBuyerOffer(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	st, _ = ApplyBuyerAction(st, offer(120, "counter"), Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	st = IncrementRound(st)

	next, err := ApplySellerAction(st, Action{Type: ActionAccept, Message: "fine, deal"}, Choices{Emotion: "trust", Discount: 0.6})
	if err != nil {
		t.Fatalf("ApplySellerAction: %v", err)
	}
	if next.AgreedPrice == nil || *next.AgreedPrice != 120 {
		t.Errorf("agreed price = %v, want the buyer's offer 120", next.AgreedPrice)
	}
}

func TestAcceptIsIdempotentOncePriceIsLocked(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	st, _ = ApplyBuyerAction(st, Action{Type: ActionAccept, Message: "deal"}, Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	st = IncrementRound(st)

	// A second accept, this time from the seller after a new buyer offer
	// would have been meaningless anyway, must not revise the price.
	next, err := ApplySellerAction(st, Action{Type: ActionAccept, Message: "yes, agreed"}, Choices{Emotion: "joy", Discount: 0.6})
	if err != nil {
		t.Fatalf("ApplySellerAction: %v", err)
	}
	if next.AgreedPrice == nil || *next.AgreedPrice != 147.5 {
		t.Errorf("agreed price revised to %v, want 147.5 unchanged", next.AgreedPrice)
	}
}

func TestAcceptWithNoStandingOfferIsAnError(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	st, _ = ApplyBuyerAction(st, Action{Type: "ponder", Message: "let me think"}, Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	st = IncrementRound(st)

	// The buyer never made an offer, so there is nothing for the seller
	// to accept.
	if _, err := ApplySellerAction(st, Action{Type: ActionAccept, Message: "deal"}, Choices{Emotion: "joy", Discount: 0.6}); err == nil {
		t.Fatal("expected error: seller accept with no buyer offer on the table")
	}
}

func TestBreakdownSetsFlag(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})

	next, err := ApplyBuyerAction(st, Action{Type: ActionBreakdown, Message: "forget it"}, Inference{}, Choices{Emotion: "anger", Discount: 0.5})
	if err != nil {
		t.Fatalf("ApplyBuyerAction: %v", err)
	}
	if !next.Breakdown {
		t.Error("breakdown flag not set")
	}
	if next.AgreedPrice != nil {
		t.Errorf("agreed price should stay nil after breakdown, got %v", *next.AgreedPrice)
	}
}

func TestChitChatChangesNoOffers(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	before := st

	next, err := ApplyBuyerAction(st, Action{Type: "ponder", Message: "hmm, let me think"}, Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	if err != nil {
		t.Fatalf("ApplyBuyerAction: %v", err)
	}
	if next.CurrentBuyerOffer != nil {
		t.Errorf("chit-chat set a buyer offer: %v", *next.CurrentBuyerOffer)
	}
	if next.CurrentSellerOffer == nil || *next.CurrentSellerOffer != *before.CurrentSellerOffer {
		t.Error("chit-chat disturbed the seller's standing offer")
	}
	if len(next.History) != len(before.History)+1 {
		t.Error("chit-chat should still be recorded in history")
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	st := testState(t)
	st, _ = ApplySellerAction(st, offer(147.5, "opening"), Choices{})
	historyLen := len(st.History)
	emotion := st.SellerEmotion

	_, err := ApplyBuyerAction(st, offer(110, "counter"), Inference{}, Choices{Emotion: "neutral", Discount: 0.5})
	if err != nil {
		t.Fatalf("ApplyBuyerAction: %v", err)
	}
	st2, err := ApplySellerAction(IncrementRound(st), Action{Type: ActionBreakdown, Message: "no"}, Choices{Emotion: "anger", Discount: 0.1})
	if err != nil {
		t.Fatalf("ApplySellerAction: %v", err)
	}

	if len(st.History) != historyLen {
		t.Errorf("input history grew from %d to %d", historyLen, len(st.History))
	}
	if st.Breakdown {
		t.Error("input state picked up the breakdown flag")
	}
	if st.SellerEmotion != emotion {
		t.Errorf("input seller emotion changed from %q to %q", emotion, st.SellerEmotion)
	}
	if !st2.Breakdown {
		t.Error("returned state missing the breakdown flag")
	}
}

func TestActionValidation(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{name: "offer with price", action: offer(120, "here"), wantErr: false},
		{name: "offer without price", action: Action{Type: ActionOffer, Message: "here"}, wantErr: true},
		{name: "missing type", action: Action{Message: "hello"}, wantErr: true},
		{name: "missing message", action: Action{Type: ActionAccept}, wantErr: true},
		{name: "accept", action: Action{Type: ActionAccept, Message: "ok"}, wantErr: false},
		{name: "chit-chat label", action: Action{Type: "ponder", Message: "hmm"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModeSelection(t *testing.T) {
	product := scenario.Product{Name: "x", BuyerCost: 10, SellerCost: 5}
	persona := scenario.Persona{Emotion: "neutral", Discount: 0.5}

	st, err := NewState(product, "b", persona, "s", persona, Options{
		SellerStatic: []string{"discount"},
		BuyerStatic:  []string{"emotion", "discount"},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	if st.SellerDiscountMode != ModeStatic || st.SellerEmotionMode != ModeDynamic {
		t.Errorf("seller modes = %s/%s, want static discount, dynamic emotion",
			st.SellerDiscountMode, st.SellerEmotionMode)
	}
	if st.BuyerDiscountMode != ModeStatic || st.BuyerEmotionMode != ModeStatic {
		t.Errorf("buyer modes = %s/%s, want both static", st.BuyerDiscountMode, st.BuyerEmotionMode)
	}
	if st.MaxRounds != 10 {
		t.Errorf("default max rounds = %d, want 10", st.MaxRounds)
	}
}
