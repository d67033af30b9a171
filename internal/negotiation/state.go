// Package negotiation provides the negotiation state record and the
// transition functions that fold party actions into it.
package negotiation

import (
	"fmt"

	"github.com/talgya/bargain-sim/internal/scenario"
)

// Role identifies which side of the table an actor sits on.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Mode controls whether a party attribute stays fixed for the whole run
// or is re-derived each round.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// HistoryEntry is one turn in the canonical transcript. Entries are
// immutable once appended; insertion order is the conversation order.
type HistoryEntry struct {
	Role     Role     `json:"role"`
	Action   string   `json:"action"`
	Price    *float64 `json:"price,omitempty"`
	Message  string   `json:"message"`
	Emotion  string   `json:"emotion"`
	Discount float64  `json:"discount"`
}

// State is the complete record of a negotiation in progress. It is never
// mutated in place: every transition returns a fresh value, so callers can
// keep snapshots of earlier steps.
type State struct {
	Round     int `json:"round"`
	MaxRounds int `json:"max_rounds"`

	BuyerName  string `json:"buyer_name"`
	SellerName string `json:"seller_name"`

	// Product under negotiation. Market conditions (demand/supply) are
	// assumed known to both parties.
	ProductName        string  `json:"product_name"`
	ProductDescription string  `json:"product_description"`
	ProductCategory    string  `json:"product_category"`
	ProductCondition   string  `json:"product_condition"`
	ProductUsed        int     `json:"product_used"`
	AvgSimilarPrice    float64 `json:"avg_similar_price"`
	AvgNewPrice        float64 `json:"avg_new_price"`
	Demand             int     `json:"demand"`
	Supply             int     `json:"supply"`

	// Trajectory of offers.
	InitialOffer       *float64 `json:"initial_offer"`
	CurrentOfferBy     *Role    `json:"current_offer_by"`
	CurrentBuyerOffer  *float64 `json:"current_buyer_offer"`
	CurrentSellerOffer *float64 `json:"current_seller_offer"`
	LastBuyerOffer     *float64 `json:"last_buyer_offer"`
	LastSellerOffer    *float64 `json:"last_seller_offer"`

	// Outcome.
	AgreementReached bool     `json:"agreement_reached"`
	Breakdown        bool     `json:"breakdown"`
	AgreedPrice      *float64 `json:"agreed_price"`

	// Buyer private attributes (not available to the seller).
	BuyerPersonality string  `json:"buyer_personality"`
	BuyerBackground  string  `json:"buyer_background"`
	BuyerCost        float64 `json:"buyer_cost"` // maximum willingness to pay
	BuyerEmotion     string  `json:"buyer_emotion"`
	BuyerDiscount    float64 `json:"buyer_discount"`

	// Seller private attributes (not available to the buyer).
	SellerPersonality string  `json:"seller_personality"`
	SellerBackground  string  `json:"seller_background"`
	SellerCost        float64 `json:"seller_cost"` // minimum acceptable price
	SellerEmotion     string  `json:"seller_emotion"`
	SellerDiscount    float64 `json:"seller_discount"`

	// Buyer's inference on seller private information. Nil unless
	// inference is enabled.
	InferSellerCost     *float64 `json:"infer_seller_cost"`
	InferSellerEmotion  *string  `json:"infer_seller_emotion"`
	InferSellerDiscount *float64 `json:"infer_seller_discount"`

	// Behavior modes. For the seller, "dynamic" means evolving by the
	// non-adaptive stochastic model; for the buyer it would mean an
	// adaptive conversation-dependent policy.
	BuyerEmotionMode   Mode `json:"buyer_emotion_type"`
	BuyerDiscountMode  Mode `json:"buyer_discount_type"`
	BuyerInference     bool `json:"buyer_inference"`
	SellerEmotionMode  Mode `json:"seller_emotion_type"`
	SellerDiscountMode Mode `json:"seller_discount_type"`

	History []HistoryEntry `json:"history"`

	// Most recent message text, kept for prompting convenience only.
	// The history is the authoritative transcript.
	LastMessage string `json:"last_message"`
}

// Options configures a new negotiation run.
type Options struct {
	MaxRounds int // defaults to 10

	// Attribute names ("emotion", "discount") held static for the run.
	// Anything not listed evolves dynamically.
	SellerStatic []string
	BuyerStatic  []string

	// Inference lets the buyer estimate seller private values.
	Inference bool
}

// NewState builds the initial negotiation state from a product scenario and
// two persona profiles.
func NewState(product scenario.Product, buyerName string, buyer scenario.Persona, sellerName string, seller scenario.Persona, opts Options) (State, error) {
	maxRounds := opts.MaxRounds
	if maxRounds == 0 {
		maxRounds = 10
	}
	if maxRounds < 0 {
		return State{}, fmt.Errorf("max rounds must be positive, got %d", maxRounds)
	}

	st := State{
		Round:     0,
		MaxRounds: maxRounds,

		BuyerName:  buyerName,
		SellerName: sellerName,

		ProductName:        product.Name,
		ProductDescription: product.Description,
		ProductCategory:    product.Category,
		ProductCondition:   product.Condition,
		ProductUsed:        product.Used,
		AvgSimilarPrice:    product.AvgSimilarPrice,
		AvgNewPrice:        product.AvgNewPrice,
		Demand:             product.Demand,
		Supply:             product.Supply,

		BuyerPersonality: buyer.Personality,
		BuyerBackground:  buyer.Background,
		BuyerCost:        product.BuyerCost,
		BuyerEmotion:     buyer.Emotion,
		BuyerDiscount:    buyer.Discount,

		SellerPersonality: seller.Personality,
		SellerBackground:  seller.Background,
		SellerCost:        product.SellerCost,
		SellerEmotion:     seller.Emotion,
		SellerDiscount:    seller.Discount,

		BuyerEmotionMode:   modeFor("emotion", opts.BuyerStatic),
		BuyerDiscountMode:  modeFor("discount", opts.BuyerStatic),
		BuyerInference:     opts.Inference,
		SellerEmotionMode:  modeFor("emotion", opts.SellerStatic),
		SellerDiscountMode: modeFor("discount", opts.SellerStatic),
	}
	return st, nil
}

func modeFor(attr string, static []string) Mode {
	for _, s := range static {
		if s == attr {
			return ModeStatic
		}
	}
	return ModeDynamic
}

// Done reports whether a terminal condition holds: agreement, breakdown,
// or round exhaustion.
func (s State) Done() bool {
	return s.AgreementReached || s.Breakdown || s.Round >= s.MaxRounds
}

// withHistory returns a copy of s with entry appended to a fresh history
// slice, leaving the receiver's transcript untouched.
func (s State) withHistory(entry HistoryEntry) State {
	history := make([]HistoryEntry, len(s.History), len(s.History)+1)
	copy(history, s.History)
	s.History = append(history, entry)
	s.LastMessage = entry.Message
	return s
}

func ptr[T any](v T) *T { return &v }
