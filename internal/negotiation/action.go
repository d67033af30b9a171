package negotiation

import "fmt"

// ActionType labels what a party is doing with its turn. Labels outside
// the known set are treated as chit-chat: the message is recorded but no
// offer field changes.
type ActionType string

const (
	ActionOffer     ActionType = "offer"
	ActionAccept    ActionType = "accept"
	ActionBreakdown ActionType = "breakdown"
)

// Action is one party's structured move for a turn. Price is required for
// offers and ignored otherwise.
type Action struct {
	Type    ActionType `json:"action"`
	Price   *float64   `json:"price,omitempty"`
	Message string     `json:"message"`
}

// Validate checks the structural contract every agent must honor: a
// non-empty action label, a message, and a price on offers. A violation
// here is a contract failure, fatal to the run.
func (a Action) Validate() error {
	if a.Type == "" {
		return fmt.Errorf("action is missing its type label")
	}
	if a.Message == "" {
		return fmt.Errorf("action %q is missing a message", a.Type)
	}
	if a.Type == ActionOffer && a.Price == nil {
		return fmt.Errorf("offer action is missing a price")
	}
	return nil
}

// Choices carries the emotion/discount the acting party committed to for
// this turn, either static profile values or fresh dynamics output.
type Choices struct {
	Emotion  string
	Discount float64
}

// Inference is the buyer's estimate of the seller's private values. All
// fields are nil when inference is disabled.
type Inference struct {
	SellerCost     *float64
	SellerEmotion  *string
	SellerDiscount *float64
}
