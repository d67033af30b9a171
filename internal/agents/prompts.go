package agents

import (
	"fmt"
	"strings"

	"github.com/talgya/bargain-sim/internal/negotiation"
)

const (
	sellerSystemPrompt = "You are a seller agent in a bargaining simulation."
	buyerSystemPrompt  = "You are a buyer agent in a bargaining simulation."

	// How many transcript entries to replay in the prompt.
	historyWindow = 8
)

const replyInstructions = `Respond ONLY with a JSON object:
{"action": "offer" | "accept" | "breakdown", "price": <number>, "message": "<what you say>"}
- "offer": propose a price (set "price" to your proposal)
- "accept": take the other party's standing offer
- "breakdown": walk away from the negotiation permanently`

func sellerPrompt(st negotiation.State, choices negotiation.Choices) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, selling the %s.\n", st.SellerName, st.ProductName)
	fmt.Fprintf(&b, "Personality: %s\nBackground: %s\n", st.SellerPersonality, st.SellerBackground)
	fmt.Fprintf(&b, "Your current emotion is %s and your bargaining patience is %.2f (0 = impatient, 1 = very patient).\n\n",
		choices.Emotion, choices.Discount)

	writeProduct(&b, st)

	fmt.Fprintf(&b, "Your minimum acceptable price is $%.2f. Never sell below it.\n\n", st.SellerCost)

	writeOffers(&b, st)
	writeHistory(&b, st)

	fmt.Fprintf(&b, "It is round %d of %d. Decide your next move as the seller.\n\n", st.Round, st.MaxRounds)
	b.WriteString(replyInstructions)
	return b.String()
}

func buyerPrompt(st negotiation.State, inference negotiation.Inference, choices negotiation.Choices) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, looking to buy the %s.\n", st.BuyerName, st.ProductName)
	fmt.Fprintf(&b, "Personality: %s\nBackground: %s\n", st.BuyerPersonality, st.BuyerBackground)
	fmt.Fprintf(&b, "Your current emotion is %s and your bargaining patience is %.2f (0 = impatient, 1 = very patient).\n\n",
		choices.Emotion, choices.Discount)

	writeProduct(&b, st)

	fmt.Fprintf(&b, "The most you are willing to pay is $%.2f. Never offer above it.\n\n", st.BuyerCost)

	if inference.SellerCost != nil {
		fmt.Fprintf(&b, "Your read on the seller: minimum price around $%.2f", *inference.SellerCost)
		if inference.SellerEmotion != nil {
			fmt.Fprintf(&b, ", emotion %s", *inference.SellerEmotion)
		}
		if inference.SellerDiscount != nil {
			fmt.Fprintf(&b, ", patience %.2f", *inference.SellerDiscount)
		}
		b.WriteString(".\n\n")
	}

	writeOffers(&b, st)
	writeHistory(&b, st)

	fmt.Fprintf(&b, "It is round %d of %d. Decide your next move as the buyer.\n\n", st.Round, st.MaxRounds)
	b.WriteString(replyInstructions)
	return b.String()
}

func writeProduct(b *strings.Builder, st negotiation.State) {
	fmt.Fprintf(b, "Product: %s — %s\n", st.ProductName, st.ProductDescription)
	fmt.Fprintf(b, "Category: %s. Condition: %s, used for %d years.\n",
		st.ProductCategory, st.ProductCondition, st.ProductUsed)
	fmt.Fprintf(b, "Market: similar items sell for about $%.2f ($%.2f new). Demand %d/10, supply %d/10.\n\n",
		st.AvgSimilarPrice, st.AvgNewPrice, st.Demand, st.Supply)
}

func writeOffers(b *strings.Builder, st negotiation.State) {
	b.WriteString("Standing offers:\n")
	if st.CurrentSellerOffer != nil {
		fmt.Fprintf(b, "- seller asks $%.2f\n", *st.CurrentSellerOffer)
	}
	if st.CurrentBuyerOffer != nil {
		fmt.Fprintf(b, "- buyer bids $%.2f\n", *st.CurrentBuyerOffer)
	}
	if st.CurrentSellerOffer == nil && st.CurrentBuyerOffer == nil {
		b.WriteString("- none yet\n")
	}
	b.WriteString("\n")
}

func writeHistory(b *strings.Builder, st negotiation.State) {
	if len(st.History) == 0 {
		return
	}

	entries := st.History
	if len(entries) > historyWindow {
		entries = entries[len(entries)-historyWindow:]
	}

	b.WriteString("Conversation so far:\n")
	for _, e := range entries {
		if e.Price != nil {
			fmt.Fprintf(b, "- %s (%s, $%.2f): %s\n", e.Role, e.Action, *e.Price, e.Message)
		} else {
			fmt.Fprintf(b, "- %s (%s): %s\n", e.Role, e.Action, e.Message)
		}
	}
	b.WriteString("\n")
}
