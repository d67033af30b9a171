package agents

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talgya/bargain-sim/internal/negotiation"
)

// wireAction mirrors the JSON object agents must reply with. Pointer
// fields distinguish a missing key from a zero value.
type wireAction struct {
	Action  *string  `json:"action"`
	Price   *float64 `json:"price"`
	Message *string  `json:"message"`
}

// ParseAction extracts and validates the action object from a raw model
// reply. The model may wrap the JSON in prose, so the outermost object is
// located by brackets first. Any structural defect (no object, missing
// required keys, an offer without a price) is an agent contract
// violation, fatal to the run.
func ParseAction(raw string) (negotiation.Action, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return negotiation.Action{}, fmt.Errorf("no JSON object found in reply: %q", truncate(raw, 120))
	}

	var w wireAction
	if err := json.Unmarshal([]byte(raw[start:end+1]), &w); err != nil {
		return negotiation.Action{}, fmt.Errorf("malformed action object: %w", err)
	}

	if w.Action == nil {
		return negotiation.Action{}, fmt.Errorf("reply is missing the %q key", "action")
	}
	if w.Message == nil {
		return negotiation.Action{}, fmt.Errorf("reply is missing the %q key", "message")
	}

	act := negotiation.Action{
		Type:    negotiation.ActionType(*w.Action),
		Price:   w.Price,
		Message: *w.Message,
	}
	if err := act.Validate(); err != nil {
		return negotiation.Action{}, err
	}
	return act, nil
}

// truncate shortens s to at most n bytes, backing up so the cut never
// lands inside a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
