// Package engine drives the negotiation rounds: seller turn, buyer turn,
// round increment, stop check.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/bargain-sim/internal/negotiation"
)

// Move is one party's complete output for a turn: the action itself, the
// emotion/discount the party committed to, and (buyer only) its inference
// on the seller's private values.
type Move struct {
	Action    negotiation.Action
	Choices   negotiation.Choices
	Inference negotiation.Inference
}

// Agent produces a move from the current state. Implementations may block
// on network calls; a returned error is fatal to the run — the engine
// performs no retry.
type Agent interface {
	Role() negotiation.Role
	Act(ctx context.Context, st negotiation.State) (Move, error)
}

// Runner sequences a single negotiation between one seller and one buyer.
// It introduces no randomness and no I/O of its own: given deterministic
// agents, replaying a run from the same initial state yields the same
// trajectory.
type Runner struct {
	seller Agent
	buyer  Agent
}

// NewRunner wires a seller and buyer agent into a runner. The agents'
// declared roles must match their seats.
func NewRunner(seller, buyer Agent) (*Runner, error) {
	if r := seller.Role(); r != negotiation.RoleSeller {
		return nil, fmt.Errorf("seller seat given a %q agent", r)
	}
	if r := buyer.Role(); r != negotiation.RoleBuyer {
		return nil, fmt.Errorf("buyer seat given a %q agent", r)
	}
	return &Runner{seller: seller, buyer: buyer}, nil
}

// Run plays the negotiation to a terminal state. Each round the seller
// acts first (round 0 issues the opening offer), then the buyer; the round
// counter increments once per full exchange, and the run ends on
// agreement, breakdown, or round exhaustion.
func (r *Runner) Run(ctx context.Context, st negotiation.State) (negotiation.State, error) {
	for {
		move, err := r.seller.Act(ctx, st)
		if err != nil {
			return st, fmt.Errorf("seller turn (round %d): %w", st.Round, err)
		}
		st, err = negotiation.ApplySellerAction(st, move.Action, move.Choices)
		if err != nil {
			return st, fmt.Errorf("seller turn (round %d): %w", st.Round, err)
		}

		move, err = r.buyer.Act(ctx, st)
		if err != nil {
			return st, fmt.Errorf("buyer turn (round %d): %w", st.Round, err)
		}
		st, err = negotiation.ApplyBuyerAction(st, move.Action, move.Inference, move.Choices)
		if err != nil {
			return st, fmt.Errorf("buyer turn (round %d): %w", st.Round, err)
		}

		st = negotiation.IncrementRound(st)

		if st.Done() {
			slog.Debug("negotiation finished",
				"round", st.Round,
				"agreement", st.AgreementReached,
				"breakdown", st.Breakdown,
			)
			return st, nil
		}
	}
}
