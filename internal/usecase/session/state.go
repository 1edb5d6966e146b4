package session

import (
	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/gap"
)

// State is the accumulated result of a run, shared by every session.
type State struct {
	Ticks []tickv1.Tick
	Gaps  *gap.Tracker
}

// NewState returns an empty state expecting sequence 1.
func NewState() *State {
	return &State{Gaps: gap.NewTracker()}
}
