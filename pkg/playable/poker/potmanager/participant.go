package potmanager

// Participant provides an interface for identifying a player and returning uncalled chips
type Participant interface {
	ID() string
	// IsActive returns false once the participant folded or left the table
	IsActive() bool
	AdjustBalance(amount int)
}

// Contribution is what a participant committed during a single betting round
// Participants who are still in the hand must be included even if they committed nothing
type Contribution struct {
	Participant Participant
	Amount      int
}

// Refund is an uncalled amount returned directly to a participant's balance
type Refund struct {
	Participant Participant
	Amount      int
}
