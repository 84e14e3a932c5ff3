package game

// Phase is the room phase as sent to clients.
type Phase string

const (
	PhaseSetup Phase = "SETUP"
	PhasePlay  Phase = "PLAY"
	PhaseVote  Phase = "VOTE"
	PhaseEnd   Phase = "END"
)

func (p Phase) String() string {
	return string(p)
}

// InProgress reports whether a round is being drawn or voted on.
func (p Phase) InProgress() bool {
	return p == PhasePlay || p == PhaseVote
}
