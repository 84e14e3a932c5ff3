package database

import "github.com/ratel-online/faker/game"

const (
	ActionCreate = "create"
	ActionJoin   = "join"
	ActionStart  = "start"
	ActionSetup  = "setup"
	ActionStroke = "stroke"
	ActionSkip   = "skip"
	ActionVote   = "vote"
	ActionState  = "state"
	ActionLeave  = "leave"
)

// Command is a client request.
type Command struct {
	Action string       `json:"action"`
	Room   string       `json:"room,omitempty"`
	Name   string       `json:"name,omitempty"`
	Points []game.Point `json:"points,omitempty"`
}
