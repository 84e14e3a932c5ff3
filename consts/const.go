package consts

import (
	"fmt"
	"time"
)

type StateID int

const (
	_ StateID = iota
	StateWelcome
	StateHome
	StateJoin
	StateCreate
	StateRoom
)

const (
	MaxUsers     = 10
	TurnsPerUser = 2

	// KeywordMask replaces the keyword for recipients who may not see it.
	KeywordMask = "???"

	RoomCodeLength = 4
	// RoomCodeChars leaves out characters that are easy to confuse.
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	LoginTimeout    = 3 * time.Second
	TurnTimeout     = 40 * time.Second
	VoteTimeout     = 60 * time.Second
	SweepInterval   = 1 * time.Minute
	RoomIdleTimeout = 24 * time.Hour
)

// Error is a domain error. Msg is safe to show to players; Detail is a
// diagnostic for the logs and is filled per occurrence.
type Error struct {
	Code   int
	Msg    string
	Detail string
	Exit   bool
}

func (e Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Msg
}

// Is matches errors of the same catalogue entry regardless of Detail.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

func (e Error) Detailf(format string, args ...interface{}) Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

func NewErr(code int, exit bool, msg string) Error {
	return Error{Code: code, Exit: exit, Msg: msg}
}

var (
	ErrorsExist             = NewErr(1, true, "Exist. ")
	ErrorsChanClosed        = NewErr(2, true, "Chan closed. ")
	ErrorsTimeout           = NewErr(3, false, "Timeout. ")
	ErrorsInputInvalid      = NewErr(4, false, "Input invalid. ")
	ErrorsAuthFail          = NewErr(5, true, "Auth fail. ")
	ErrorsRoomNotFound      = NewErr(6, false, "Room not found. ")
	ErrorsRoomPlayersIsFull = NewErr(7, false, "Room players is full. ")

	ErrorsRejoinTargetNotFound = NewErr(20, false, "Could not rejoin. ")
	ErrorsNameTaken            = NewErr(21, false, "Name already taken in this room. ")
	ErrorsNotHost              = NewErr(22, false, "Only the host can do that. ")
	ErrorsGameInProgress       = NewErr(23, false, "Game already in progress. ")
	ErrorsNotEnoughUsers       = NewErr(24, false, "Not enough players. ")
	ErrorsNotPlaying           = NewErr(25, false, "Nobody is drawing right now. ")
	ErrorsNotYourTurn          = NewErr(26, false, "It is not your turn. ")
	ErrorsNotVoting            = NewErr(27, false, "Voting is not open. ")
	ErrorsAlreadyVoted         = NewErr(28, false, "You already voted. ")
	ErrorsUnknownVoter         = NewErr(29, false, "You are not in this round. ")
	ErrorsUnknownAccused       = NewErr(30, false, "No such player. ")
	ErrorsOffline              = NewErr(31, true, "Connection lost. ")
)

// Events sent to clients.
const (
	EventWelcome = "welcome"
	EventRoom    = "room"
	EventState   = "state"
	EventNotice  = "notice"
	EventError   = "error"
)
