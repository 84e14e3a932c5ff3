// Package adapter projects a game room into the snapshot sent to clients and
// redacts it per recipient. Nothing here mutates a room.
package adapter

import (
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/game"
)

const (
	FieldRoomCode    = "roomCode"
	FieldUsers       = "users"
	FieldRound       = "round"
	FieldPhase       = "phase"
	FieldTurn        = "turn"
	FieldWhoseTurn   = "whoseTurn"
	FieldKeyword     = "keyword"
	FieldHint        = "hint"
	FieldFakerName   = "fakerName"
	FieldStrokes     = "strokes"
	FieldVotes       = "votes"
	FieldFakerCaught = "fakerCaught"
)

// StrokeFields is the payload sent after every drawn stroke.
var StrokeFields = []string{FieldStrokes, FieldTurn, FieldWhoseTurn, FieldPhase}

type UserView struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// State is a serialized room snapshot keyed by wire field name. Fields with no
// value (keyword outside a round, fakerName before one, an undecided
// fakerCaught) are left out; whoseTurn is always present and nil when nobody
// is drawing.
type State map[string]interface{}

// Generate snapshots room. With fields, only those keys are kept.
func Generate(room *game.Room, fields ...string) State {
	users := make([]UserView, 0, len(room.Users()))
	for _, u := range room.Users() {
		users = append(users, UserView{Name: u.Name(), Connected: u.Connected()})
	}
	res := State{
		FieldRoomCode:  room.Code(),
		FieldUsers:     users,
		FieldRound:     room.Round(),
		FieldPhase:     room.Phase(),
		FieldTurn:      room.Turn(),
		FieldWhoseTurn: nil,
		FieldStrokes:   room.Strokes(),
		FieldVotes:     room.Votes(),
	}
	if u, ok := room.WhoseTurn(); ok {
		res[FieldWhoseTurn] = u.Name()
	}
	if room.Keyword() != "" {
		res[FieldKeyword] = room.Keyword()
		res[FieldHint] = room.Hint()
	}
	if faker := room.Faker(); faker != nil {
		res[FieldFakerName] = faker.Name()
	}
	if caught, ok := room.Outcome().Decided(); ok {
		res[FieldFakerCaught] = caught
	}
	if len(fields) > 0 {
		res = res.Pick(fields...)
	}
	return res
}

// Pick returns a copy holding only the given keys that are present.
func (s State) Pick(fields ...string) State {
	res := make(State, len(fields))
	for _, f := range fields {
		if v, ok := s[f]; ok {
			res[f] = cloneValue(v)
		}
	}
	return res
}

func (s State) Clone() State {
	res := make(State, len(s))
	for k, v := range s {
		res[k] = cloneValue(v)
	}
	return res
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []UserView:
		return append([]UserView{}, val...)
	case []game.Stroke:
		strokes := make([]game.Stroke, len(val))
		for i, s := range val {
			strokes[i] = s.Copy()
		}
		return strokes
	case game.Tally:
		return val.Copy()
	default:
		return v
	}
}

// HideKeyword returns a copy of s with the keyword masked.
func HideKeyword(s State) State {
	res := s.Clone()
	res[FieldKeyword] = consts.KeywordMask
	return res
}

// HideFaker returns a copy of s without the faker's name.
func HideFaker(s State) State {
	res := s.Clone()
	delete(res, FieldFakerName)
	return res
}

// ViewFor returns the snapshot user is entitled to. While a round is being
// played the faker does not see the keyword and nobody else sees who the
// faker is; outside of that everyone gets the full snapshot.
func ViewFor(room *game.Room, user game.User, fields ...string) State {
	state := Generate(room, fields...)
	if !room.IsGameInProgress() {
		return state
	}
	if faker := room.Faker(); faker != nil && faker.Name() == user.Name() {
		if _, ok := state[FieldKeyword]; ok {
			return HideKeyword(state)
		}
		return state
	}
	return HideFaker(state)
}
