package database

import (
	"time"

	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
)

// schedule arms the deadline for whatever the room is waiting on: the
// current drawer during PLAY or the missing ballots during VOTE.
func (room *Room) schedule() {
	room.stopTimer()
	switch room.Game.Phase() {
	case game.PhasePlay:
		turn, round := room.Game.Turn(), room.Game.Round()
		room.timer = time.AfterFunc(settings.TurnTimeout, func() {
			room.onTurnTimeout(round, turn)
		})
	case game.PhaseVote:
		round := room.Game.Round()
		room.timer = time.AfterFunc(settings.VoteTimeout, func() {
			room.onVoteTimeout(round)
		})
	}
}

func (room *Room) stopTimer() {
	if room.timer != nil {
		room.timer.Stop()
		room.timer = nil
	}
}

func (room *Room) onTurnTimeout(round, turn int) {
	room.Lock()
	defer room.Unlock()
	if getRoom(room.Code) != room || room.Game.Phase() != game.PhasePlay || room.Game.Round() != round || room.Game.Turn() != turn {
		return
	}
	if drawer, ok := room.Game.WhoseTurn(); ok {
		room.broadcast(render.TurnSkipped(drawer.Name()))
	}
	room.advance()
}

func (room *Room) onVoteTimeout(round int) {
	room.Lock()
	defer room.Unlock()
	if getRoom(room.Code) != room || room.Game.Phase() != game.PhaseVote || room.Game.Round() != round {
		return
	}
	room.broadcast(render.VoteTimeout())
	room.Setup()
}
