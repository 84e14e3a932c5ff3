package state

import (
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
)

type room struct{}

// Next serves the player's commands while they hold a seat.
func (s *room) Next(player *database.Player) (consts.StateID, error) {
	r := database.GetRoom(player.RoomCode())
	if r == nil {
		return consts.StateHome, nil
	}
	r.Lock()
	err := r.SendState(player)
	r.Unlock()
	if err != nil {
		return 0, err
	}
	for {
		cmd, err := player.AskForCommand()
		if err != nil {
			if e, ok := err.(consts.Error); ok && !e.Exit {
				_ = player.WriteError(err)
				continue
			}
			return 0, err
		}
		if cmd.Action == database.ActionLeave {
			return s.Exit(player), nil
		}
		if err := handle(player, r, cmd); err != nil {
			_ = player.WriteError(err)
		}
		if player.RoomCode() == "" || database.GetRoom(r.Code) != r {
			return s.Exit(player), nil
		}
	}
}

func (*room) Exit(player *database.Player) consts.StateID {
	database.LeaveRoom(player)
	return consts.StateHome
}

func handle(player *database.Player, r *database.Room, cmd *database.Command) error {
	r.Lock()
	defer r.Unlock()
	if database.GetRoom(r.Code) != r {
		return consts.ErrorsRoomNotFound.Detailf("room %s was removed under %s", r.Code, player)
	}
	switch cmd.Action {
	case database.ActionStart:
		if !r.IsHost(player) {
			return consts.ErrorsNotHost.Detailf("room %s: %s tried to start", r.Code, player)
		}
		return r.StartRound()
	case database.ActionSetup:
		if !r.IsHost(player) {
			return consts.ErrorsNotHost.Detailf("room %s: %s tried to force setup", r.Code, player)
		}
		r.Setup()
		return nil
	case database.ActionStroke:
		return r.Draw(player, cmd.Points)
	case database.ActionSkip:
		return r.Skip(player)
	case database.ActionVote:
		return r.Vote(player, cmd.Name)
	case database.ActionState:
		return r.SendState(player)
	}
	return consts.ErrorsInputInvalid.Detailf("room %s: %s sent %q", r.Code, player, cmd.Action)
}
