package state

import (
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
)

type home struct{}

func (*home) Next(player *database.Player) (consts.StateID, error) {
	cmd, err := player.AskForCommand()
	if err != nil {
		return 0, err
	}
	switch cmd.Action {
	case database.ActionCreate:
		return consts.StateCreate, nil
	case database.ActionJoin:
		if cmd.Room == "" {
			return consts.StateJoin, nil
		}
		if err := joinRoom(player, cmd.Room); err != nil {
			return 0, err
		}
		return consts.StateRoom, nil
	}
	return 0, consts.ErrorsInputInvalid.Detailf("%s sent %q at home", player, cmd.Action)
}

func (*home) Exit(player *database.Player) consts.StateID {
	return 0
}
