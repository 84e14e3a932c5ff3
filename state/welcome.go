package state

import (
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/render"
)

type welcome struct{}

type session struct {
	Session string `json:"session"`
}

func (*welcome) Next(player *database.Player) (consts.StateID, error) {
	err := player.WriteObject(database.Message{
		Event: consts.EventWelcome,
		Msg:   render.Welcome(player.Name()),
		Data:  session{Session: player.Session},
	})
	if err != nil {
		return 0, err
	}
	return consts.StateHome, nil
}

func (*welcome) Exit(player *database.Player) consts.StateID {
	return 0
}
