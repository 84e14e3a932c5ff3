package state

import (
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
)

type create struct{}

func (*create) Next(player *database.Player) (consts.StateID, error) {
	room, err := database.CreateRoom(player)
	if err != nil {
		return 0, err
	}
	err = player.WriteObject(database.Message{
		Event: consts.EventRoom,
		Msg:   render.Created(room.Code),
		Data:  roomInfo{Code: room.Code, Players: 1, Phase: game.PhaseSetup},
	})
	if err != nil {
		return 0, err
	}
	return consts.StateRoom, nil
}

func (*create) Exit(_ *database.Player) consts.StateID {
	return consts.StateHome
}
