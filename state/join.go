package state

import (
	"strings"

	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/game"
)

type join struct{}

type roomInfo struct {
	Code    string     `json:"code"`
	Players int        `json:"players"`
	Phase   game.Phase `json:"phase"`
}

// Next lists the open rooms and waits for the code of the one to join.
func (s *join) Next(player *database.Player) (consts.StateID, error) {
	rooms := database.GetRooms()
	list := make([]roomInfo, 0, len(rooms))
	for _, room := range rooms {
		room.Lock()
		list = append(list, roomInfo{
			Code:    room.Code,
			Players: len(room.Game.Users()),
			Phase:   room.Game.Phase(),
		})
		room.Unlock()
	}
	err := player.WriteObject(database.Message{Event: consts.EventRoom, Data: list})
	if err != nil {
		return 0, err
	}
	cmd, err := player.AskForCommand()
	if err != nil {
		return 0, err
	}
	if cmd.Action != database.ActionJoin || cmd.Room == "" {
		return 0, consts.ErrorsInputInvalid.Detailf("%s sent %q while choosing a room", player, cmd.Action)
	}
	if err := joinRoom(player, cmd.Room); err != nil {
		return 0, err
	}
	return consts.StateRoom, nil
}

func (*join) Exit(player *database.Player) consts.StateID {
	return consts.StateHome
}

func joinRoom(player *database.Player, code string) error {
	room, err := database.JoinRoom(strings.ToUpper(strings.TrimSpace(code)), player)
	if err != nil {
		return err
	}
	return player.WriteObject(database.Message{
		Event: consts.EventRoom,
		Data:  roomInfo{Code: room.Code},
	})
}
