package state

import (
	"errors"

	"github.com/ratel-online/core/log"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
)

var states = map[consts.StateID]State{}

func init() {
	register(consts.StateWelcome, &welcome{})
	register(consts.StateHome, &home{})
	register(consts.StateJoin, &join{})
	register(consts.StateCreate, &create{})
	register(consts.StateRoom, &room{})
}

func register(id consts.StateID, state State) {
	states[id] = state
}

type State interface {
	Next(player *database.Player) (consts.StateID, error)
	Exit(player *database.Player) consts.StateID
}

func Root() consts.StateID {
	return consts.StateWelcome
}

// Run drives the player through the session states until the connection is
// gone.
func Run(player *database.Player) {
	player.State(Root())
	for {
		state := states[player.GetState()]
		stateId, err := state.Next(player)
		if err != nil {
			if errors.Is(err, consts.ErrorsExist) {
				stateId = state.Exit(player)
			} else if e, ok := err.(consts.Error); ok && !e.Exit {
				_ = player.WriteError(err)
				continue
			} else {
				log.Infof("player %s session ended: %v\n", player, err)
				return
			}
		}
		if stateId > 0 {
			player.State(stateId)
		}
	}
}
