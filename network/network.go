package network

import (
	"fmt"
	"time"

	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/model"
	"github.com/ratel-online/core/network"
	"github.com/ratel-online/core/protocol"
	"github.com/ratel-online/core/util/async"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/state"
)

// Network is interface of all kinds of network.
type Network interface {
	Serve() error
}

func handle(rwc protocol.ReadWriteCloser) error {
	return serve(network.Wrapper(rwc), consts.LoginTimeout)
}

// serve runs one connection from login to logout. Once the player is known,
// closing the connection is left to Offline.
func serve(c database.Conn, loginTimeout time.Duration) error {
	log.Info("new player connected! ")
	authInfo, err := loginAuth(c, loginTimeout)
	if err != nil {
		_ = c.Write(protocol.ErrorPacket(err))
		if cerr := c.Close(); cerr != nil {
			log.Error(cerr)
		}
		return err
	}
	player := database.Connected(c, authInfo.ID, authInfo.Name)
	log.Infof("player auth accessed, %d:%s\n", authInfo.ID, authInfo.Name)
	go state.Run(player)
	defer player.Offline()
	return player.Listening()
}

// loginAuth waits for the AuthInfo packet every connection opens with.
func loginAuth(c database.Conn, timeout time.Duration) (*model.AuthInfo, error) {
	authChan := make(chan *model.AuthInfo, 1)
	async.Async(func() {
		packet, err := c.Read()
		if err != nil {
			log.Error(err)
			return
		}
		authInfo := &model.AuthInfo{}
		err = packet.Unmarshal(authInfo)
		if err != nil {
			log.Error(err)
			return
		}
		authChan <- authInfo
	})
	select {
	case authInfo := <-authChan:
		if err := validAuth(authInfo); err != nil {
			return nil, err
		}
		return authInfo, nil
	case <-time.After(timeout):
		return nil, consts.ErrorsAuthFail.Detailf("no login within %s", timeout)
	}
}

func validAuth(info *model.AuthInfo) error {
	if info.ID == 0 {
		return consts.ErrorsAuthFail.Detailf("login without id")
	}
	if info.Name == "" {
		return consts.ErrorsAuthFail.Detailf("login %d without name", info.ID)
	}
	if len(info.Name) > 32 {
		return consts.ErrorsAuthFail.Detailf("login %d name too long: %s", info.ID, fmt.Sprintf("%.32s...", info.Name))
	}
	return nil
}
