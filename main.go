package main

import (
	"fmt"

	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/util/async"
	"github.com/ratel-online/faker/config"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/network"
	"github.com/ratel-online/faker/prompt"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Println("main", err)
			async.PrintStackTrace(err)
		}
	}()
	cfg, err := config.Load()
	if err != nil {
		log.Error(err)
		return
	}
	prompts, err := prompt.Load(cfg.PromptsPath)
	if err != nil {
		log.Error(err)
		return
	}
	log.Infof("loaded %d prompts\n", prompts.Len())
	database.Setup(database.Settings{
		Prompts:     prompts,
		TurnTimeout: cfg.TurnTimeout,
		VoteTimeout: cfg.VoteTimeout,
	})
	database.StartSweeper(consts.SweepInterval)

	async.Async(func() {
		log.Error(network.NewWebsocketServer(cfg.WSAddr, cfg.PublicURL).Serve())
	})
	log.Error(network.NewTcpServer(cfg.TCPAddr).Serve())
}
