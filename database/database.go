package database

import (
	crand "crypto/rand"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/awesome-cap/hashmap"
	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/util/async"
	"github.com/ratel-online/core/util/rand"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
)

var players = hashmap.New()
var rooms = hashmap.New()

// createMu keeps two rooms from being created under the same code.
var createMu sync.Mutex

type Settings struct {
	Prompts     game.PromptProvider
	Random      game.Random
	TurnTimeout time.Duration
	VoteTimeout time.Duration
}

var settings = Settings{
	Random:      game.DefaultRandom,
	TurnTimeout: consts.TurnTimeout,
	VoteTimeout: consts.VoteTimeout,
}

// Setup configures the rooms created from now on.
func Setup(s Settings) {
	if s.Random == nil {
		s.Random = game.DefaultRandom
	}
	if s.TurnTimeout <= 0 {
		s.TurnTimeout = consts.TurnTimeout
	}
	if s.VoteTimeout <= 0 {
		s.VoteTimeout = consts.VoteTimeout
	}
	settings = s
}

// StartSweeper periodically removes rooms nobody can play in any more.
func StartSweeper(interval time.Duration) {
	async.Async(func() {
		for {
			time.Sleep(interval)
			Sweep()
		}
	})
}

func Sweep() {
	for _, room := range GetRooms() {
		room.Lock()
		room.cancel()
		room.Unlock()
	}
}

func Connected(conn Conn, id int64, name string) *Player {
	player := newPlayer(id, name, conn)
	players.Set(id, player)
	log.Infof("player %s connected\n", player)
	return player
}

func GetPlayer(id int64) *Player {
	if v, ok := players.Get(id); ok {
		return v.(*Player)
	}
	return nil
}

// CreateRoom opens a room under a fresh code with host seated. A host that
// already went offline gets no room.
func CreateRoom(host *Player) (*Room, error) {
	createMu.Lock()
	defer createMu.Unlock()
	code := generateRoomCode()
	for getRoom(code) != nil {
		code = generateRoomCode()
	}
	room := &Room{
		Code:       code,
		Game:       game.NewRoom(code, nil, settings.Prompts, game.WithRandom(settings.Random)),
		ActiveTime: time.Now(),
	}
	room.Lock()
	defer room.Unlock()
	// registered before the seat is claimed so a racing Offline finds the room
	// and waits for this lock
	rooms.Set(code, room)
	if !host.claimSeat(code) {
		rooms.Del(code)
		return nil, consts.ErrorsOffline.Detailf("%s went offline before room %s opened", host, code)
	}
	room.Game.AddUser(host, true)
	log.Infof("room %s created by %s\n", code, host)
	return room, nil
}

func generateRoomCode() string {
	code := make([]byte, consts.RoomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(consts.RoomCodeChars))))
		if err != nil {
			code[i] = consts.RoomCodeChars[rand.Intn(len(consts.RoomCodeChars))]
			continue
		}
		code[i] = consts.RoomCodeChars[n.Int64()]
	}
	return string(code)
}

func DeleteRoom(room *Room) {
	if room != nil {
		room.delete()
		log.Infof("room %s deleted\n", room.Code)
	}
}

func GetRooms() []*Room {
	list := make([]*Room, 0)
	rooms.Foreach(func(e *hashmap.Entry) {
		list = append(list, e.Value().(*Room))
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}

func GetRoom(code string) *Room {
	return getRoom(code)
}

func getRoom(code string) *Room {
	if code == "" {
		return nil
	}
	if v, ok := rooms.Get(code); ok {
		return v.(*Room)
	}
	return nil
}

// JoinRoom seats player in the room with the given code. A player whose name
// matches a disconnected seat takes that seat back, even mid-round.
func JoinRoom(code string, player *Player) (*Room, error) {
	room := getRoom(code)
	if room == nil {
		return nil, consts.ErrorsRoomNotFound.Detailf("%s asked for room %q", player, code)
	}
	room.Lock()
	defer room.Unlock()
	if getRoom(code) != room {
		return nil, consts.ErrorsRoomNotFound.Detailf("room %s removed before %s joined", code, player)
	}
	if seat, ok := room.Game.FindUser(player.Name()); ok {
		if seat.Connected() {
			return nil, consts.ErrorsNameTaken.Detailf("room %s: %s is already seated", code, seat)
		}
		if !player.claimSeat(code) {
			return nil, consts.ErrorsOffline.Detailf("room %s: %s went offline before rejoining", code, player)
		}
		if err := room.Game.ReaddUser(player); err != nil {
			player.releaseSeat()
			return nil, err
		}
		room.broadcast(render.Rejoin(player.Name()), player.ID)
		room.broadcastState()
		return room, nil
	}
	if room.Game.IsGameInProgress() {
		return nil, consts.ErrorsGameInProgress.Detailf("room %s: %s joined mid-round", code, player)
	}
	if room.Game.IsFull() {
		return nil, consts.ErrorsRoomPlayersIsFull.Detailf("room %s is full, %s turned away", code, player)
	}
	if !player.claimSeat(code) {
		return nil, consts.ErrorsOffline.Detailf("room %s: %s went offline before joining", code, player)
	}
	room.Game.AddUser(player, false)
	room.broadcast(render.Join(player.Name(), len(room.Game.Users())))
	room.broadcastState()
	return room, nil
}

// LeaveRoom gives up the player's seat for good.
func LeaveRoom(player *Player) {
	room := getRoom(player.RoomCode())
	if room == nil {
		player.releaseSeat()
		return
	}
	room.Lock()
	defer room.Unlock()
	if !room.seated(player) {
		player.releaseSeat()
		return
	}
	room.removePlayer(player)
	room.cancel()
}
