package database

import (
	"sync"
	"time"

	"github.com/ratel-online/core/log"
	"github.com/ratel-online/faker/adapter"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
)

// Room pairs a game room with the lock that serializes every change to it.
// All methods below expect the lock to be held.
type Room struct {
	sync.Mutex

	Code       string
	Game       *game.Room
	ActiveTime time.Time

	timer *time.Timer
}

func (room *Room) players() []*Player {
	users := room.Game.Users()
	list := make([]*Player, 0, len(users))
	for _, u := range users {
		if p, ok := u.(*Player); ok {
			list = append(list, p)
		}
	}
	return list
}

func (room *Room) broadcast(msg string, exclude ...int64) {
	room.ActiveTime = time.Now()
	excludeSet := map[int64]bool{}
	for _, exc := range exclude {
		excludeSet[exc] = true
	}
	for _, p := range room.players() {
		if p.Connected() && !excludeSet[p.ID] {
			_ = p.WriteNotice(msg)
		}
	}
}

// broadcastState sends every connected player the view they may see.
func (room *Room) broadcastState(fields ...string) {
	room.ActiveTime = time.Now()
	for _, p := range room.players() {
		if p.Connected() {
			_ = p.WriteState(adapter.ViewFor(room.Game, p, fields...))
		}
	}
}

func (room *Room) IsHost(p *Player) bool {
	return room.Game.Host() == game.User(p)
}

// seated reports whether p itself, not just someone with its name, holds a
// seat here.
func (room *Room) seated(p *Player) bool {
	if p.RoomCode() != room.Code {
		return false
	}
	u, ok := room.Game.FindUser(p.Name())
	return ok && u == game.User(p)
}

// removePlayer drops p from the roster, handing the room to someone else if
// p was the host, and deletes the room once it is empty.
func (room *Room) removePlayer(p *Player) {
	wasHost := room.IsHost(p)
	wasVoting := room.Game.IsVoting()
	drawer, _ := room.Game.WhoseTurn()
	left := room.Game.DropUser(p)
	p.releaseSeat()
	if left == 0 {
		room.delete()
		return
	}
	room.broadcast(render.Exit(p.Name(), left))
	if host := room.Game.Host(); wasHost && host != nil {
		room.broadcast(render.OwnerChange(host.Name()))
	}
	if wasVoting && room.Game.Phase() == game.PhaseEnd {
		room.stopTimer()
		room.announceResult()
	}
	// the roster shifted under the turn cursor, so the seat it now points at
	// gets a fresh deadline
	if next, ok := room.Game.WhoseTurn(); ok && next != drawer {
		room.announceTurn()
		room.schedule()
	}
	room.broadcastState()
}

// cancel deletes the room when nobody can play in it any more.
func (room *Room) cancel() {
	if room.ActiveTime.Add(consts.RoomIdleTimeout).Before(time.Now()) {
		log.Infof("room %s is timeout 24 hours, removed.\n", room.Code)
		room.delete()
		return
	}
	if room.Game.IsDead() {
		log.Infof("room %s is not living, removed.\n", room.Code)
		room.delete()
	}
}

func (room *Room) delete() {
	room.stopTimer()
	rooms.Del(room.Code)
}

// StartRound begins a new round and tells everyone.
func (room *Room) StartRound() error {
	if err := room.Game.StartNewRound(); err != nil {
		return err
	}
	room.broadcast(render.NewRound(room.Game.Round(), room.Game.Users()))
	room.announceTurn()
	room.broadcastState()
	room.schedule()
	return nil
}

// Setup forces the room back to setup.
func (room *Room) Setup() {
	room.Game.InvokeSetup()
	room.stopTimer()
	room.broadcastState()
}

// Draw records a stroke from the current drawer and moves to the next turn.
func (room *Room) Draw(p *Player, points []game.Point) error {
	if err := room.checkTurn(p); err != nil {
		return err
	}
	if _, err := room.Game.AddStroke(p.Name(), points); err != nil {
		return err
	}
	room.advance(adapter.StrokeFields...)
	return nil
}

// Skip passes the current drawer's turn without drawing.
func (room *Room) Skip(p *Player) error {
	if err := room.checkTurn(p); err != nil {
		return err
	}
	room.advance()
	return nil
}

func (room *Room) Vote(p *Player, accused string) error {
	if err := room.Game.AddVote(p.Name(), accused); err != nil {
		return err
	}
	if room.Game.Phase() == game.PhaseEnd {
		room.stopTimer()
		room.announceResult()
		room.broadcastState()
		return nil
	}
	room.broadcastState(adapter.FieldVotes, adapter.FieldPhase)
	return nil
}

func (room *Room) checkTurn(p *Player) error {
	drawer, ok := room.Game.WhoseTurn()
	if !ok {
		return consts.ErrorsNotPlaying.Detailf("room %s: %s acted during %s", room.Code, p, room.Game.Phase())
	}
	if drawer != game.User(p) {
		return consts.ErrorsNotYourTurn.Detailf("room %s: %s acted on %s's turn", room.Code, p, drawer)
	}
	return nil
}

// advance moves to the next turn. The given fields narrow the state sent
// while drawing continues; entering the vote always sends everything.
func (room *Room) advance(fields ...string) {
	room.Game.NextTurn()
	if room.Game.IsVoting() {
		room.broadcast(render.VotingStarted())
		room.broadcastState()
	} else {
		room.announceTurn()
		room.broadcastState(fields...)
	}
	room.schedule()
}

func (room *Room) announceTurn() {
	if drawer, ok := room.Game.WhoseTurn(); ok {
		room.broadcast(render.Turn(drawer.Name()))
	}
}

func (room *Room) announceResult() {
	faker := room.Game.Faker()
	if faker == nil {
		return
	}
	room.broadcast(render.Result(faker.Name(), room.Game.Keyword(), room.Game.Outcome(), room.Game.Votes()))
}

// SendState writes the full view of the room to one player.
func (room *Room) SendState(p *Player) error {
	return p.WriteState(adapter.ViewFor(room.Game, p))
}
