package database

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/protocol"
	"github.com/ratel-online/core/util/json"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
)

// Conn is the packet connection a player talks over.
type Conn interface {
	Read() (*protocol.Packet, error)
	Write(packet protocol.Packet) error
	Close() error
}

// Message is the envelope of everything written to a client.
type Message struct {
	Event string      `json:"event"`
	Msg   string      `json:"msg,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type Player struct {
	ID      int64
	Session string

	name  string
	conn  Conn
	data  chan *protocol.Packet
	wmu   sync.Mutex
	state consts.StateID

	// mu guards roomCode and online. A seat is only claimed while online, so
	// a player that went offline is never seated afterwards.
	mu       sync.Mutex
	roomCode string
	online   bool
}

func newPlayer(id int64, name string, conn Conn) *Player {
	return &Player{
		ID:      id,
		Session: uuid.New().String(),
		name:    name,
		conn:    conn,
		data:    make(chan *protocol.Packet, 8),
		online:  true,
	}
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// RoomCode is the code of the room the player is seated in, empty if none.
func (p *Player) RoomCode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roomCode
}

func (p *Player) claimSeat(code string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online {
		return false
	}
	p.roomCode = code
	return true
}

func (p *Player) releaseSeat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roomCode = ""
}

// goOffline marks the player offline and returns the room they were in.
func (p *Player) goOffline() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = false
	return p.roomCode
}

func (p *Player) String() string {
	return fmt.Sprintf("%s[%s]", p.name, p.Session)
}

func (p *Player) Write(bytes []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.conn.Write(protocol.Packet{
		Body: bytes,
	})
}

func (p *Player) WriteObject(data interface{}) error {
	return p.Write(json.Marshal(data))
}

func (p *Player) WriteNotice(msg string) error {
	return p.WriteObject(Message{Event: consts.EventNotice, Msg: msg})
}

// WriteError sends the player facing part of err and logs the rest.
func (p *Player) WriteError(err error) error {
	if errors.Is(err, consts.ErrorsExist) {
		return err
	}
	msg := err.Error()
	if e, ok := err.(consts.Error); ok {
		if e.Detail != "" {
			log.Infof("player %s: %s\n", p, e.Detail)
		}
		msg = e.Msg
	}
	return p.WriteObject(Message{Event: consts.EventError, Msg: msg})
}

func (p *Player) WriteState(data interface{}) error {
	return p.WriteObject(Message{Event: consts.EventState, Data: data})
}

// Listening pumps packets from the connection until it fails.
func (p *Player) Listening() error {
	for {
		pack, err := p.conn.Read()
		if err != nil {
			log.Error(err)
			return err
		}
		p.data <- pack
	}
}

func (p *Player) AskForPacket(timeout ...time.Duration) (*protocol.Packet, error) {
	var packet *protocol.Packet
	if len(timeout) > 0 {
		select {
		case packet = <-p.data:
		case <-time.After(timeout[0]):
			return nil, consts.ErrorsTimeout
		}
	} else {
		packet = <-p.data
	}
	if packet == nil {
		return nil, consts.ErrorsChanClosed
	}
	single := strings.ToLower(strings.TrimSpace(packet.String()))
	if single == "exit" || single == "e" {
		return nil, consts.ErrorsExist
	}
	return packet, nil
}

// AskForCommand waits for the next packet and decodes it as a Command.
func (p *Player) AskForCommand(timeout ...time.Duration) (*Command, error) {
	packet, err := p.AskForPacket(timeout...)
	if err != nil {
		return nil, err
	}
	cmd := &Command{}
	if err := packet.Unmarshal(cmd); err != nil || cmd.Action == "" {
		return nil, consts.ErrorsInputInvalid.Detailf("bad command from %s: %q", p, packet.String())
	}
	cmd.Action = strings.ToLower(cmd.Action)
	return cmd, nil
}

func (p *Player) State(s consts.StateID) {
	p.state = s
}

func (p *Player) GetState() consts.StateID {
	return p.state
}

// Offline marks the player gone once its connection is done. It owns
// closing the connection.
func (p *Player) Offline() {
	close(p.data)
	players.Del(p.ID)
	code := p.goOffline()
	if err := p.conn.Close(); err != nil {
		log.Infof("player %s close: %v\n", p, err)
	}
	room := getRoom(code)
	if room == nil {
		return
	}
	room.Lock()
	defer room.Unlock()
	if getRoom(room.Code) != room || !room.seated(p) {
		return
	}
	room.broadcast(render.Offline(p.name), p.ID)
	if !room.Game.IsGameInProgress() {
		room.removePlayer(p)
	} else if drawer, ok := room.Game.WhoseTurn(); ok && drawer == game.User(p) {
		room.broadcast(render.TurnSkipped(p.name))
		room.advance()
	} else {
		room.broadcastState()
	}
	room.cancel()
}
