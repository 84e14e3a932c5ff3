package database_test

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ratel-online/core/protocol"
	"github.com/ratel-online/faker/consts"
	"github.com/ratel-online/faker/database"
	"github.com/ratel-online/faker/game"
	"github.com/ratel-online/faker/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	render.SetColor(false)
}

type message struct {
	Event string                 `json:"event"`
	Msg   string                 `json:"msg"`
	Data  map[string]interface{} `json:"data"`
}

type fakeConn struct {
	mu       sync.Mutex
	messages []message
	closed   bool
}

func (c *fakeConn) Read() (*protocol.Packet, error) {
	return nil, io.EOF
}

func (c *fakeConn) Write(packet protocol.Packet) error {
	m := message{}
	if err := json.Unmarshal(packet.Body, &m); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) lastState() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Event == consts.EventState {
			return c.messages[i].Data
		}
	}
	return nil
}

func (c *fakeConn) notices() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := strings.Builder{}
	for _, m := range c.messages {
		if m.Event == consts.EventNotice {
			buf.WriteString(m.Msg)
		}
	}
	return buf.String()
}

type fixedPrompts struct{}

func (fixedPrompts) RandomPrompt() game.Prompt {
	return game.Prompt{Keyword: "lighthouse", Hint: "building"}
}

// lastRandom keeps the seating order and always makes the last seat the faker.
type lastRandom struct{}

func (lastRandom) Intn(n int) int {
	return n - 1
}

var nextID int64 = 1000

func setup(turnTimeout, voteTimeout time.Duration) {
	database.Setup(database.Settings{
		Prompts:     fixedPrompts{},
		Random:      lastRandom{},
		TurnTimeout: turnTimeout,
		VoteTimeout: voteTimeout,
	})
}

func connect(name string) (*database.Player, *fakeConn) {
	nextID++
	conn := &fakeConn{}
	return database.Connected(conn, nextID, name), conn
}

// openRoom creates a room hosted by the first name and seats the rest.
func openRoom(t *testing.T, names ...string) (*database.Room, []*database.Player, []*fakeConn) {
	t.Helper()
	players := make([]*database.Player, 0, len(names))
	conns := make([]*fakeConn, 0, len(names))
	var room *database.Room
	for i, name := range names {
		p, conn := connect(name)
		if i == 0 {
			created, err := database.CreateRoom(p)
			require.NoError(t, err)
			room = created
		} else {
			joined, err := database.JoinRoom(room.Code, p)
			require.NoError(t, err)
			require.Same(t, room, joined)
		}
		players = append(players, p)
		conns = append(conns, conn)
	}
	return room, players, conns
}

func locked(room *database.Room, fn func()) {
	room.Lock()
	defer room.Unlock()
	fn()
}

func TestCreateRoom(t *testing.T) {
	setup(0, 0)
	host, _ := connect("A")
	room, err := database.CreateRoom(host)
	require.NoError(t, err)

	assert.Len(t, room.Code, consts.RoomCodeLength)
	for _, c := range room.Code {
		assert.Contains(t, consts.RoomCodeChars, string(c))
	}
	assert.Equal(t, room.Code, host.RoomCode())
	assert.Same(t, room, database.GetRoom(room.Code))
	assert.True(t, room.IsHost(host))
	assert.Equal(t, game.PhaseSetup, room.Game.Phase())

	database.DeleteRoom(room)
	assert.Nil(t, database.GetRoom(room.Code))
}

func TestGetRoomsSorted(t *testing.T) {
	setup(0, 0)
	for i := 0; i < 5; i++ {
		p, _ := connect("host")
		_, err := database.CreateRoom(p)
		require.NoError(t, err)
	}
	list := database.GetRooms()
	require.GreaterOrEqual(t, len(list), 5)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
}

func TestJoinRoomErrors(t *testing.T) {
	setup(0, 0)
	room, _, _ := openRoom(t, "A", "B")

	scenarios := []struct {
		description string
		code        string
		name        string
		prepare     func()
		err         error
	}{
		{
			description: "unknown room",
			code:        "ZZZZ!",
			name:        "C",
			err:         consts.ErrorsRoomNotFound,
		},
		{
			description: "name held by a connected player",
			code:        room.Code,
			name:        "B",
			err:         consts.ErrorsNameTaken,
		},
		{
			description: "fresh player mid-round",
			code:        room.Code,
			name:        "C",
			prepare: func() {
				locked(room, func() { require.NoError(t, room.StartRound()) })
			},
			err: consts.ErrorsGameInProgress,
		},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.description, func(t *testing.T) {
			if scenario.prepare != nil {
				scenario.prepare()
			}
			p, _ := connect(scenario.name)
			_, err := database.JoinRoom(scenario.code, p)
			assert.True(t, errors.Is(err, scenario.err))
			assert.Empty(t, p.RoomCode())
		})
	}
}

func TestJoinRoomFull(t *testing.T) {
	setup(0, 0)
	names := make([]string, consts.MaxUsers)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	room, _, _ := openRoom(t, names...)

	p, _ := connect("Z")
	_, err := database.JoinRoom(room.Code, p)
	assert.True(t, errors.Is(err, consts.ErrorsRoomPlayersIsFull))
}

func TestOfflinePlayerIsNeverSeated(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B")

	scenarios := []struct {
		description string
		name        string
		prepare     func()
	}{
		{
			description: "fresh join",
			name:        "C",
		},
		{
			description: "rejoin of a disconnected seat",
			name:        "B",
			prepare: func() {
				locked(room, func() { require.NoError(t, room.StartRound()) })
				players[1].Offline()
			},
		},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.description, func(t *testing.T) {
			if scenario.prepare != nil {
				scenario.prepare()
			}
			conns[0].mu.Lock()
			before := len(conns[0].messages)
			conns[0].mu.Unlock()
			ghost, conn := connect(scenario.name)
			ghost.Offline()

			_, err := database.JoinRoom(room.Code, ghost)
			assert.True(t, errors.Is(err, consts.ErrorsOffline))
			assert.Empty(t, ghost.RoomCode())
			assert.Len(t, room.Game.Users(), 2)
			seat, ok := room.Game.FindUser(scenario.name)
			if ok {
				assert.NotSame(t, ghost, seat)
			}
			assert.True(t, conn.closed)
			conns[0].mu.Lock()
			assert.Len(t, conns[0].messages, before)
			conns[0].mu.Unlock()
		})
	}
}

func TestCreateRoomForOfflineHost(t *testing.T) {
	setup(0, 0)
	before := len(database.GetRooms())
	host, _ := connect("lonely")
	host.Offline()

	room, err := database.CreateRoom(host)
	assert.Nil(t, room)
	assert.True(t, errors.Is(err, consts.ErrorsOffline))
	assert.Empty(t, host.RoomCode())
	assert.Len(t, database.GetRooms(), before)
}

func TestJoinBroadcasts(t *testing.T) {
	setup(0, 0)
	room, _, conns := openRoom(t, "A", "B")

	assert.Contains(t, conns[0].notices(), "B joined room! room current has 2 players")
	state := conns[1].lastState()
	require.NotNil(t, state)
	assert.Equal(t, room.Code, state["roomCode"])
	assert.Len(t, state["users"], 2)
}

func TestRound(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")
	a, b, c := players[0], players[1], players[2]

	locked(room, func() { require.NoError(t, room.StartRound()) })
	require.Equal(t, "C", room.Game.Faker().Name())
	assert.Contains(t, conns[0].notices(), "It's A turn!")

	artist := conns[1].lastState()
	assert.Equal(t, "lighthouse", artist["keyword"])
	assert.NotContains(t, artist, "fakerName")
	faker := conns[2].lastState()
	assert.Equal(t, consts.KeywordMask, faker["keyword"])
	assert.Equal(t, "C", faker["fakerName"])

	locked(room, func() {
		assert.True(t, errors.Is(room.Draw(b, []game.Point{{X: 1, Y: 1}}), consts.ErrorsNotYourTurn))
		assert.True(t, errors.Is(room.Vote(a, "C"), consts.ErrorsNotVoting))
		assert.True(t, errors.Is(room.StartRound(), consts.ErrorsGameInProgress))
	})

	order := []*database.Player{a, b, c, a, b, c}
	for i, p := range order {
		locked(room, func() {
			if i == 4 {
				require.NoError(t, room.Skip(p))
				return
			}
			require.NoError(t, room.Draw(p, []game.Point{{X: float64(i), Y: 0}}))
		})
	}
	assert.Equal(t, game.PhaseVote, room.Game.Phase())
	assert.Len(t, room.Game.Strokes(), 5)
	assert.Contains(t, conns[0].notices(), "vote for the faker")

	stroke := conns[0].lastState()
	assert.Equal(t, "VOTE", stroke["phase"])
	assert.Nil(t, stroke["whoseTurn"])

	locked(room, func() {
		require.NoError(t, room.Vote(a, "C"))
		assert.True(t, errors.Is(room.Vote(a, "B"), consts.ErrorsAlreadyVoted))
		assert.True(t, errors.Is(room.Vote(b, "nobody"), consts.ErrorsUnknownAccused))
		require.NoError(t, room.Vote(b, "C"))
		require.NoError(t, room.Vote(c, "A"))
	})
	assert.Equal(t, game.PhaseEnd, room.Game.Phase())
	assert.Equal(t, game.OutcomeCaught, room.Game.Outcome())

	end := conns[1].lastState()
	assert.Equal(t, true, end["fakerCaught"])
	assert.Equal(t, "C", end["fakerName"])
	assert.Equal(t, "lighthouse", end["keyword"])
	assert.Contains(t, conns[1].notices(), "C was the faker and got caught!")
}

func TestStrokeBroadcastIsFiltered(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B")

	locked(room, func() {
		require.NoError(t, room.StartRound())
		require.NoError(t, room.Draw(players[0], []game.Point{{X: 3, Y: 4}}))
	})

	state := conns[1].lastState()
	assert.Len(t, state, 4)
	assert.Equal(t, "B", state["whoseTurn"])
	assert.Equal(t, float64(2), state["turn"])
	assert.Len(t, state["strokes"], 1)
}

func TestLeaveHandsOverHost(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")

	database.LeaveRoom(players[0])

	assert.Empty(t, players[0].RoomCode())
	assert.True(t, room.IsHost(players[1]))
	assert.Contains(t, conns[2].notices(), "A exited room! room current has 2 players")
	assert.Contains(t, conns[2].notices(), "B become new owner")

	database.LeaveRoom(players[1])
	database.LeaveRoom(players[2])
	assert.Nil(t, database.GetRoom(room.Code))
}

func TestOfflineDuringSetupDropsSeat(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B")

	players[1].Offline()

	assert.True(t, conns[1].closed)
	assert.Nil(t, database.GetPlayer(players[1].ID))
	assert.Len(t, room.Game.Users(), 1)
	assert.Contains(t, conns[0].notices(), "B lost connection")
}

func TestOfflineAndRejoinMidRound(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")
	locked(room, func() { require.NoError(t, room.StartRound()) })

	players[1].Offline()
	assert.Len(t, room.Game.Users(), 3)
	assert.Contains(t, conns[0].notices(), "B lost connection")
	users := conns[0].lastState()["users"].([]interface{})
	assert.Equal(t, false, users[1].(map[string]interface{})["connected"])

	back, conn := connect("B")
	joined, err := database.JoinRoom(room.Code, back)
	require.NoError(t, err)
	assert.Same(t, room, joined)
	found, ok := room.Game.FindUser("B")
	require.True(t, ok)
	assert.Same(t, back, found)
	assert.Contains(t, conns[0].notices(), "B reconnected")
	assert.Equal(t, "lighthouse", conn.lastState()["keyword"])
}

func TestLeaveDuringPlayReannouncesTurn(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")
	locked(room, func() {
		require.NoError(t, room.StartRound())
		require.NoError(t, room.Draw(players[0], []game.Point{{X: 1, Y: 1}}))
	})
	drawer, ok := room.Game.WhoseTurn()
	require.True(t, ok)
	require.Equal(t, "B", drawer.Name())
	assert.NotContains(t, conns[2].notices(), "It's C turn!")

	database.LeaveRoom(players[0])

	drawer, ok = room.Game.WhoseTurn()
	require.True(t, ok)
	assert.Equal(t, "C", drawer.Name())
	assert.Contains(t, conns[1].notices(), "It's C turn!")
	assert.Contains(t, conns[2].notices(), "It's C turn!")
	assert.Equal(t, "C", conns[2].lastState()["whoseTurn"])
	locked(room, func() {
		assert.NoError(t, room.Draw(players[2], []game.Point{{X: 2, Y: 2}}))
	})
}

func TestLeaveDuringPlayRearmsTurnDeadline(t *testing.T) {
	setup(400*time.Millisecond, time.Hour)
	defer setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")
	locked(room, func() {
		require.NoError(t, room.StartRound())
		require.NoError(t, room.Draw(players[0], []game.Point{{X: 1, Y: 1}}))
	})
	time.Sleep(300 * time.Millisecond)

	database.LeaveRoom(players[0])

	skipped := func() bool {
		return strings.Contains(conns[1].notices(), "C ran out of time")
	}
	assert.Never(t, skipped, 200*time.Millisecond, 10*time.Millisecond)
	assert.Eventually(t, skipped, 2*time.Second, 5*time.Millisecond)
}

func TestOfflineDrawerIsSkipped(t *testing.T) {
	setup(0, 0)
	room, players, conns := openRoom(t, "A", "B", "C")
	locked(room, func() { require.NoError(t, room.StartRound()) })

	players[0].Offline()

	drawer, ok := room.Game.WhoseTurn()
	require.True(t, ok)
	assert.Equal(t, "B", drawer.Name())
	assert.Contains(t, conns[1].notices(), "It's B turn!")
}

func TestDeadRoomIsRemoved(t *testing.T) {
	setup(0, 0)
	room, players, _ := openRoom(t, "A", "B")
	locked(room, func() { require.NoError(t, room.StartRound()) })

	players[0].Offline()
	assert.NotNil(t, database.GetRoom(room.Code))
	players[1].Offline()
	assert.Nil(t, database.GetRoom(room.Code))
}

func TestDeadlines(t *testing.T) {
	setup(10*time.Millisecond, 30*time.Millisecond)
	defer setup(0, 0)
	room, _, conns := openRoom(t, "A", "B")

	locked(room, func() { require.NoError(t, room.StartRound()) })

	phase := func() game.Phase {
		room.Lock()
		defer room.Unlock()
		return room.Game.Phase()
	}
	assert.Eventually(t, func() bool { return phase() == game.PhaseVote }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return phase() == game.PhaseSetup }, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, conns[0].notices(), "A ran out of time")
	assert.Contains(t, conns[1].notices(), "back to setup")
}
