package game

import (
	"github.com/ratel-online/core/log"
	"github.com/ratel-online/faker/consts"
)

// Room holds the state of one game room. It does no locking of its own:
// callers must serialize every call for a given room.
type Room struct {
	code    string
	users   []User
	host    User
	prompts PromptProvider
	random  Random

	round int
	phase Phase
	turn  int

	keyword string
	hint    string
	faker   User

	strokes []Stroke
	votes   Tally
	ballots map[string]string
	outcome Outcome
}

type Option func(*Room)

// WithRandom replaces the source used for turn order and faker selection.
func WithRandom(r Random) Option {
	return func(room *Room) {
		room.random = r
	}
}

func NewRoom(code string, host User, prompts PromptProvider, opts ...Option) *Room {
	room := &Room{
		code:    code,
		users:   make([]User, 0, consts.MaxUsers),
		host:    host,
		prompts: prompts,
		random:  DefaultRandom,
		phase:   PhaseSetup,
		turn:    -1,
		strokes: []Stroke{},
		votes:   Tally{},
		ballots: map[string]string{},
	}
	for _, opt := range opts {
		opt(room)
	}
	return room
}

func (r *Room) Code() string {
	return r.code
}

// Users returns the roster in turn order.
func (r *Room) Users() []User {
	return append([]User(nil), r.users...)
}

func (r *Room) Host() User {
	return r.host
}

func (r *Room) Round() int {
	return r.round
}

func (r *Room) Phase() Phase {
	return r.phase
}

func (r *Room) Turn() int {
	return r.turn
}

func (r *Room) Keyword() string {
	return r.keyword
}

func (r *Room) Hint() string {
	return r.hint
}

// Faker returns the current faker, or nil outside a round.
func (r *Room) Faker() User {
	return r.faker
}

func (r *Room) Strokes() []Stroke {
	return copyStrokes(r.strokes)
}

func (r *Room) Votes() Tally {
	return r.votes.Copy()
}

// Voted reports whether the named user has cast a ballot this round.
func (r *Room) Voted(name string) bool {
	_, ok := r.ballots[name]
	return ok
}

func (r *Room) Outcome() Outcome {
	return r.outcome
}

// AddUser seats user unless the room is full.
func (r *Room) AddUser(user User, isHost bool) bool {
	if r.IsFull() {
		log.Infof("room %s is full, rejected %s\n", r.code, user)
		return false
	}
	r.users = append(r.users, user)
	if isHost {
		r.host = user
	}
	return true
}

// DropUser removes exactly this user value and returns the remaining roster
// size. If the host leaves, the first connected user left takes over.
func (r *Room) DropUser(user User) int {
	idx := r.indexOf(user)
	if idx < 0 {
		return len(r.users)
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	if r.host == user {
		r.host = r.nextHost()
	}
	if r.phase == PhaseVote && len(r.users) > 0 && r.votes.Total() >= len(r.users) {
		r.finishVote()
	}
	return len(r.users)
}

// ReaddUser puts a reconnecting user back in the seat that has their name.
func (r *Room) ReaddUser(user User) error {
	for i, u := range r.users {
		if u.Name() != user.Name() {
			continue
		}
		if r.host == u {
			r.host = user
		}
		if r.faker == u {
			r.faker = user
		}
		r.users[i] = user
		return nil
	}
	return consts.ErrorsRejoinTargetNotFound.Detailf("could not readd %s to room %s, existing user target DNE", user, r.code)
}

func (r *Room) FindUser(name string) (User, bool) {
	for _, u := range r.users {
		if u.Name() == name {
			return u, true
		}
	}
	return nil, false
}

func (r *Room) IsFull() bool {
	return len(r.users) >= consts.MaxUsers
}

// IsDead reports whether nobody is left to play: the roster is empty or
// every seat is disconnected.
func (r *Room) IsDead() bool {
	for _, u := range r.users {
		if u.Connected() {
			return false
		}
	}
	return true
}

func (r *Room) IsGameInProgress() bool {
	return r.phase.InProgress()
}

func (r *Room) IsVoting() bool {
	return r.phase == PhaseVote
}

// StartNewRound shuffles the turn order, draws a prompt and picks the faker.
func (r *Room) StartNewRound() error {
	if r.IsGameInProgress() {
		return consts.ErrorsGameInProgress.Detailf("room %s: start round during %s", r.code, r.phase)
	}
	if len(r.users) == 0 {
		return consts.ErrorsNotEnoughUsers.Detailf("room %s: start round with empty roster", r.code)
	}
	r.round++
	shuffle(r.users, r.random)
	r.phase = PhasePlay
	r.turn = 1
	prompt := r.prompts.RandomPrompt()
	r.keyword = prompt.Keyword
	r.hint = prompt.Hint
	r.faker = r.users[r.random.Intn(len(r.users))]
	r.strokes = []Stroke{}
	r.votes = Tally{}
	r.ballots = map[string]string{}
	r.outcome = OutcomePending
	log.Infof("room %s new round %d\n", r.code, r.round)
	return nil
}

// InvokeSetup forces the room back to SETUP and forgets disconnected users.
func (r *Room) InvokeSetup() {
	log.Infof("room %s force setup\n", r.code)
	r.phase = PhaseSetup
	r.turn = -1
	r.keyword = ""
	r.hint = ""
	r.faker = nil
	connected := r.users[:0]
	for _, u := range r.users {
		if u.Connected() {
			connected = append(connected, u)
		}
	}
	for i := len(connected); i < len(r.users); i++ {
		r.users[i] = nil
	}
	r.users = connected
	if r.host != nil && r.indexOf(r.host) < 0 {
		r.host = r.nextHost()
	}
}

// WhoseTurn returns the current drawer. It is only defined during PLAY.
func (r *Room) WhoseTurn() (User, bool) {
	if r.phase != PhasePlay || len(r.users) == 0 {
		return nil, false
	}
	return r.users[turnIndex(r.turn, len(r.users))], true
}

// NextTurn advances the turn while a game is in progress. Once every user has
// had their turns the room moves to VOTE.
func (r *Room) NextTurn() (int, bool) {
	if !r.IsGameInProgress() {
		return 0, false
	}
	r.turn++
	if r.phase == PhasePlay && passesDone(r.turn, len(r.users), consts.TurnsPerUser) {
		r.phase = PhaseVote
		log.Infof("room %s voting\n", r.code)
	}
	return r.turn, true
}

// AddStroke appends a stroke. Whose turn it is must be checked by the caller.
func (r *Room) AddStroke(username string, points []Point) ([]Stroke, error) {
	if r.phase != PhasePlay {
		return nil, consts.ErrorsNotPlaying.Detailf("room %s: stroke from %s during %s", r.code, username, r.phase)
	}
	r.strokes = append(r.strokes, NewStroke(username, points))
	return r.Strokes(), nil
}

// AddVote records voter's ballot against accused. The round ends once every
// user on the roster has voted.
func (r *Room) AddVote(voter, accused string) error {
	if r.phase != PhaseVote {
		return consts.ErrorsNotVoting.Detailf("room %s: vote from %s during %s", r.code, voter, r.phase)
	}
	if _, ok := r.FindUser(voter); !ok {
		return consts.ErrorsUnknownVoter.Detailf("room %s: voter %s not on roster", r.code, voter)
	}
	if _, ok := r.FindUser(accused); !ok {
		return consts.ErrorsUnknownAccused.Detailf("room %s: %s voted for unknown %s", r.code, voter, accused)
	}
	if prev, ok := r.ballots[voter]; ok {
		return consts.ErrorsAlreadyVoted.Detailf("room %s: %s already voted for %s", r.code, voter, prev)
	}
	r.ballots[voter] = accused
	r.votes.Add(accused)
	if r.votes.Total() >= len(r.users) {
		r.finishVote()
	}
	return nil
}

func (r *Room) finishVote() {
	r.phase = PhaseEnd
	r.outcome = r.votes.Judge(r.faker.Name())
	log.Infof("room %s round %d over, faker %s %s\n", r.code, r.round, r.faker, r.outcome)
}

func (r *Room) indexOf(user User) int {
	for i, u := range r.users {
		if u == user {
			return i
		}
	}
	return -1
}

func (r *Room) nextHost() User {
	for _, u := range r.users {
		if u.Connected() {
			return u
		}
	}
	if len(r.users) > 0 {
		return r.users[0]
	}
	return nil
}
