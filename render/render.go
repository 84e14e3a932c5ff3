// Package render builds the human readable notices shown to terminal clients.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ratel-online/faker/game"
)

func Welcome(name string) string {
	return fmt.Sprintf("Hi %s, welcome to faker! Create a room or join one with its code.\n", name)
}

func Created(code string) string {
	return fmt.Sprintf("Created room %s, share the code with your friends.\n", cyan("%s", code))
}

func Join(name string, players int) string {
	return fmt.Sprintf("%s joined room! room current has %d players\n", cyan("%s", name), players)
}

func Rejoin(name string) string {
	return fmt.Sprintf("%s reconnected\n", cyan("%s", name))
}

func Exit(name string, players int) string {
	return fmt.Sprintf("%s exited room! room current has %d players\n", cyan("%s", name), players)
}

func Offline(name string) string {
	return fmt.Sprintf("%s lost connection\n", cyan("%s", name))
}

func OwnerChange(name string) string {
	return fmt.Sprintf("%s become new owner\n", yellow("%s", name))
}

// NewRound lists the drawing order for the round.
func NewRound(round int, users []game.User) string {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf("Round %d! Drawing order:\n", round))
	for i, u := range users {
		buf.WriteString(fmt.Sprintf("%d.%s\n", i+1, u.Name()))
	}
	return buf.String()
}

func Turn(name string) string {
	return fmt.Sprintf("It's %s turn! \n", green("%s", name))
}

func TurnSkipped(name string) string {
	return fmt.Sprintf("%s ran out of time\n", yellow("%s", name))
}

func VotingStarted() string {
	return yellow("Drawing is over, vote for the faker!") + "\n"
}

func VoteTimeout() string {
	return yellow("Not everyone voted in time, back to setup.") + "\n"
}

// Result announces the end of a round.
func Result(faker, keyword string, outcome game.Outcome, votes game.Tally) string {
	buf := bytes.Buffer{}
	if outcome == game.OutcomeCaught {
		buf.WriteString(fmt.Sprintf("%s was the faker and got caught!\n", red("%s", faker)))
	} else {
		buf.WriteString(fmt.Sprintf("%s was the faker and escaped!\n", red("%s", faker)))
	}
	buf.WriteString(fmt.Sprintf("The keyword was %s\n", green("%s", keyword)))
	buf.WriteString(Votes(votes))
	return buf.String()
}

// Votes renders the tally sorted by name.
func Votes(votes game.Tally) string {
	names := make([]string, 0, len(votes))
	for name := range votes {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%-20s%d", name, votes[name]))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
