package game

import (
	"github.com/ratel-online/core/util/rand"
)

// Random is the source used for turn order and faker selection.
type Random interface {
	Intn(n int) int
}

type coreRandom struct{}

func (coreRandom) Intn(n int) int {
	return rand.Intn(n)
}

// DefaultRandom is backed by the process wide generator.
var DefaultRandom Random = coreRandom{}
