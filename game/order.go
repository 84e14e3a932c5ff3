package game

// turnIndex maps a 1-based turn counter onto a roster of n seats, wrapping
// around so each seat comes up once per pass.
func turnIndex(turn, n int) int {
	return (turn - 1) % n
}

// passesDone reports whether turn has gone past the given number of full
// passes over n seats.
func passesDone(turn, n, passes int) bool {
	return turn-1 >= n*passes
}

func shuffle(users []User, r Random) {
	for i := len(users) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		users[i], users[j] = users[j], users[i]
	}
}
