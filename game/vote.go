package game

// Outcome is the result of a round's vote.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCaught
	OutcomeEscaped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaught:
		return "caught"
	case OutcomeEscaped:
		return "escaped"
	default:
		return "pending"
	}
}

// Decided reports whether the outcome is final, and if so whether the faker
// was caught.
func (o Outcome) Decided() (caught bool, ok bool) {
	return o == OutcomeCaught, o != OutcomePending
}

// Tally maps an accused user's name to the votes against them.
type Tally map[string]int

func (t Tally) Add(name string) {
	t[name]++
}

func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// MaxExcluding returns the highest count among everyone but name, 0 if none.
func (t Tally) MaxExcluding(name string) int {
	max := 0
	for accused, n := range t {
		if accused != name && n > max {
			max = n
		}
	}
	return max
}

// Judge applies the plurality rule: the faker is caught only with strictly
// more votes than anyone else. Ties let the faker escape.
func (t Tally) Judge(faker string) Outcome {
	if t[faker] > t.MaxExcluding(faker) {
		return OutcomeCaught
	}
	return OutcomeEscaped
}

func (t Tally) Copy() Tally {
	res := make(Tally, len(t))
	for k, v := range t {
		res[k] = v
	}
	return res
}
