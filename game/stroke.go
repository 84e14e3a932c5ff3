package game

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen movement.
type Stroke struct {
	Username string  `json:"username"`
	Points   []Point `json:"points"`
}

func NewStroke(username string, points []Point) Stroke {
	return Stroke{Username: username, Points: append([]Point{}, points...)}
}

func (s Stroke) Copy() Stroke {
	return NewStroke(s.Username, s.Points)
}

func copyStrokes(strokes []Stroke) []Stroke {
	res := make([]Stroke, len(strokes))
	for i, s := range strokes {
		res[i] = s.Copy()
	}
	return res
}
