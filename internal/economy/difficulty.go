package economy

import "fmt"

// Difficulty is the fixed per-game multiplier applied to event and
// production formulas.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a wire name into a Difficulty. An empty string
// means normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return Difficulty(s), nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Modifier returns the numeric multiplier: 0.75, 1.0 or 1.5.
func (d Difficulty) Modifier() float64 {
	switch d {
	case DifficultyEasy:
		return 0.75
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

func (d Difficulty) String() string {
	return string(d)
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
