package annotation

import "fmt"

type Behavior string

const (
	Attacking          Behavior = "attacking"
	Jumping            Behavior = "jumping"
	UnsupportedRearing Behavior = "unsupported rearing"
	SupportedRearing   Behavior = "supported rearing"
	Grooming           Behavior = "grooming"
	Freezing           Behavior = "freezing"
)

// Behaviors is the labeling vocabulary in keyboard order: Digit1 selects
// Behaviors[0], Digit6 selects Behaviors[5].
var Behaviors = []Behavior{
	Attacking,
	Jumping,
	UnsupportedRearing,
	SupportedRearing,
	Grooming,
	Freezing,
}

func ParseBehavior(s string) (Behavior, error) {
	for _, b := range Behaviors {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBehavior, s)
}

// BehaviorForDigit maps 1..6 to a label.
func BehaviorForDigit(d int) (Behavior, bool) {
	if d < 1 || d > len(Behaviors) {
		return "", false
	}
	return Behaviors[d-1], true
}
