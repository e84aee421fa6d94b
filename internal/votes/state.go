package votes

// State is a voter's standing on one answer.
type State int

const (
	None State = 0
	Up   State = 1
	Down State = -1
)

func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Action is the storage change a cast causes.
type Action int

const (
	Insert Action = iota + 1
	Remove
	Switch
)

// Transition applies a cast of Up or Down to the current state.
// Casting the held vote again cancels it; casting the other one flips it.
func Transition(current, cast State) (Action, State) {
	switch {
	case current == None:
		return Insert, cast
	case current == cast:
		return Remove, None
	default:
		return Switch, cast
	}
}

func message(action Action, next State) string {
	switch action {
	case Insert:
		if next == Up {
			return "upvoted"
		}
		return "downvoted"
	case Remove:
		return "vote removed"
	default:
		if next == Up {
			return "vote changed to upvote"
		}
		return "vote changed to downvote"
	}
}
