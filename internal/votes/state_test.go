package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		current, cast State
		action        Action
		next          State
	}{
		{None, Up, Insert, Up},
		{None, Down, Insert, Down},
		{Up, Up, Remove, None},
		{Down, Down, Remove, None},
		{Up, Down, Switch, Down},
		{Down, Up, Switch, Up},
	}
	for _, tt := range tests {
		t.Run(tt.current.String()+"->"+tt.cast.String(), func(t *testing.T) {
			action, next := Transition(tt.current, tt.cast)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.next, next)
		})
	}
}

func TestCastTwiceReturnsToStart(t *testing.T) {
	for _, start := range []State{None, Up, Down} {
		for _, cast := range []State{Up, Down} {
			_, mid := Transition(start, cast)
			if mid == None {
				continue
			}
			_, end := Transition(mid, cast)
			assert.Equal(t, None, end, "start=%s cast=%s", start, cast)
		}
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "upvoted", message(Insert, Up))
	assert.Equal(t, "downvoted", message(Insert, Down))
	assert.Equal(t, "vote removed", message(Remove, None))
	assert.Equal(t, "vote changed to upvote", message(Switch, Up))
	assert.Equal(t, "vote changed to downvote", message(Switch, Down))
}
