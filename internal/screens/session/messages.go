package session

import (
	sess "github.com/abhisek/quizpath/internal/session"
)

// stateMsg carries the controller snapshot after a backend call.
type stateMsg struct {
	State sess.State
	Err   error
}
