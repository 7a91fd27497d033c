package screen

import (
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/store"
)

// Deps are the services shared by every screen. Repo may be nil, in which
// case quizzes are not recorded locally.
type Deps struct {
	Gateway        gateway.Gateway
	Repo           store.EventRepo
	Analytics      *analytics.ViewModel
	Logger         *zap.Logger
	TotalQuestions int
	// Backend is shown in the header, e.g. "127.0.0.1:8000".
	Backend string
}

// Log returns the logger or a no-op one.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
