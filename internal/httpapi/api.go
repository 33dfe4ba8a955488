package httpapi

import (
	"context"

	"go.uber.org/zap"

	"quizboard/internal/account"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/tracker"
)

// Hinter picks the likely correct option for a question.
type Hinter interface {
	Solve(ctx context.Context, question string, options []string) (int, error)
}

type API struct {
	quizzes       *quiz.Service
	tracker       *tracker.Service
	accounts      *account.Service
	notifications *notify.Service
	hints         Hinter
	logger        *zap.Logger
}

// NewAPI wires the handlers. hints may be nil, which disables the hint route.
func NewAPI(quizzes *quiz.Service, tracker *tracker.Service, accounts *account.Service, notifications *notify.Service, hints Hinter, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		quizzes:       quizzes,
		tracker:       tracker,
		accounts:      accounts,
		notifications: notifications,
		hints:         hints,
		logger:        logger,
	}
}
