package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// System manages dashboard sessions.
type System interface {
	Handler() *Handler
	Start(lc *lifecycle.Coordinator) error

	Create(ctx context.Context) (State, error)
	Find(id uuid.UUID) (State, error)
	Delete(id uuid.UUID) error
	Apply(id uuid.UUID, t Transition) (State, error)
	// Load fetches run and applies it to the session. A later Load on the
	// same session cancels this one, which then returns ErrLoadSuperseded.
	Load(ctx context.Context, id uuid.UUID, run string) (State, error)
}
