package runs

import "context"

// System defines the public contract for run operations.
type System interface {
	Handler() *Handler

	// List returns the run catalog, falling back to the default run when the
	// manifest is missing, empty, malformed, or unreadable.
	List(ctx context.Context) (*Catalog, error)
	// History loads the training history of one run.
	History(ctx context.Context, name string) (*History, error)
	// Load fetches the history and confusion matrix of a run concurrently and
	// derives its class records.
	Load(ctx context.Context, name string) (*Run, error)
}
