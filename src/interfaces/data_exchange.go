package interfaces

import (
	"context"

	"golden-cross/src/models"
)

// -----------------------------------------------------------------------------
// IDashboardRenderer turns one user interaction into a view.
// -----------------------------------------------------------------------------

type IDashboardRenderer interface {
	Render(ctx context.Context, req models.MDashboardRequest) *models.MDashboardView
}

// -----------------------------------------------------------------------------
// IDashboardServer hosts the renderer for browsers.
// -----------------------------------------------------------------------------

type IDashboardServer interface {
	// -----------------------------------------------------------------------------
	// Start the server, blocking until it stops
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop(ctx context.Context) error
}
