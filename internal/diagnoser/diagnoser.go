package diagnoser

import (
	"context"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// Diagnoser explains why the modules and components of a snapshot are not running.
//
// Implementations must treat the snapshot as read-only and must not fail the
// whole run because one unit could not be diagnosed.
type Diagnoser interface {
	Diagnose(ctx context.Context, snap *inventory.Snapshot) (Report, error)
}
