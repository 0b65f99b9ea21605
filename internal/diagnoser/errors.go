package diagnoser

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSnapshot is returned by Diagnose when there is nothing to analyse.
	ErrNilSnapshot = errors.New("diagnoser: nil snapshot")

	// ErrUnitPanicked marks a unit whose diagnosis panicked and was recovered.
	ErrUnitPanicked = errors.New("diagnosis panicked")
)

// UnitError marks one module or component that could not be diagnosed.
type UnitError struct {
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// isolate runs fn and converts a panic into a UnitError for unit.
func isolate(unit string, fn func()) (uerr *UnitError) {
	defer func() {
		if r := recover(); r != nil {
			uerr = &UnitError{Unit: unit, Err: fmt.Errorf("%w: %v", ErrUnitPanicked, r)}
		}
	}()
	fn()
	return nil
}
