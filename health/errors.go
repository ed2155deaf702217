package health

import "errors"

var (
	// ErrBuilderConsumed indicates a Builder was used after Build.
	ErrBuilderConsumed = errors.New("health: builder already built")

	// ErrCheckPanicked indicates a health check panicked.
	ErrCheckPanicked = errors.New("health: check panicked")
)
