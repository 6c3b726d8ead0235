package models

import "errors"

var (
	// ErrAnalysisDisabled is returned when no analysis provider is configured
	ErrAnalysisDisabled = errors.New("analysis is disabled: no API key configured")
	// ErrAlreadyPending is returned when the ticker already has an analysis in flight
	ErrAlreadyPending = errors.New("an analysis for this ticker is already in progress")
	// ErrGroupActive is returned when a group run is already in flight
	ErrGroupActive = errors.New("a group analysis is already in progress")
	// ErrNotLoaded is returned before the first stock load has finished
	ErrNotLoaded = errors.New("stocks have not been loaded yet")
)
