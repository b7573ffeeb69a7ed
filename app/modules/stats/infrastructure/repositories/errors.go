package statsdb

import "errors"

var (
	// ErrChannelNotFound is returned when no channel row exists.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrStatsNotFound is returned when no stats row exists for the
	// requested channel and window.
	ErrStatsNotFound = errors.New("channel stats not found")
)
