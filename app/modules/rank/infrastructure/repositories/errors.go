package rankdb

import "errors"

// ErrViewerRankNotFound is returned when no rank row exists for a viewer.
var ErrViewerRankNotFound = errors.New("viewer rank not found")
