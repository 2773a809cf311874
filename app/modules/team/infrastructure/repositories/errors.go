package teamdb

import "errors"

// ErrNotFound is returned when a student, team or registry row is missing.
var ErrNotFound = errors.New("record not found")
