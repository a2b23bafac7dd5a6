package repository

import "errors"

// ErrRestricted is returned when a delete is blocked by a foreign key.
var ErrRestricted = errors.New("repository: row is still referenced")
