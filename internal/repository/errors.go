package repository

import "errors"

// ErrNotFound is returned by repositories when the target row does not
// exist. Services map it onto the caller-visible error taxonomy.
var ErrNotFound = errors.New("record not found")
