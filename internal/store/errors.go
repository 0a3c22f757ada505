package store

import "errors"

// ErrDuplicateUpload is returned when an upload reuses a filename that
// is already part of the session.
var ErrDuplicateUpload = errors.New("file already uploaded")
