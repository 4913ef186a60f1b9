package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	ErrFileAccess       = errors.New("file access error")
	ErrCommitInProgress = errors.New("operation already in progress on this destination")
	ErrLogCorrupt       = errors.New("move log corrupt")
)
