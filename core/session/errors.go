package session

import "errors"

var (
	ErrLoadSession   = errors.New("failed to load session")
	ErrSaveSession   = errors.New("failed to save session")
	ErrDeleteSession = errors.New("failed to delete session")
)
