package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("interview session not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrInterviewFinished  = errors.New("interview already finished")
)
