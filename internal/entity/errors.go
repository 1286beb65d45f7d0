package entity

import "errors"

// Domain errors for the learning engine and related aggregates.
var (
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrEventRequired    = errors.New("learning event payload required")
	ErrInvalidConcept   = errors.New("invalid concept identifier")
	ErrProfileNotFound  = errors.New("learning profile not found")
	ErrInvalidListQuery = errors.New("invalid list query")
)
