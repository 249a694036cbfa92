package domain

import "errors"

// Domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("planner api request failed")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidValue = errors.New("invalid numeric value")
)
