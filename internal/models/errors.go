package models

import "errors"

var (
	ErrNotLoggedIn = errors.New("no active session, log in first")
	ErrValidation  = errors.New("request failed validation")
	ErrNoAuction   = errors.New("requested auction does not exist")
	ErrNoLines     = errors.New("auction has no lines to quote")
	ErrUnknownLine = errors.New("bid quotes a line that does not belong to the auction")
	ErrTransition  = errors.New("status transition is not allowed")
)
