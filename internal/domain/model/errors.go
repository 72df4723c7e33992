package model

import "errors"

var (
	// ErrInvalidMessage is returned by Message.Validate.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrUnknownKind marks a kind tag no grammar is registered for.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrUnknownFamily marks a family outside game, player, team and generic.
	ErrUnknownFamily = errors.New("unknown family")
)
