package domain

import "errors"

var (
	ErrInvalidAgent  = errors.New("invalid agent")
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentExists   = errors.New("agent already exists")
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupExists   = errors.New("group already exists")
	ErrGroupNotEmpty = errors.New("group still has agents")
	ErrInvalidGroup  = errors.New("invalid group")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidDate   = errors.New("invalid date")
)
