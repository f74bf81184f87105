package membership

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("club not found")
	ErrUnauthorized     = errors.New("only the club owner can manage join requests")
	ErrDuplicateRequest = errors.New("a join request is already pending")
	ErrNoPendingRequest = errors.New("no such pending request")
	ErrAlreadyMember    = errors.New("user is already a member of this club")
	ErrNotAMember       = errors.New("user is not a member of this club")
	ErrOwnerCannotLeave = errors.New("club owner cannot leave the club")
	ErrPersistence      = errors.New("persistence failure")
)

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
