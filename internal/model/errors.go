package model

import "errors"

var (
	// ErrMemberNotFound is returned when a member name is not declared by
	// the class at the time of lookup.
	ErrMemberNotFound = errors.New("member not found")

	// ErrClassNotFound is returned by adapters when the named class is not
	// declared in the source.
	ErrClassNotFound = errors.New("class not found")

	// ErrDuplicateMember is returned when inserting a member whose name is
	// already taken.
	ErrDuplicateMember = errors.New("duplicate member")

	// ErrUnsupported is returned by adapters for input they cannot model,
	// such as classes with more than one constructor.
	ErrUnsupported = errors.New("unsupported class")
)
