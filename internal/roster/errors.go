package roster

import "errors"

var (
	// ErrNameRequired is returned when a student joins with an empty name.
	ErrNameRequired = errors.New("name is required")
	// ErrRoleAssigned is returned when a connection that already holds a role
	// tries to join as the other role. First role wins.
	ErrRoleAssigned = errors.New("connection already has a role")
	// ErrUnknownStudent is returned for operations on an id that is not a
	// registered student.
	ErrUnknownStudent = errors.New("student not found")
)
