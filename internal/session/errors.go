package session

import "errors"

// ErrNotTeacher is returned when a connection without teacher privilege
// invokes a teacher-only operation.
var ErrNotTeacher = errors.New("only teachers can perform this action")
