package poll

import "errors"

var (
	// ErrInvalidPoll is returned when the question is empty or fewer than two
	// non-empty options remain after trimming.
	ErrInvalidPoll = errors.New("invalid poll data")
	// ErrNotEligible is returned when a poll is active and not every student
	// has answered yet.
	ErrNotEligible = errors.New("cannot create a poll at this time")
	// ErrNoActivePoll is returned when an answer arrives with no poll open.
	ErrNoActivePoll = errors.New("no active poll")
	// ErrInvalidAnswer is returned for an option index outside the poll.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrAlreadyAnswered is returned when a student answers the same poll twice.
	ErrAlreadyAnswered = errors.New("you have already answered this poll")
	// ErrPollExpired is returned when an answer arrives after the window closed.
	ErrPollExpired = errors.New("time is up for this poll")
)
