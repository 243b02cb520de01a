package service

import "errors"

// Request-scoped failure kinds. The API layer maps these onto transport
// status codes with errors.Is; messages stay generic so a denial never
// reveals more than the caller is entitled to know.
var (
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the identity is known but is not a collaborator of
	// the target task list.
	ErrForbidden = errors.New("permission denied")

	// ErrTaskListNotFound means the referenced task list does not exist.
	ErrTaskListNotFound = errors.New("task list not found")

	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrToDoNotFound means the referenced todo does not exist.
	ErrToDoNotFound = errors.New("todo not found")

	// ErrEmptyTitle rejects a task list with no title.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrEmptyContent rejects a todo with no content.
	ErrEmptyContent = errors.New("todo content must not be empty")
)
