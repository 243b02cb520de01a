// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/taskhive/taskhive/internal/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an insert violates a unique
	// constraint, e.g. a duplicate user email.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for TaskHive storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every write is a single atomic operation; collaborator addition in
// particular is an atomic set append, never a read-modify-write.
type Store interface {
	// CreateUser persists a new user. A duplicate email returns an error
	// wrapping ErrAlreadyExists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users in a single batched lookup.
	// Returns a map of user ID to User; missing users are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateTaskList persists a new list with its creator as the sole
	// initial collaborator. The list.ID and CreatedAt fields are populated.
	CreateTaskList(ctx context.Context, list *models.TaskList) error

	// GetTaskList retrieves a list with its ordered collaborator set.
	// Returns ErrNotFound when the list does not exist.
	GetTaskList(ctx context.Context, listID string) (*models.TaskList, error)

	// ListTaskListsForUser retrieves every list the user collaborates on,
	// newest first.
	ListTaskListsForUser(ctx context.Context, userID string) ([]*models.TaskList, error)

	// UpdateTaskListTitle sets the list's title. Returns ErrNotFound when
	// the list does not exist.
	UpdateTaskListTitle(ctx context.Context, listID, title string) error

	// AddCollaborator atomically appends userID to the list's collaborator
	// set. Adding an existing collaborator is a no-op.
	AddCollaborator(ctx context.Context, listID, userID string) error

	// DeleteTaskList removes the list and cascades to its todos and
	// collaborator entries. Returns ErrNotFound when the list does not exist.
	DeleteTaskList(ctx context.Context, listID string) error

	// CreateToDo persists a new todo item on its list.
	CreateToDo(ctx context.Context, todo *models.ToDo) error

	// GetToDo retrieves a todo by ID. Returns ErrNotFound when it does not
	// exist.
	GetToDo(ctx context.Context, todoID string) (*models.ToDo, error)

	// SetToDoCompleted flips a todo's completion flag. Returns ErrNotFound
	// when the todo does not exist.
	SetToDoCompleted(ctx context.Context, todoID string, completed bool) error

	// ListToDosForTaskList retrieves a list's todos in creation order.
	ListToDosForTaskList(ctx context.Context, listID string) ([]*models.ToDo, error)

	// ToDoStats returns the total and completed todo counts for a list.
	ToDoStats(ctx context.Context, listID string) (total, completed int, err error)

	// Close releases any resources held by the store.
	Close() error
}
