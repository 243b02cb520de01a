// Package service enforces who may read or mutate task lists and performs
// the authorized operations against storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/storage"
)

// TaskListDetail is a task list enriched with its resolved collaborators,
// derived progress, and (when fetched singly) its todos.
type TaskListDetail struct {
	TaskList *models.TaskList

	// Users holds the resolved collaborators in collaborator-set order,
	// creator first. Dangling collaborator IDs are skipped.
	Users []*models.User

	// ToDos is populated by GetTaskList and CreateTaskList; list queries
	// leave it nil.
	ToDos []*models.ToDo

	// Progress is the completed fraction of the list's todos, 0 when the
	// list has none.
	Progress float64
}

// TaskListService authorizes and executes every task-list and todo operation.
// All methods take the caller's Identity; an anonymous caller is rejected
// with ErrUnauthenticated before anything else is looked at.
type TaskListService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTaskListService creates a new TaskListService with the given storage
// backend.
func NewTaskListService(store storage.Store, logger *slog.Logger) *TaskListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskListService{store: store, logger: logger}
}

// MyTaskLists returns every task list the caller collaborates on, newest
// first, without todos.
func (s *TaskListService) MyTaskLists(ctx context.Context, caller auth.Identity) ([]*TaskListDetail, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	lists, err := s.store.ListTaskListsForUser(ctx, caller.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	details := make([]*TaskListDetail, 0, len(lists))
	for _, list := range lists {
		detail, err := s.buildDetail(ctx, list, false)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

// GetTaskList returns one task list with todos. The caller must be a
// collaborator; a known list with a non-member caller is ErrForbidden, an
// unknown id is ErrTaskListNotFound.
func (s *TaskListService) GetTaskList(ctx context.Context, caller auth.Identity, listID string) (*TaskListDetail, error) {
	list, err := s.authorize(ctx, caller, listID)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, list, true)
}

// CreateTaskList creates a new list with the caller as its sole initial
// collaborator. Creation requires only authentication.
func (s *TaskListService) CreateTaskList(ctx context.Context, caller auth.Identity, title string) (*TaskListDetail, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	list := &models.TaskList{
		Title:           title,
		CollaboratorIDs: []string{caller.UserID()},
	}
	if err := s.store.CreateTaskList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}

	s.logger.Info("task list created", "task_list_id", list.ID, "user_id", caller.UserID())

	return s.buildDetail(ctx, list, true)
}

// UpdateTaskListTitle renames a list the caller collaborates on.
func (s *TaskListService) UpdateTaskListTitle(ctx context.Context, caller auth.Identity, listID, title string) (*TaskListDetail, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	list, err := s.authorize(ctx, caller, listID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateTaskListTitle(ctx, listID, title); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskListNotFound
		}
		return nil, fmt.Errorf("failed to update task list: %w", err)
	}
	list.Title = title

	s.logger.Info("task list renamed", "task_list_id", listID, "user_id", caller.UserID())

	return s.buildDetail(ctx, list, true)
}

// AddCollaborator adds a user to a list the caller collaborates on. The
// target user must exist. Adding an existing collaborator is a no-op that
// returns the list unchanged.
func (s *TaskListService) AddCollaborator(ctx context.Context, caller auth.Identity, listID, userID string) (*TaskListDetail, error) {
	if _, err := s.authorize(ctx, caller, listID); err != nil {
		return nil, err
	}

	target, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if err := s.store.AddCollaborator(ctx, listID, userID); err != nil {
		return nil, fmt.Errorf("failed to add collaborator: %w", err)
	}

	s.logger.Info("collaborator added",
		"task_list_id", listID,
		"user_id", userID,
		"added_by", caller.UserID(),
	)

	// Re-read so the returned collaborator set is the store's, not a local
	// copy mutated in memory.
	list, err := s.store.GetTaskList(ctx, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskListNotFound
		}
		return nil, fmt.Errorf("failed to reload task list: %w", err)
	}

	return s.buildDetail(ctx, list, true)
}

// DeleteTaskList deletes a list the caller collaborates on, cascading to its
// todos. Returns true when the list was deleted.
func (s *TaskListService) DeleteTaskList(ctx context.Context, caller auth.Identity, listID string) (bool, error) {
	if _, err := s.authorize(ctx, caller, listID); err != nil {
		return false, err
	}

	if err := s.store.DeleteTaskList(ctx, listID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrTaskListNotFound
		}
		return false, fmt.Errorf("failed to delete task list: %w", err)
	}

	s.logger.Info("task list deleted", "task_list_id", listID, "user_id", caller.UserID())

	return true, nil
}

// CreateToDo adds a new, uncompleted todo to a list the caller collaborates
// on.
func (s *TaskListService) CreateToDo(ctx context.Context, caller auth.Identity, listID, content string) (*models.ToDo, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.authorize(ctx, caller, listID); err != nil {
		return nil, err
	}

	todo := &models.ToDo{
		Content:    content,
		TaskListID: listID,
	}
	if err := s.store.CreateToDo(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("todo created", "todo_id", todo.ID, "task_list_id", listID, "user_id", caller.UserID())

	return todo, nil
}

// SetToDoCompleted checks a todo off (or back on). Authorization follows the
// todo's task list: only that list's collaborators may flip it.
func (s *TaskListService) SetToDoCompleted(ctx context.Context, caller auth.Identity, todoID string, completed bool) (*models.ToDo, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	todo, err := s.store.GetToDo(ctx, todoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrToDoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	if _, err := s.authorize(ctx, caller, todo.TaskListID); err != nil {
		return nil, err
	}

	if err := s.store.SetToDoCompleted(ctx, todoID, completed); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrToDoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	todo.IsCompleted = completed

	s.logger.Info("todo updated", "todo_id", todoID, "completed", completed, "user_id", caller.UserID())

	return todo, nil
}

// authorize loads the target list and checks, in order: the caller is
// authenticated, the list exists, and the caller is one of its
// collaborators. An unknown id is NotFound, not an authorization failure:
// "you can't" and "it doesn't exist" stay distinct outcomes.
func (s *TaskListService) authorize(ctx context.Context, caller auth.Identity, listID string) (*models.TaskList, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	list, err := s.store.GetTaskList(ctx, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskListNotFound
		}
		return nil, fmt.Errorf("failed to get task list: %w", err)
	}

	if !list.HasCollaborator(caller.UserID()) {
		return nil, ErrForbidden
	}

	return list, nil
}

// buildDetail resolves collaborators with one batched lookup and computes
// progress; todos are attached only when withToDos is set.
func (s *TaskListService) buildDetail(ctx context.Context, list *models.TaskList, withToDos bool) (*TaskListDetail, error) {
	usersByID, err := s.store.GetUsersByIDs(ctx, list.CollaboratorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collaborators: %w", err)
	}

	users := make([]*models.User, 0, len(list.CollaboratorIDs))
	for _, id := range list.CollaboratorIDs {
		if user, ok := usersByID[id]; ok {
			users = append(users, user)
		}
	}

	detail := &TaskListDetail{TaskList: list, Users: users}

	if withToDos {
		todos, err := s.store.ListToDosForTaskList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list todos: %w", err)
		}
		detail.ToDos = todos

		completed := 0
		for _, todo := range todos {
			if todo.IsCompleted {
				completed++
			}
		}
		detail.Progress = models.Progress(completed, len(todos))
		return detail, nil
	}

	total, completed, err := s.store.ToDoStats(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}
	detail.Progress = models.Progress(completed, total)

	return detail, nil
}
