package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/storage"
)

// CreateToDo persists a new todo item. The task list must exist; the foreign
// key constraint rejects orphan items.
func (s *SQLiteStore) CreateToDo(ctx context.Context, todo *models.ToDo) error {
	// Generate ID if not set
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt == 0 {
		todo.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (id, task_list_id, content, is_completed, created_at) VALUES (?, ?, ?, ?, ?)",
		todo.ID, todo.TaskListID, todo.Content, todo.IsCompleted, todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// GetToDo retrieves a todo by ID.
func (s *SQLiteStore) GetToDo(ctx context.Context, todoID string) (*models.ToDo, error) {
	todo := &models.ToDo{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, task_list_id, content, is_completed, created_at FROM todos WHERE id = ?",
		todoID,
	).Scan(&todo.ID, &todo.TaskListID, &todo.Content, &todo.IsCompleted, &todo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// SetToDoCompleted flips a todo's completion flag.
func (s *SQLiteStore) SetToDoCompleted(ctx context.Context, todoID string, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET is_completed = ? WHERE id = ?",
		completed, todoID,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
	}

	return nil
}

// ListToDosForTaskList retrieves a list's todos in creation order.
func (s *SQLiteStore) ListToDosForTaskList(ctx context.Context, listID string) ([]*models.ToDo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, task_list_id, content, is_completed, created_at FROM todos WHERE task_list_id = ? ORDER BY created_at, id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.ToDo
	for rows.Next() {
		todo := &models.ToDo{}
		if err := rows.Scan(&todo.ID, &todo.TaskListID, &todo.Content, &todo.IsCompleted, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// ToDoStats returns the total and completed todo counts for a list in one
// aggregate query. Both counts are 0 for a list with no todos.
func (s *SQLiteStore) ToDoStats(ctx context.Context, listID string) (total, completed int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(is_completed), 0) FROM todos WHERE task_list_id = ?",
		listID,
	).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	return total, completed, nil
}
