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

// CreateTaskList persists a new task list and its creator as the first
// collaborator. The list must carry exactly one collaborator ID (the creator).
func (s *SQLiteStore) CreateTaskList(ctx context.Context, list *models.TaskList) error {
	if len(list.CollaboratorIDs) != 1 {
		return fmt.Errorf("new task list must have exactly one collaborator (the creator), got %d", len(list.CollaboratorIDs))
	}

	// Generate IDs if not set
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO task_lists (id, title, created_at) VALUES (?, ?, ?)",
		list.ID, list.Title, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task list: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO task_list_collaborators (task_list_id, user_id, position) VALUES (?, ?, 0)",
		list.ID, list.CollaboratorIDs[0],
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator collaborator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTaskList retrieves a task list with its ordered collaborator set.
func (s *SQLiteStore) GetTaskList(ctx context.Context, listID string) (*models.TaskList, error) {
	list := &models.TaskList{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM task_lists WHERE id = ?",
		listID,
	).Scan(&list.ID, &list.Title, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task list %s: %w", listID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task list: %w", err)
	}

	list.CollaboratorIDs, err = s.collaboratorIDs(ctx, listID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// ListTaskListsForUser retrieves every task list the user collaborates on,
// newest first. Collaborator sets are loaded with one batched query for all
// matched lists, not one query per list.
func (s *SQLiteStore) ListTaskListsForUser(ctx context.Context, userID string) ([]*models.TaskList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tl.id, tl.title, tl.created_at
		 FROM task_lists tl
		 JOIN task_list_collaborators c ON c.task_list_id = tl.id
		 WHERE c.user_id = ?
		 ORDER BY tl.created_at DESC, tl.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.TaskList
	var ids []string
	for rows.Next() {
		list := &models.TaskList{}
		if err := rows.Scan(&list.ID, &list.Title, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task list: %w", err)
		}
		lists = append(lists, list)
		ids = append(ids, list.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task lists: %w", err)
	}

	if len(ids) == 0 {
		return lists, nil
	}

	collaborators, err := s.collaboratorIDsForLists(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, list := range lists {
		list.CollaboratorIDs = collaborators[list.ID]
	}

	return lists, nil
}

// UpdateTaskListTitle sets the title of an existing task list.
func (s *SQLiteStore) UpdateTaskListTitle(ctx context.Context, listID, title string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE task_lists SET title = ? WHERE id = ?",
		title, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task list: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task list %s: %w", listID, storage.ErrNotFound)
	}

	return nil
}

// AddCollaborator appends userID to the list's collaborator set as a single
// atomic statement. The position is computed inside the INSERT, so two racing
// additions cannot lose each other, and re-adding an existing collaborator is
// a no-op.
func (s *SQLiteStore) AddCollaborator(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_list_collaborators (task_list_id, user_id, position)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1
		 FROM task_list_collaborators
		 WHERE task_list_id = ?`,
		listID, userID, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}

	return nil
}

// DeleteTaskList removes a task list. Collaborator entries and todos are
// removed by the schema's ON DELETE CASCADE.
func (s *SQLiteStore) DeleteTaskList(ctx context.Context, listID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM task_lists WHERE id = ?", listID)
	if err != nil {
		return fmt.Errorf("failed to delete task list: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task list %s: %w", listID, storage.ErrNotFound)
	}

	return nil
}

// collaboratorIDs returns one list's collaborator IDs in insertion order.
func (s *SQLiteStore) collaboratorIDs(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM task_list_collaborators WHERE task_list_id = ? ORDER BY position, user_id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collaborators: %w", err)
	}

	return ids, nil
}

// collaboratorIDsForLists returns the ordered collaborator IDs for every
// given list in one IN-clause query.
func (s *SQLiteStore) collaboratorIDsForLists(ctx context.Context, listIDs []string) (map[string][]string, error) {
	query := `
		SELECT task_list_id, user_id
		FROM task_list_collaborators
		WHERE task_list_id IN (?` + repeatPlaceholder(len(listIDs)-1) + `)
		ORDER BY task_list_id, position, user_id`

	args := make([]interface{}, len(listIDs))
	for i, id := range listIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	defer rows.Close()

	collaborators := make(map[string][]string)
	for rows.Next() {
		var listID, userID string
		if err := rows.Scan(&listID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators[listID] = append(collaborators[listID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collaborators: %w", err)
	}

	return collaborators, nil
}
