package models

// TaskList represents a collaborative checklist shared by its collaborators.
type TaskList struct {
	// ID is the unique identifier for the list (UUID format).
	ID string

	// Title is the human-readable name of the list.
	Title string

	// CreatedAt is the Unix timestamp when the list was created. Immutable.
	CreatedAt int64

	// CollaboratorIDs is the ordered set of User IDs who may read and
	// mutate this list. The creator is always the first entry and is never
	// removed. A TaskList always has at least one collaborator.
	CollaboratorIDs []string
}

// HasCollaborator reports whether userID is a collaborator of the list.
func (t *TaskList) HasCollaborator(userID string) bool {
	for _, id := range t.CollaboratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Progress returns the completed fraction of a list's todos.
// A list with zero todos has progress exactly 0.
func Progress(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}
