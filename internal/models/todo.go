package models

// ToDo represents a single checklist item.
type ToDo struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Content is the text of the item (e.g., "Milk").
	Content string

	// IsCompleted reports whether the item has been checked off.
	// Defaults to false at creation.
	IsCompleted bool

	// TaskListID is the list this item belongs to. Set once at creation,
	// never reassigned.
	TaskListID string

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64
}
