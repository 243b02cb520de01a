package models

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"empty list is exactly zero", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"partial", 2, 5, 0.4},
		{"all completed", 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.completed, tt.total); got != tt.want {
				t.Errorf("Progress(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestHasCollaborator(t *testing.T) {
	list := &TaskList{CollaboratorIDs: []string{"a", "b"}}

	if !list.HasCollaborator("a") {
		t.Error("expected a to be a collaborator")
	}
	if list.HasCollaborator("c") {
		t.Error("did not expect c to be a collaborator")
	}
}
