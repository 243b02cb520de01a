package api

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/service"
)

// Request bodies.

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskListRequest struct {
	Title string `json:"title"`
}

type addCollaboratorRequest struct {
	UserID string `json:"userId"`
}

type createToDoRequest struct {
	Content string `json:"content"`
}

type updateToDoRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// Response bodies. The password hash never appears in any view.

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type todoView struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"isCompleted"`
	TaskListID  string `json:"taskListId"`
	CreatedAt   int64  `json:"createdAt"`
}

type taskListView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt int64      `json:"createdAt"`
	Progress  float64    `json:"progress"`
	Users     []userView `json:"users"`
	ToDos     []todoView `json:"todos,omitempty"`
}

type authResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

type taskListsResponse struct {
	TaskLists []taskListView `json:"taskLists"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserView(user *models.User) userView {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

func toToDoView(todo *models.ToDo) todoView {
	return todoView{
		ID:          todo.ID,
		Content:     todo.Content,
		IsCompleted: todo.IsCompleted,
		TaskListID:  todo.TaskListID,
		CreatedAt:   todo.CreatedAt,
	}
}

func toTaskListView(detail *service.TaskListDetail) taskListView {
	view := taskListView{
		ID:        detail.TaskList.ID,
		Title:     detail.TaskList.Title,
		CreatedAt: detail.TaskList.CreatedAt,
		Progress:  detail.Progress,
		Users:     make([]userView, 0, len(detail.Users)),
	}
	for _, user := range detail.Users {
		view.Users = append(view.Users, toUserView(user))
	}
	for _, todo := range detail.ToDos {
		view.ToDos = append(view.ToDos, toToDoView(todo))
	}
	return view
}
