// Package api exposes the service operations as a JSON HTTP surface. It
// decodes arguments, reads the per-request identity from the context, calls
// the service layer, and maps error kinds onto status codes. No policy lives
// here.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/service"
)

// Server wires the authentication and task-list services to HTTP routes.
type Server struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	tasks         *service.TaskListService
	logger        *slog.Logger
}

// New creates an API server over the given services.
func New(authenticator auth.Authenticator, tokens *auth.JWTManager, tasks *service.TaskListService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		authenticator: authenticator,
		tokens:        tokens,
		tasks:         tasks,
		logger:        logger,
	}
}

// Handler builds the route table and wraps it in the middleware chain.
// Identity is resolved once per request, before logging so denials carry the
// caller's user ID.
func (s *Server) Handler(resolver *auth.Resolver) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/v1/auth/signin", s.handleSignIn)

	mux.HandleFunc("GET /api/v1/tasklists", s.handleMyTaskLists)
	mux.HandleFunc("POST /api/v1/tasklists", s.handleCreateTaskList)
	mux.HandleFunc("GET /api/v1/tasklists/{id}", s.handleGetTaskList)
	mux.HandleFunc("PATCH /api/v1/tasklists/{id}", s.handleUpdateTaskList)
	mux.HandleFunc("DELETE /api/v1/tasklists/{id}", s.handleDeleteTaskList)
	mux.HandleFunc("POST /api/v1/tasklists/{id}/collaborators", s.handleAddCollaborator)
	mux.HandleFunc("POST /api/v1/tasklists/{id}/todos", s.handleCreateToDo)
	mux.HandleFunc("PATCH /api/v1/todos/{id}", s.handleSetToDoCompleted)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.CORS(
		middleware.WithIdentity(resolver)(
			middleware.Logging(
				middleware.Metrics(mux),
			),
		),
	)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, name and password are required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Name, req.Avatar, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: toUserView(user), Token: token})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// One generic message for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserView(user), Token: token})
}

func (s *Server) handleMyTaskLists(w http.ResponseWriter, r *http.Request) {
	details, err := s.tasks.MyTaskLists(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	views := make([]taskListView, 0, len(details))
	for _, detail := range details {
		views = append(views, toTaskListView(detail))
	}
	writeJSON(w, http.StatusOK, taskListsResponse{TaskLists: views})
}

func (s *Server) handleCreateTaskList(w http.ResponseWriter, r *http.Request) {
	var req taskListRequest
	if !decode(w, r, &req) {
		return
	}

	detail, err := s.tasks.CreateTaskList(r.Context(), middleware.IdentityFrom(r.Context()), req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskListView(detail))
}

func (s *Server) handleGetTaskList(w http.ResponseWriter, r *http.Request) {
	detail, err := s.tasks.GetTaskList(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListView(detail))
}

func (s *Server) handleUpdateTaskList(w http.ResponseWriter, r *http.Request) {
	var req taskListRequest
	if !decode(w, r, &req) {
		return
	}

	detail, err := s.tasks.UpdateTaskListTitle(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListView(detail))
}

func (s *Server) handleDeleteTaskList(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.tasks.DeleteTaskList(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req addCollaboratorRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	detail, err := s.tasks.AddCollaborator(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskListView(detail))
}

func (s *Server) handleCreateToDo(w http.ResponseWriter, r *http.Request) {
	var req createToDoRequest
	if !decode(w, r, &req) {
		return
	}

	todo, err := s.tasks.CreateToDo(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req.Content)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toToDoView(todo))
}

func (s *Server) handleSetToDoCompleted(w http.ResponseWriter, r *http.Request) {
	var req updateToDoRequest
	if !decode(w, r, &req) {
		return
	}

	todo, err := s.tasks.SetToDoCompleted(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req.IsCompleted)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toToDoView(todo))
}

// writeServiceError maps service and auth error kinds onto status codes.
// Anything unmatched is an internal error with a generic body.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTaskListNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrToDoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads the JSON body into v, answering 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
