package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/user"
)

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries only the fields to change. created_at is
// accepted so clients can send a full record back, but it is never applied.
type UpdateUserRequest struct {
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string    `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type UserResponse struct {
	ID          uint64    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Post("/register", h.handleCreateUser)
		r.Post("/login", h.handleLogin)
		r.Get("/email/{email}", h.handleGetUserByEmail)
		r.Get("/{id}", h.handleGetUserByID)
		r.Put("/{id}", h.handleUpdateUser)
		r.Delete("/{id}", h.handleDeleteUser)
	})
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.service.ListUsers(r.Context())

	responsePayload := make([]UserResponse, 0, len(users))
	for i := range users {
		responsePayload = append(responsePayload, toUserResponse(&users[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainUser := user.User{
		Email:       requestPayload.Email,
		FirstName:   requestPayload.FirstName,
		LastName:    requestPayload.LastName,
		PhoneNumber: requestPayload.PhoneNumber,
		Address:     requestPayload.Address,
	}

	createdUser, err := h.service.RegisterUser(r.Context(), &domainUser, requestPayload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to register user via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create user"))
		return
	}

	respondWithJSON(w, http.StatusCreated, toUserResponse(createdUser))
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	loggedIn, err := h.service.Login(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to log in"))
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(loggedIn))
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	foundUser, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get user by id"))
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(foundUser))
}

func (h *UserHandler) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	emailParam := chi.URLParam(r, "email")
	if strings.TrimSpace(emailParam) == "" {
		log.Warn().Msg("Failed to parse email from param")
		respondWithError(w, http.StatusBadRequest, "Email parameter cannot be empty")
		return
	}

	foundUser, err := h.service.GetUserByEmail(r.Context(), emailParam)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get user by email"))
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(foundUser))
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updatedUser, err := h.service.UpdateUser(r.Context(), id, user.Patch{
		Email:       requestPayload.Email,
		Password:    requestPayload.Password,
		FirstName:   requestPayload.FirstName,
		LastName:    requestPayload.LastName,
		PhoneNumber: requestPayload.PhoneNumber,
		Address:     requestPayload.Address,
	})
	if err != nil {
		log.Warn().Err(err).Uint64("user_id", id).Msg("Failed to update user via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update user"))
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(updatedUser))
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !h.service.DeleteUser(r.Context(), id) {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
