package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/dto"
	"FINTRACK_BACK-END/internal/middleware"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/storage"
	"FINTRACK_BACK-END/internal/utils"
	"FINTRACK_BACK-END/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store  storage.UserStore
	config *config.Config
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(store storage.UserStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: store, config: cfg}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account and return it with a signed token
// @Tags user
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} utils.Envelope "User registered successfully"
// @Failure 400 {object} utils.Envelope "Validation error or duplicate email"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	if err := validation.CheckPayload(req); err != nil {
		utils.WriteFailureResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			utils.WriteFailureResponse(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("register: create user: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := middleware.GenerateToken(created, &h.config.JWT)
	if err != nil {
		log.Printf("register: generate token: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := dto.RegisterResponse{
		User:  toUserResponse(created),
		Token: token,
	}
	utils.WriteSuccessResponse(w, http.StatusCreated, resp, "User registered successfully")
}

// Login handles user login
// @Summary User login
// @Description Authenticate with email and password and receive a token
// @Tags user
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} utils.Envelope "Login successful"
// @Failure 400 {object} utils.Envelope "Validation error"
// @Failure 401 {object} utils.Envelope "Invalid email or password"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if err := validation.CheckPayload(req); err != nil {
		utils.WriteFailureResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The same message covers an unknown email and a wrong password, so
	// accounts cannot be enumerated through login attempts.
	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteFailureResponse(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("login: find user: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteFailureResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(user, &h.config.JWT)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccessResponse(w, http.StatusOK, dto.LoginResponse{Token: token}, "Login successful")
}

// GetCurrentUser returns the authenticated user's details
// @Summary Get current user details
// @Description Returns details of the logged-in user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope "User found"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.Envelope "User not found"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /user/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteFailureResponse(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("get current user: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccessResponse(w, http.StatusOK, toUserResponse(user), "User found")
}

func toUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: utils.FormatTimestamp(user.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(user.UpdatedAt),
	}
}
