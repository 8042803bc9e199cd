package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/dto"
	"FINTRACK_BACK-END/internal/middleware"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/storage"
	"FINTRACK_BACK-END/internal/utils"
)

// GoogleAuthHandler handles Google OAuth authentication. A Google account is
// linked to a regular user row by email; sign-in issues the same JWT as the
// password flow.
type GoogleAuthHandler struct {
	store        storage.UserStore
	oauth2Config *oauth2.Config
	config       *config.Config
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(store storage.UserStore, cfg *config.Config) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleAuthHandler{
		store:        store,
		oauth2Config: oauth2Config,
		config:       cfg,
	}
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate Google OAuth login flow
// @Tags user
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// State parameter for CSRF protection
	state := uuid.New().String()
	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: authURL,
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Handle Google OAuth callback with authorization code
// @Tags user
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string false "State parameter for CSRF protection"
// @Success 302 "Redirect to frontend with token"
// @Failure 400 {object} dto.ErrorResponse "Missing authorization code"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}

	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", "Authorization code was rejected")
		return
	}

	userInfo, err := h.getGoogleUserInfo(r, token.AccessToken)
	if err != nil {
		log.Printf("google callback: fetch user info: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user info", "Could not fetch Google profile")
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), userInfo.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("google callback: find user: %v", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to look up user", "Internal server error")
			return
		}
		user, err = h.createGoogleUser(r, userInfo)
		if err != nil {
			log.Printf("google callback: create user: %v", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Internal server error")
			return
		}
	}

	jwtToken, err := middleware.GenerateToken(user, &h.config.JWT)
	if err != nil {
		log.Printf("google callback: generate token: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Internal server error")
		return
	}

	redirectURL := fmt.Sprintf("%s?token=%s&user_id=%s&email=%s&provider=google&is_verified=%t",
		h.config.GoogleOAuth.FrontendURL,
		jwtToken,
		user.ID.String(),
		url.QueryEscape(user.Email),
		userInfo.Verified)

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(r *http.Request, accessToken string) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(r.Context(), option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	})))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}

// createGoogleUser creates a new USER from Google OAuth data. The password
// hash stays empty, so the account cannot log in through the password flow.
func (h *GoogleAuthHandler) createGoogleUser(r *http.Request, googleUser *dto.GoogleUserInfo) (models.User, error) {
	now := time.Now()
	user := models.User{
		ID:        uuid.New(),
		Name:      googleUser.Name,
		Email:     googleUser.Email,
		Phone:     "",
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return h.store.CreateUser(r.Context(), user)
}
