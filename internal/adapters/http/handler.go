package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dashchat/internal/app/accounts"
	"dashchat/internal/app/chat"
	"dashchat/internal/domain"
	"dashchat/internal/observability"
)

type Server struct {
	chat     *chat.Service
	accounts *accounts.Service
	sessions domain.SessionStore
}

func NewServer(chatSvc *chat.Service, accountsSvc *accounts.Service, sessions domain.SessionStore) http.Handler {
	s := &Server{
		chat:     chatSvc,
		accounts: accountsSvc,
		sessions: sessions,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.requireAuth(s.handleLogout))

	mux.HandleFunc("GET /api/account", s.requireAuth(s.handleProfile))
	mux.HandleFunc("PUT /api/account/profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("PUT /api/account/password", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("DELETE /api/account", s.requireAuth(s.handleDeleteAccount))

	mux.HandleFunc("POST /api/chat", s.requireAuth(s.handleChat))
	mux.HandleFunc("POST /api/chat/clear", s.requireAuth(s.handleChatClear))
	mux.HandleFunc("GET /api/chat/history", s.requireAuth(s.handleChatHistory))
	mux.HandleFunc("GET /api/chat/model", s.requireAuth(s.handleModelInfo))

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        domain.UserID `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// ─────────────────────────────────────────────
// Auth and account handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := s.accounts.Register(r.Context(), accounts.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		s.writeAccountError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAccountError(w, r, err)
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.accounts.Logout(cookie.Value)
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.Profile(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.accounts.UpdateProfile(r.Context(), userIDFrom(r), req.FirstName, req.LastName); err != nil {
		s.writeAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
	})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	err := s.accounts.ChangePassword(r.Context(), userIDFrom(r), accounts.ChangePasswordInput{
		Current: req.CurrentPassword,
		New:     req.NewPassword,
		Confirm: req.ConfirmPassword,
	})
	if err != nil {
		s.writeAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if err := s.accounts.DeleteAccount(r.Context(), userID); err != nil {
		s.writeAccountError(w, r, err)
		return
	}
	s.chat.ClearConversation(r.Context(), userID)

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// ─────────────────────────────────────────────
// Chat handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	reply, err := s.chat.SendMessage(r.Context(), userIDFrom(r), req.Message)
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": reply,
		"model":    s.chat.Info().Model,
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	s.chat.ClearConversation(r.Context(), userIDFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation cleared",
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history := s.chat.History(r.Context(), userIDFrom(r))
	if history == nil {
		history = []domain.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": history,
	})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	info := s.chat.Info()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"model":       info.Model,
		"timeout":     info.TimeoutSeconds,
		"max_context": info.MaxContext,
	})
}

// ─────────────────────────────────────────────
// Error translation
// ─────────────────────────────────────────────

func (s *Server) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		timeoutErr  *domain.TimeoutError
		upstreamErr *domain.UpstreamError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "No message provided")
	case errors.As(err, &timeoutErr):
		writeError(w, http.StatusGatewayTimeout,
			fmt.Sprintf("Request timed out after %d seconds. The model might be busy. Please try again.", timeoutErr.Seconds))
	case errors.Is(err, domain.ErrUnreachable):
		writeError(w, http.StatusInternalServerError,
			"Cannot connect to Ollama. Make sure Ollama is running with: ollama serve")
	case errors.As(err, &upstreamErr):
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Ollama API error: %d", upstreamErr.StatusCode))
	case errors.Is(err, domain.ErrEmptyModelResponse):
		writeError(w, http.StatusInternalServerError, "Empty response from AI model")
	default:
		observability.LoggerFromContext(r.Context()).Error("chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %s", err))
	}
}

func (s *Server) writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		observability.LoggerFromContext(r.Context()).Error("account request failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %s", err))
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}
