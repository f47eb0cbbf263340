package handler

import (
	"strings"

	"main/dto"
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// SessionEnder covers the session teardown the logout handlers need.
// Satisfied by repository.SessionRepo.
type SessionEnder interface {
	EndSession(sessionID string) error
	EndAllUserSessions(userID string) error
}

// LogoutHandler blacklists the caller's tokens, ends the device session and
// releases the note store so the live subscription is torn down exactly once.
func LogoutHandler(c *gin.Context, sessionRepo SessionEnder, stores *usecase.StoreManager) {
	userID := c.GetString("user_id")

	var req dto.LogoutRequest
	c.ShouldBindJSON(&req) // refresh token is optional

	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if accessToken != "" {
		if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
			utils.TrackError("auth", "token_blacklist_failed")
		}
	}

	if sessionID, err := c.Cookie("session_id"); err == nil {
		if err := sessionRepo.EndSession(sessionID); err != nil {
			utils.TrackError("session", "session_end_failed")
		}
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	if session, exists := c.Get("session"); exists {
		if s, ok := session.(*model.Session); ok && s.SessionID != "" {
			sessionRepo.EndSession(s.SessionID)
		}
	}

	// No session left: reset the store and drop the subscription
	stores.Release(userID)

	utils.TrackAuthAttempt("success", "logout")
	utils.Success(c, gin.H{"message": "Logged out successfully"})
}

// LogoutAllHandler ends every active session of the caller, not just the
// current device. The current tokens are blacklisted and the note store is
// released like a regular logout.
func LogoutAllHandler(c *gin.Context, sessions SessionEnder, stores *usecase.StoreManager) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, model.ErrNotAuthenticated.Error())
		return
	}

	var req dto.LogoutRequest
	c.ShouldBindJSON(&req) // refresh token is optional

	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if accessToken != "" {
		if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
			utils.TrackError("auth", "token_blacklist_failed")
		}
	}

	if err := sessions.EndAllUserSessions(userID); err != nil {
		utils.TrackError("session", "sessions_end_failed")
		utils.InternalError(c, "failed to end sessions")
		return
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	stores.Release(userID)

	utils.TrackAuthAttempt("success", "logout_all")
	utils.Success(c, gin.H{"message": "Logged out of all sessions"})
}
