package middleware

import (
	"time"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func sessionLifetime() time.Duration {
	return utils.GetEnvAsDuration("SESSION_LIFETIME", 24*time.Hour)
}

func inactivityTimeout() time.Duration {
	return utils.GetEnvAsDuration("SESSION_INACTIVITY_TIMEOUT", 48*time.Hour)
}

func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(sessionID)
		if err != nil || session == nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > inactivityTimeout() {
			session.IsActive = false
			sessionRepo.UpdateSession(session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		// Update last activity time
		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(session)

		c.Set("session", session)
		c.Next()
	}
}

// CreateSession records a new device session and sets the session cookie.
func CreateSession(c *gin.Context, userID string, sessionRepo *repository.SessionRepo) error {
	lifetime := sessionLifetime()
	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DeviceInfo:     utils.SessionDeviceInfo(c.Request.UserAgent()),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(lifetime),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(session); err != nil {
		return err
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(lifetime.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return nil
}
