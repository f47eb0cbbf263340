package handler

import (
	"log"

	"main/dto"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

const DefaultMaxActiveSessions = 5

func maxActiveSessions() int {
	return utils.GetEnvAsInt("MAX_ACTIVE_SESSIONS", DefaultMaxActiveSessions)
}

func LoginHandler(c *gin.Context, userService *usecase.UserService, sessionRepo *repository.SessionRepo) {
	var loginReq dto.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackAuthAttempt("failure", "login")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	dbTimer := utils.TrackDBOperation("find", "users")
	user, err := userService.FindUserByUsername(loginReq.Username)
	dbTimer.ObserveDuration()

	if err != nil || user == nil {
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid username")
		return
	}

	checkPassword, err := services.VerifyPassword(user.Password, loginReq.Password)
	if err != nil || !checkPassword {
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Incorrect Password")
		return
	}

	// Session cap: evict the least active session when at the limit
	activeCount, err := sessionRepo.CountActiveSessions(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to check session count")
		return
	}

	var notice string
	if activeCount >= maxActiveSessions() {
		if err := sessionRepo.EndLeastActiveSession(user.UserID); err != nil {
			utils.InternalError(c, "Failed to manage sessions")
			return
		}
		notice = "Logged out of least active session due to session limit"
		log.Printf("Ended least active session for user %s due to session limit", user.UserID)
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := middleware.CreateSession(c, user.UserID, sessionRepo); err != nil {
		utils.InternalError(c, "Failed to create session")
		return
	}

	utils.TrackAuthAttempt("success", "login")

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
	if notice != "" {
		response["notice"] = notice
	}

	utils.Success(c, response)
}
