package handler

import (
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetUserProfileHandler returns the account record together with the size of
// the user's note collection.
func GetUserProfileHandler(c *gin.Context, userService *usecase.UserService, counter usecase.NotesCounter) {
	userID := c.GetString("user_id")

	user, err := userService.FindUser(userID)
	if err != nil {
		utils.InternalError(c, "failed to fetch profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "user not found")
		return
	}

	noteCount, err := counter.CountUserNotes(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("database", "note_count_failed")
		noteCount = 0
	}

	utils.Success(c, gin.H{
		"id":         user.UserID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
		"note_count": noteCount,
	})
}
