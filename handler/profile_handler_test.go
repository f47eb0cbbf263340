package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"main/model"
	"main/usecase"

	"github.com/gin-gonic/gin"
)

type fakeUsersRepo struct {
	users map[string]*model.User
}

func (f *fakeUsersRepo) AddUser(ctx context.Context, user *model.User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUsersRepo) FindUserByUsername(username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUsersRepo) FindUser(userID string) (*model.User, error) {
	return f.users[userID], nil
}

type fakeNotesCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeNotesCounter) CountUserNotes(ctx context.Context, userID string) (int, error) {
	f.calls++
	return f.count, f.err
}

func profileRouter(userService *usecase.UserService, counter usecase.NotesCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	router.GET("/api/user/profile", func(c *gin.Context) {
		GetUserProfileHandler(c, userService, counter)
	})
	return router
}

func TestGetUserProfileHandler(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*model.User{
		"user-1": {
			UserID:    "user-1",
			Username:  "tester",
			Email:     "tester@example.com",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	counter := &fakeNotesCounter{count: 7}
	router := profileRouter(&usecase.UserService{UsersRepo: repo}, counter)

	w := doRequest(t, router, http.MethodGet, "/api/user/profile", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["username"] != "tester" {
		t.Errorf("wrong username: %v", data["username"])
	}
	if data["note_count"] != float64(7) {
		t.Errorf("note count not included, got %v", data["note_count"])
	}
	if counter.calls != 1 {
		t.Errorf("expected one count query, got %d", counter.calls)
	}
}

func TestGetUserProfileHandlerUnknownUser(t *testing.T) {
	router := profileRouter(
		&usecase.UserService{UsersRepo: &fakeUsersRepo{users: map[string]*model.User{}}},
		&fakeNotesCounter{})

	w := doRequest(t, router, http.MethodGet, "/api/user/profile", "ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetUserProfileHandlerCountFailureDegrades(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*model.User{
		"user-1": {UserID: "user-1", Username: "tester"},
	}}
	counter := &fakeNotesCounter{err: errors.New("count unavailable")}
	router := profileRouter(&usecase.UserService{UsersRepo: repo}, counter)

	// The profile still renders when the count query fails.
	w := doRequest(t, router, http.MethodGet, "/api/user/profile", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if data := decodeData(t, w); data["note_count"] != float64(0) {
		t.Errorf("failed count should degrade to 0, got %v", data["note_count"])
	}
}
