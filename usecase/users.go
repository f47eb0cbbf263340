package usecase

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

// UsersRepository is the account storage the user service runs against.
type UsersRepository interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByUsername(username string) (*model.User, error)
	FindUser(userID string) (*model.User, error)
}

// NotesCounter reports how many notes a user owns. Satisfied by the notes
// repository; consumed by the profile endpoint.
type NotesCounter interface {
	CountUserNotes(ctx context.Context, userID string) (int, error)
}

type UserService struct {
	UsersRepo UsersRepository
}

// CreateUser registers a new account with a hashed password and a fresh id.
func (svc *UserService) CreateUser(ctx context.Context, user *model.User) error {
	existing, err := svc.UsersRepo.FindUserByUsername(user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("username already exists")
	}

	hashed, err := services.HashPassword(user.Password)
	if err != nil {
		return err
	}

	user.UserID = utils.GenerateUserID()
	user.Password = hashed
	user.CreatedAt = time.Now()

	return svc.UsersRepo.AddUser(ctx, user)
}

func (svc *UserService) FindUserByUsername(username string) (*model.User, error) {
	return svc.UsersRepo.FindUserByUsername(username)
}

func (svc *UserService) FindUser(userID string) (*model.User, error) {
	return svc.UsersRepo.FindUser(userID)
}
