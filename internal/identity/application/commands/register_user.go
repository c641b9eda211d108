package commands

import (
	"context"

	"github.com/emZubair/Calendy/internal/identity/domain"
	sharedApplication "github.com/emZubair/Calendy/internal/shared/application"
)

// RegisterUserCommand contains the data needed to register a user.
type RegisterUserCommand struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// RegisterUserResult contains the registered user.
type RegisterUserResult struct {
	User *domain.User
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	repo domain.Repository
	uow  sharedApplication.UnitOfWork
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(repo domain.Repository, uow sharedApplication.UnitOfWork) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, uow: uow}
}

// Handle executes the RegisterUserCommand. The uniqueness check and the
// write run inside one unit of work.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	username, err := domain.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	var result *RegisterUserResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.repo.FindByUsername(txCtx, username.String())
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}

		user, err := domain.NewUser(username, email, cmd.FirstName, cmd.LastName)
		if err != nil {
			return err
		}
		if err := h.repo.Save(txCtx, user); err != nil {
			return err
		}

		result = &RegisterUserResult{User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
