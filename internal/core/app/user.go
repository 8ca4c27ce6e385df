package app

import (
	"context"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type NewUser struct {
	UID   string
	Name  string
	Email string
	Role  string
}

// UserService manages back-office operator records. It never touches
// credentials; the UID comes from the external token verifier.
type UserService struct {
	uow ports.UnitOfWork
}

func NewUserService(uow ports.UnitOfWork) *UserService {
	return &UserService{uow: uow}
}

func (s *UserService) Create(ctx context.Context, createdBy string, in NewUser) (*entity.User, error) {
	user := &entity.User{
		UID:       in.UID,
		CreatedBy: createdBy,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Users().Insert(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	var out *entity.User
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Users().GetByUID(ctx, uid)
		return err
	})
	return out, err
}
