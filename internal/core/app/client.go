package app

import (
	"context"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type NewClient struct {
	Name  string
	Email string
	CPF   string
}

type UpdateClientInput struct {
	Name  *string
	Email *string
	CPF   *string
}

type ListClientsInput struct {
	Page  int
	Limit int
	Name  string
	Email string
	CPF   string
}

type ClientService struct {
	uow   ports.UnitOfWork
	pages Pagination
}

func NewClientService(uow ports.UnitOfWork, pages Pagination) *ClientService {
	return &ClientService{uow: uow, pages: pages}
}

func (s *ClientService) Create(ctx context.Context, createdBy string, in NewClient) (*entity.Client, error) {
	client := &entity.Client{
		CreatedBy: createdBy,
		Name:      in.Name,
		Email:     in.Email,
		CPF:       in.CPF,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}
	// Stored normalized so the UNIQUE constraint catches punctuation
	// variants of the same CPF.
	client.CPF = entity.NormalizeCPF(client.CPF)

	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Clients().Insert(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*entity.Client, error) {
	var out *entity.Client
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Clients().Get(ctx, id)
		return err
	})
	return out, err
}

func (s *ClientService) List(ctx context.Context, in ListClientsInput) ([]*entity.Client, int, int, error) {
	page, limit, offset := s.pages.Clamp(in.Page, in.Limit)

	filter := ports.ClientFilter{
		Name:   in.Name,
		Email:  in.Email,
		CPF:    in.CPF,
		Offset: offset,
		Limit:  limit,
	}

	var out []*entity.Client
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Clients().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return out, page, limit, nil
}

func (s *ClientService) Update(ctx context.Context, id int64, in UpdateClientInput) (*entity.Client, error) {
	var updated *entity.Client
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		client, err := repos.Clients().Get(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			client.Name = *in.Name
		}
		if in.Email != nil {
			client.Email = *in.Email
		}
		if in.CPF != nil {
			client.CPF = *in.CPF
		}

		if err := client.Validate(); err != nil {
			return err
		}
		client.CPF = entity.NormalizeCPF(client.CPF)

		if err := repos.Clients().Update(ctx, client); err != nil {
			return err
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Clients().Delete(ctx, id)
	})
}
