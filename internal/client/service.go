package client

import (
	"context"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Client, error)
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, c domain.Client) (int64, error)
	Update(ctx context.Context, c domain.Client) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every client. An empty result is a valid, empty list.
func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	if err := s.ensureUniqueEmail(ctx, c.Email); err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}

	c.ID = id
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id int64, c domain.Client) (*domain.Client, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Email != "" && c.Email != existing.Email {
		if err := s.ensureUniqueEmail(ctx, c.Email); err != nil {
			return nil, err
		}
	}

	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureUniqueEmail(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewConflictError("e-mail já cadastrado")
	}
	return nil
}
