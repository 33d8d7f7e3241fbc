package supplier

import (
	"context"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	FindByID(ctx context.Context, id int64) (*domain.Supplier, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, s domain.Supplier) (int64, error)
	Update(ctx context.Context, s domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, sup domain.Supplier) (*domain.Supplier, error) {
	if err := s.ensureUniqueEmail(ctx, sup.Email); err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, sup)
	if err != nil {
		return nil, err
	}

	sup.ID = id
	return &sup, nil
}

func (s *Service) Update(ctx context.Context, id int64, sup domain.Supplier) (*domain.Supplier, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sup.Email != "" && sup.Email != existing.Email {
		if err := s.ensureUniqueEmail(ctx, sup.Email); err != nil {
			return nil, err
		}
	}

	sup.ID = id
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}

	return &sup, nil
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
