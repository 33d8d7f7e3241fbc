package product

import (
	"context"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
	Insert(ctx context.Context, p domain.Product) (int64, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Supplier, error)
}

type Service struct {
	repo         Repository
	supplierRepo SupplierRepository
}

func NewService(repo Repository, supplierRepo SupplierRepository) *Service {
	return &Service{repo: repo, supplierRepo: supplierRepo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if _, err := s.supplierRepo.FindByID(ctx, p.SupplierID); err != nil {
		return nil, err
	}

	if p.Barcode != "" {
		if err := s.ensureUniqueBarcode(ctx, p.Barcode); err != nil {
			return nil, err
		}
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	p.ID = id
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id int64, p domain.Product) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.supplierRepo.FindByID(ctx, p.SupplierID); err != nil {
		return nil, err
	}

	if p.Barcode != "" && p.Barcode != existing.Barcode {
		if err := s.ensureUniqueBarcode(ctx, p.Barcode); err != nil {
			return nil, err
		}
	}

	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureUniqueBarcode(ctx context.Context, barcode string) error {
	exists, err := s.repo.ExistsByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewConflictError("código de barras já cadastrado")
	}
	return nil
}
