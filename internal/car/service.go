package car

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Make  string
	Model string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Car, error)
	GetByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Count(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Car, error) {
	if strings.TrimSpace(req.Make) == "" || strings.TrimSpace(req.Model) == "" {
		return nil, ErrEmptyName
	}

	c := &Car{
		Make:  strings.TrimSpace(req.Make),
		Model: strings.TrimSpace(req.Model),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
