package service

import (
	"context"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"gopkg.in/guregu/null.v4"
)

type SignService struct {
	signRepo repository.SignRepository
}

func NewSignService(signRepo repository.SignRepository) *SignService {
	return &SignService{signRepo: signRepo}
}

func (s *SignService) GetAllSigns(ctx context.Context) ([]domain.SignDefinition, error) {
	return s.signRepo.FindAll(ctx)
}

func (s *SignService) GetSignByClassID(ctx context.Context, classID string) (*domain.SignDefinition, error) {
	return s.signRepo.FindByClassID(ctx, classID)
}

func (s *SignService) UpsertSign(ctx context.Context, classID string, dto domain.UpsertSignDTO) (*domain.SignDefinition, error) {
	sign := &domain.SignDefinition{
		ClassID:          classID,
		Name:             dto.Name,
		Type:             dto.Type,
		DefaultDeduction: dto.DefaultDeduction,
		Advice:           dto.Advice,
	}
	if dto.LimitSpeed != nil {
		sign.LimitSpeed = null.IntFrom(int64(*dto.LimitSpeed))
	}
	return s.signRepo.Upsert(ctx, sign)
}
