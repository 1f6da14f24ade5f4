package professionals

import (
	"context"
	"errors"
	"fmt"

	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	"github.com/primapp/prim-booking-service/internal/service/professionals/models"
)

// Service сервис для работы с профилями мастеров
type Service struct {
	professionalRepo ProfessionalRepository
	serviceRepo      ServiceRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса мастеров
func NewService(
	professionalRepo ProfessionalRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		professionalRepo: professionalRepo,
		serviceRepo:      serviceRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetProfile получает публичный профиль мастера с услугами
func (s *Service) GetProfile(ctx context.Context, professionalID int64) (*models.ProfileResponse, error) {
	s.logger.Info("GetProfile: fetching professional id=%d", professionalID)

	prof, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("GetProfile: professional id=%d not found", professionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("GetProfile: repository error for professional id=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}

	services, err := s.serviceRepo.ListByProfessional(ctx, professionalID, false)
	if err != nil {
		s.logger.Error("GetProfile: failed to list services for professional id=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetProfile - failed to list services: %v", ErrInternal, err)
	}

	s.logger.Info("GetProfile: successfully fetched professional id=%d with %d services",
		professionalID, len(services))
	return models.FromDomainProfessional(prof, services), nil
}

// UpdateSettings обновляет настройки мастера: расписание, правила записи
// и политики депозита/отмены
// Доступно только владельцу профиля. Некорректные настройки отклоняются
// целиком - частичное применение невозможно.
func (s *Service) UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.ProfileResponse, error) {
	s.logger.Info("UpdateSettings: updating professional id=%d by user=%d", professionalID, req.UserID)

	var updated *models.ProfileResponse

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		prof, err := s.professionalRepo.GetByID(ctx, professionalID)
		if err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				return ErrProfessionalNotFound
			}
			return fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
		}

		// Менять настройки может только владелец профиля
		if prof.UserID != req.UserID {
			s.logger.Warn("UpdateSettings: access denied for user=%d to professional=%d",
				req.UserID, professionalID)
			return ErrAccessDenied
		}

		req.ApplyToProfessional(prof)

		// Валидируются итоговые настройки, а не только присланные секции
		if err := prof.Validate(); err != nil {
			s.logger.Warn("UpdateSettings: invalid settings for professional=%d: %v", professionalID, err)
			return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}

		if err := s.professionalRepo.UpdateSettings(ctx, prof); err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				return ErrProfessionalNotFound
			}
			return fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
		}

		services, err := s.serviceRepo.ListByProfessional(ctx, professionalID, false)
		if err != nil {
			return fmt.Errorf("%w: UpdateSettings - failed to list services: %v", ErrInternal, err)
		}

		updated = models.FromDomainProfessional(prof, services)
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrProfessionalNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidSettings) {
			return nil, err
		}
		s.logger.Error("UpdateSettings: transaction failed for professional=%d: %v", professionalID, err)
		return nil, err
	}

	s.logger.Info("UpdateSettings: successfully updated professional id=%d", professionalID)
	return updated, nil
}
