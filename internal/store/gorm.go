package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theukno/ecomproject/internal/models"
)

type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *GormUserStore) MarkEmailVerified(ctx context.Context, email string, at time.Time) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("email_verified", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormOTPStore struct {
	DB *gorm.DB
}

func NewGormOTPStore(db *gorm.DB) *GormOTPStore {
	return &GormOTPStore{DB: db}
}

func (s *GormOTPStore) Find(ctx context.Context, email string) (*models.OTPChallenge, error) {
	var challenge models.OTPChallenge
	if err := s.DB.WithContext(ctx).First(&challenge, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (s *GormOTPStore) Upsert(ctx context.Context, challenge *models.OTPChallenge) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(challenge).Error
}

func (s *GormOTPStore) Delete(ctx context.Context, email string) error {
	return s.DB.WithContext(ctx).Delete(&models.OTPChallenge{}, "email = ?", email).Error
}
