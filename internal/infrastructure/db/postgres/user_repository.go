package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"registration-service/internal/domain/entities"
	"registration-service/internal/domain/repositories"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	userModel := UserModel{
		Id:         userEntity.Id,
		CreatedAt:  userEntity.CreatedAt,
		UpdatedAt:  userEntity.UpdatedAt,
		Username:   userEntity.Username,
		Email:      userEntity.Email,
		FullName:   userEntity.FullName,
		Password:   userEntity.Password,
		IsVerified: userEntity.IsVerified,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		return nil, translateUniqueViolation(err)
	}

	// Read back the created user to ensure data integrity
	return r.FindById(ctx, userEntity.Id)
}

func (r *UserRepository) FindById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	userModel := UserModel{
		Id:         userEntity.Id,
		CreatedAt:  userEntity.CreatedAt,
		UpdatedAt:  userEntity.UpdatedAt,
		Username:   userEntity.Username,
		Email:      userEntity.Email,
		FullName:   userEntity.FullName,
		Password:   userEntity.Password,
		IsVerified: userEntity.IsVerified,
	}

	if err := r.db.WithContext(ctx).Save(&userModel).Error; err != nil {
		return nil, translateUniqueViolation(err)
	}

	// Read back the updated user to ensure data integrity
	return r.FindById(ctx, userEntity.Id)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id).Error
}

func (r *UserRepository) mapToEntity(userModel *UserModel) *entities.User {
	return &entities.User{
		Id:         userModel.Id,
		CreatedAt:  userModel.CreatedAt,
		UpdatedAt:  userModel.UpdatedAt,
		Username:   userModel.Username,
		Email:      userModel.Email,
		FullName:   userModel.FullName,
		Password:   userModel.Password,
		IsVerified: userModel.IsVerified,
	}
}

// translateUniqueViolation maps driver-level unique constraint errors onto
// the domain identity errors so callers can distinguish a duplicate from an
// outage.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
		switch {
		case strings.Contains(msg, "username"):
			return entities.ErrUsernameTaken
		case strings.Contains(msg, "email"):
			return entities.ErrEmailTaken
		default:
			return entities.ErrEmailTaken
		}
	}
	return err
}
