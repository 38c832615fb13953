package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MOZO BARMAN COCINERO"`
}

type UserUpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN MOZO BARMAN COCINERO"`
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkEmail(tx *gorm.DB, email string, exceptID uint) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Conflict("email %s is already registered", email)
	}
	return nil
}

func (s *FloorService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return users, nil
}

func (s *FloorService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).First(&user, id).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "user %d not found", id))
	}
	return &user, nil
}

func (s *FloorService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	user := models.User{Name: in.Name, Email: in.Email, Password: hashed, Role: models.Role(in.Role)}

	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := checkEmail(tx, user.Email, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes profile fields; a new password is hashed before storing.
func (s *FloorService) UpdateUser(ctx context.Context, id uint, in UserUpdateInput) (*models.User, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var user models.User
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user %d not found", id)
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			if err := checkEmail(tx, email, user.ID); err != nil {
				return err
			}
			updates["email"] = email
		}
		if in.Role != nil {
			updates["role"] = *in.Role
		}
		if in.Password != nil && *in.Password != "" {
			hashed, err := HashPassword(*in.Password)
			if err != nil {
				return apperrors.Internal("failed to hash password", err)
			}
			updates["password"] = hashed
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user that has never taken an order or a reservation.
func (s *FloorService) DeleteUser(ctx context.Context, id uint) error {
	return s.runTx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user %d not found", id)
		}
		var orders, reservations int64
		if err := tx.Model(&models.Order{}).Where("mozo_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reservation{}).Where("created_by_id = ?", id).Count(&reservations).Error; err != nil {
			return err
		}
		if orders+reservations > 0 {
			return apperrors.Conflict("user %s has orders or reservations and cannot be deleted", user.Email)
		}
		return tx.Delete(&user).Error
	})
}

// Authenticate checks an email/password pair against the stored bcrypt hash.
func (s *FloorService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.From(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
