package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	SetPin(ctx context.Context, userID uuid.UUID, pin string) error
	VerifyPin(ctx context.Context, userID uuid.UUID, pin string) (bool, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{log: serviceLog, userRepo: userRepo}
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user not found"))
	}
	return user, nil
}

func (us *userService) SetPin(ctx context.Context, userID uuid.UUID, pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return apierr.Validation("pin", fmt.Errorf("pin must be 4-8 digits"))
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return apierr.Validation("pin", fmt.Errorf("pin must be digits only"))
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err := us.userRepo.Update(ctx, nil, userID, map[string]interface{}{"pin_hash": string(hash)}); err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("store pin: %w", err))
	}

	us.log.Info("User pin updated", "user_id", userID)
	return nil
}

func (us *userService) VerifyPin(ctx context.Context, userID uuid.UUID, pin string) (bool, error) {
	user, err := us.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.PinHash == "" {
		return false, apierr.InvalidState(fmt.Errorf("no pin is set"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)); err != nil {
		return false, nil
	}
	return true, nil
}

func (us *userService) UpdatePreferences(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	if !json.Valid(raw) {
		return nil, apierr.Validation("preferences", fmt.Errorf("preferences must be a JSON object"))
	}

	user, err := us.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs := datatypes.JSON(raw)
	if err := us.userRepo.Update(ctx, nil, userID, map[string]interface{}{"preferences": prefs}); err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("store preferences: %w", err))
	}

	user.Preferences = prefs
	return user, nil
}
