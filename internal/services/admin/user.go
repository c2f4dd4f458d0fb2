package admin

import (
	"fmt"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
)

type UserService interface {
	GetUserProfile(userID uint64) (*models.User, error)
	// UpdateUserRole 调整用户角色，仅限 admin
	UpdateUserRole(operator *models.User, targetUserID uint64, role string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

var _ UserService = (*userService)(nil)

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("GetUserProfile: Error retrieving user from DB",
			zap.Uint64("userID", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	if user == nil { // userRepo.GetUserByID returns nil, nil if not found
		logger.Warn("GetUserProfile: User not found", zap.Uint64("userID", userID))
		return nil, xerr.ErrUserNotFound
	}

	return user, nil
}

func (s *userService) UpdateUserRole(operator *models.User, targetUserID uint64, role string) (*models.User, error) {
	if operator.Role != models.RoleAdmin {
		return nil, xerr.ErrRoleRequired
	}
	if role != models.RoleUser && role != models.RoleManager && role != models.RoleAdmin {
		return nil, xerr.ErrInvalidParams
	}

	user, err := s.userRepo.GetUserByID(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, xerr.ErrUserNotFound
	}

	user.Role = role
	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	logger.Info("UpdateUserRole: role changed",
		zap.Uint64("operatorID", operator.ID),
		zap.Uint64("targetUserID", targetUserID),
		zap.String("role", role))
	return user, nil
}
