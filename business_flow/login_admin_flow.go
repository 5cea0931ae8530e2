package businessflow

import (
	"context"
	"time"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/app/services"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

// AdminAuthFlowImpl verifies admin credentials and issues JWTs
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
}

// NewAdminAuthFlow creates a new admin authentication flow
func NewAdminAuthFlow(adminRepo repository.AdminRepository, tokenService services.TokenService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
	}
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req == nil || len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("ADMIN_INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, _, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("ADMIN_UPDATE_FAILED", "Failed to record login", err)
	}

	adminDTO := dto.AdminDTO{
		ID:       admin.ID,
		UUID:     admin.UUID.String(),
		Username: admin.Username,
		IsActive: utils.IsTrue(admin.IsActive),
	}
	if admin.LastLoginAt != nil {
		adminDTO.LastLoginAt = admin.LastLoginAt.Format(time.RFC3339)
	}

	return &dto.AdminLoginResponse{
		Admin: adminDTO,
		Session: dto.AdminSessionDTO{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(af.tokenService.AccessTokenTTL().Seconds()),
		},
	}, nil
}
