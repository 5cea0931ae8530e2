package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/app/services"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminAuthFlow(t *testing.T, testDB *testingutil.TestDB) businessflow.AdminAuthFlow {
	t.Helper()
	tokenService, err := services.NewTokenService(
		15*time.Minute, 24*time.Hour,
		"disco-analytics-test", "disco-admins",
		false, "", "", "test-secret-key-for-admin-tokens")
	require.NoError(t, err)
	return businessflow.NewAdminAuthFlow(repository.NewAdminRepository(testDB.DB), tokenService)
}

func seedAdmin(t *testing.T, testDB *testingutil.TestDB, username, password string, active bool) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(active),
	}
	require.NoError(t, testDB.DB.Create(admin).Error)
	return admin
}

func TestAdminLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAdminAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()

		seedAdmin(t, testDB, "ops-admin", "correct horse battery", true)
		seedAdmin(t, testDB, "former-admin", "correct horse battery", false)

		t.Run("ValidCredentialsIssueABearerToken", func(t *testing.T) {
			resp, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "ops-admin",
				Password: "correct horse battery",
			})
			require.NoError(t, err)

			assert.Equal(t, "ops-admin", resp.Admin.Username)
			assert.True(t, resp.Admin.IsActive)
			assert.Equal(t, "Bearer", resp.Session.TokenType)
			assert.NotEmpty(t, resp.Session.AccessToken)
			assert.Equal(t, int((15 * time.Minute).Seconds()), resp.Session.ExpiresIn)
		})

		t.Run("SuccessfulLoginIsStamped", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "ops-admin",
				Password: "correct horse battery",
			})
			require.NoError(t, err)

			var admin models.Admin
			require.NoError(t, testDB.DB.Where("username = ?", "ops-admin").First(&admin).Error)
			assert.NotNil(t, admin.LastLoginAt)
		})

		t.Run("UnknownUsernameRejected", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "nobody",
				Password: "correct horse battery",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAdminNotFound(err))
		})

		t.Run("InactiveAccountRejected", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "former-admin",
				Password: "correct horse battery",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAdminInactive(err))
		})

		t.Run("WrongPasswordRejected", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "ops-admin",
				Password: "incorrect horse battery",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminTokenValidation(t *testing.T) {
	tokenService, err := services.NewTokenService(
		15*time.Minute, 24*time.Hour,
		"disco-analytics-test", "disco-admins",
		false, "", "", "test-secret-key-for-admin-tokens")
	require.NoError(t, err)

	t.Run("IssuedTokensRoundTrip", func(t *testing.T) {
		access, refresh, err := tokenService.GenerateAdminTokens(42)
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		claims, err := tokenService.ValidateAdminToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AdminID)
	})

	t.Run("GarbageTokenRejected", func(t *testing.T) {
		_, err := tokenService.ValidateAdminToken("not-a-jwt")
		require.Error(t, err)
	})

	t.Run("RefreshIssuesANewPair", func(t *testing.T) {
		_, refresh, err := tokenService.GenerateAdminTokens(7)
		require.NoError(t, err)

		newAccess, newRefresh, err := tokenService.RefreshAdminToken(refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := tokenService.ValidateAdminToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.AdminID)
	})
}
