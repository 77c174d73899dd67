package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/hosana-alex/leave-management/internal"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	accounts      map[string]*userdm.Account
	accountsByID  map[int64]*userdm.Account
	passwords     map[int64]string
	resetRequired map[int64]bool
	returnError   error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	m := &mockUserRepository{
		accounts:      make(map[string]*userdm.Account),
		accountsByID:  make(map[int64]*userdm.Account),
		passwords:     make(map[int64]string),
		resetRequired: make(map[int64]bool),
	}
	seed := []*userdm.Account{
		{ID: 1, Email: "employee@example.com", Name: "Employee", Role: userdm.RoleEmployee, Status: userdm.StatusApproved, PasswordHash: string(hash)},
		{ID: 2, Email: "admin@example.com", Name: "Admin", Role: userdm.RoleAdmin, Status: userdm.StatusApproved, PasswordHash: string(hash)},
		{ID: 3, Email: "pending@example.com", Name: "Pending", Role: userdm.RoleEmployee, Status: userdm.StatusPending, PasswordHash: string(hash)},
		{ID: 4, Email: "deactivated@example.com", Name: "Gone", Role: userdm.RoleEmployee, Status: userdm.StatusDeactivated, PasswordHash: string(hash)},
		{ID: 5, Email: "rejected@example.com", Name: "Rejected", Role: userdm.RoleEmployee, Status: userdm.StatusRejected, PasswordHash: string(hash)},
	}
	for _, a := range seed {
		m.accounts[a.Email] = a
		m.accountsByID[a.ID] = a
	}
	return m
}

func (m *mockUserRepository) GetByEmail(email string) (*userdm.Account, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	if a, ok := m.accounts[email]; ok {
		return a, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(userID int64) (*userdm.Account, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	if a, ok := m.accountsByID[userID]; ok {
		return a, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(userID int64, passwordHash string, resetRequired bool) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.passwords[userID] = passwordHash
	m.resetRequired[userID] = resetRequired
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost, 8)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "employee@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(result.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(result.AccessToken).ToNot(gomega.Equal(result.RefreshToken))
			})

			ginkgo.It("should resolve role capabilities onto the user", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "admin@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.User.Permissions).To(gomega.ContainElement(PermManageUsers))
				gomega.Expect(result.User.IsAdmin()).To(gomega.BeTrue())
			})

			ginkgo.It("should not grant admin capabilities to employees", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "employee@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.User.Permissions).To(gomega.ContainElement(PermSubmitLeave))
				gomega.Expect(result.User.Permissions).ToNot(gomega.ContainElement(PermApproveLeave))
			})
		})

		ginkgo.Context("when credentials are wrong", func() {
			ginkgo.It("should reject an unknown email", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "employee@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the account status blocks login", func() {
			ginkgo.It("should tell a pending account it is pending", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "pending@example.com",
					Password: "correct_password",
				})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccountPending))
			})

			ginkgo.It("should tell a deactivated account it is deactivated", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "deactivated@example.com",
					Password: "correct_password",
				})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccountDeactivated))
			})

			ginkgo.It("should report deactivated even with a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "deactivated@example.com",
					Password: "wrong_password",
				})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccountDeactivated))
			})

			ginkgo.It("should report pending even with a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "pending@example.com",
					Password: "wrong_password",
				})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccountPending))
			})

			ginkgo.It("should treat a rejected account with a wrong password like bad credentials", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "rejected@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should treat a rejected account like bad credentials", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "rejected@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a new token pair from a valid refresh token", func() {
			result, err := service.Authenticate(LoginDTO{
				Email:    "employee@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			tokens, err := service.RefreshTokens(result.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUserWithPermissions", func() {
		ginkgo.It("should resolve an approved account", func() {
			user, err := service.GetUserWithPermissions(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.Email).To(gomega.Equal("employee@example.com"))
		})

		ginkgo.It("should refuse a deactivated account so its tokens die", func() {
			_, err := service.GetUserWithPermissions(4)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("ForceChangePassword", func() {
		ginkgo.It("should replace the password and clear the reset flag", func() {
			err := service.ForceChangePassword(1, ForceChangePasswordDTO{
				CurrentPassword: "correct_password",
				NewPassword:     "brand-new-password",
				ConfirmPassword: "brand-new-password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.passwords).To(gomega.HaveKey(int64(1)))
			gomega.Expect(mockRepo.resetRequired[1]).To(gomega.BeFalse())
		})

		ginkgo.It("should reject a wrong current password", func() {
			err := service.ForceChangePassword(1, ForceChangePasswordDTO{
				CurrentPassword: "wrong",
				NewPassword:     "brand-new-password",
				ConfirmPassword: "brand-new-password",
			})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject a short new password", func() {
			err := service.ForceChangePassword(1, ForceChangePasswordDTO{
				CurrentPassword: "correct_password",
				NewPassword:     "short",
				ConfirmPassword: "short",
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodePasswordTooShort))
		})

		ginkgo.It("should reject a mismatched confirmation", func() {
			err := service.ForceChangePassword(1, ForceChangePasswordDTO{
				CurrentPassword: "correct_password",
				NewPassword:     "brand-new-password",
				ConfirmPassword: "different-password",
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodePasswordMismatch))
		})
	})
})
