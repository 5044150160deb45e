package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/repository"
)

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret"

func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	ctx := context.Background()

	mockRepo.On("EmailExists", ctx, "pepe@test.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	svc := NewAuthService(mockRepo, testSecret, time.Hour)
	user, token, err := svc.Register(ctx, "Pepe Limones", "pepe@test.com", "cliente123", "")

	require.NoError(t, err)
	assert.Equal(t, "Pepe Limones", user.Name)
	assert.Equal(t, entity.RoleClient, user.Role, "role defaults to client")
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("cliente123")))

	// The issued token must carry the user id and role.
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, entity.RoleClient, claims["role"])

	mockRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	ctx := context.Background()

	mockRepo.On("EmailExists", ctx, "pepe@test.com").Return(true, nil)

	svc := NewAuthService(mockRepo, testSecret, time.Hour)
	_, _, err := svc.Register(ctx, "Pepe Limones", "pepe@test.com", "cliente123", "")

	assert.ErrorIs(t, err, ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegister_ShortPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, testSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), "Pepe", "pepe@test.com", "123", "")

	assert.ErrorIs(t, err, ErrInvalidRequest)
	mockRepo.AssertNotCalled(t, "EmailExists")
}

func TestRegister_UnknownRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, testSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), "Pepe", "pepe@test.com", "cliente123", "superuser")

	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := entity.NewUser("Administrator", "admin@test.com", string(hash), entity.RoleAdmin)
	mockRepo.On("GetByEmail", ctx, "admin@test.com").Return(stored, nil)

	svc := NewAuthService(mockRepo, testSecret, time.Hour)
	user, token, err := svc.Login(ctx, "admin@test.com", "admin123")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := entity.NewUser("Administrator", "admin@test.com", string(hash), entity.RoleAdmin)
	mockRepo.On("GetByEmail", ctx, "admin@test.com").Return(stored, nil)

	svc := NewAuthService(mockRepo, testSecret, time.Hour)
	_, _, err = svc.Login(ctx, "admin@test.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, repository.ErrNotFound)

	svc := NewAuthService(mockRepo, testSecret, time.Hour)
	_, _, err := svc.Login(ctx, "ghost@test.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
