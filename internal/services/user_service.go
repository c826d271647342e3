package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/staranysa/TheHappyHaul/internal/models"
	"github.com/staranysa/TheHappyHaul/internal/repository"
	jwtutil "github.com/staranysa/TheHappyHaul/pkg/jwt"
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo      *repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// CreateUser validates the credentials and stores a new user with a hashed
// password. The email is stored lowercased.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, validationError("Email and password are required")
	}

	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during registration")
		return nil, validationError("Invalid email format")
	}

	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, validationError("Password must be at least 6 characters")
	}

	// Check if the email is already registered
	if existing := s.repo.GetUserByEmail(ctx, email); existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, validationError("Email already registered")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hashedPwd),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithField("userID", created.ID).Info("User registered successfully")
	return created, nil
}

// Register creates the user and signs a token for it.
func (s *UserService) Register(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.CreateUser(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate JWT token")
		return "", nil, fmt.Errorf("failed to generate authentication token: %w", err)
	}
	return token, user, nil
}

// Authenticate verifies the email and password and returns a signed token
// together with the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, validationError("Email and password are required")
	}
	logrus.WithField("email", email).Info("Authenticating user")

	user := s.repo.GetUserByEmail(ctx, email)
	if user == nil {
		logrus.WithField("email", email).Warn("User not found")
		return "", nil, unauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return "", nil, unauthorizedError("Invalid email or password")
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate JWT token")
		return "", nil, fmt.Errorf("failed to generate authentication token: %w", err)
	}

	logrus.WithField("userID", user.ID).Info("User authenticated successfully")
	return token, user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := s.repo.GetUserByID(ctx, id)
	if user == nil {
		logrus.WithField("userID", id).Warn("User not found")
		return nil, notFoundError("User not found")
	}
	return user, nil
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) []models.User {
	return s.repo.Load(ctx).Users
}
