package service

import (
	"context"
	"errors"
	"time"

	"foodieapi/internal/domain"
	"foodieapi/internal/repository"
	"foodieapi/internal/validation"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// RegisterInput is the profile supplied at registration.
type RegisterInput struct {
	Firstname            string `binding:"required"`
	Lastname             string `binding:"required"`
	Username             string `binding:"required"`
	Email                string `binding:"required,email"`
	Password             string `binding:"required"`
	PasswordConfirmation string
}

// AuthService issues and backs bearer credentials for password accounts.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Validation runs here as an
// explicit step so the failure order is fixed: field constraints and the
// password confirmation first, then the uniqueness check.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	errs := validation.Struct(in)
	if in.Password != in.PasswordConfirmation {
		if errs == nil {
			errs = validation.Errors{}
		}
		// Attributed to the confirmation field, not the password.
		errs["passwordConfirmation"] = "Passwords do not match"
	}
	if errs != nil {
		return nil, errs
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, validation.Errors{"email": "That email is already taken"}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// A concurrent registration can slip between the email check and
		// the insert; the unique index rejects it here.
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, validation.Errors{"email": "That email is already taken"}
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and token generation. A missing user
// and a wrong password produce the same error so the response never reveals
// which one it was.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = MintToken(user.ID.Hex(), s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// tokenClaims defines the JWT payload: the user id is the sole custom claim.
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// MintToken creates a signed session token carrying the user id and a fixed
// expiry. Used by both password login and the OAuth code exchange.
func MintToken(userID, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "foodie-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
