package service

import (
	"errors"

	"lapor-fasilitas/internal/core/auth"
	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/pkg/utils"
)

var (
	ErrPasswordMismatch = errors.New("password confirmation mismatch")
	ErrEmailTaken       = errors.New("email already registered")
	ErrWrongPassword    = errors.New("wrong password")
	// ErrRefreshNotFound: the cookie token matches no user row (revoked or
	// forged). ErrRefreshInvalid: a row matched but the JWT itself fails
	// verification. The handler maps them to different 403 bodies.
	ErrRefreshNotFound = errors.New("refresh token not found")
	ErrRefreshInvalid  = errors.New("invalid refresh token")
)

type AuthService struct {
	users *repo.UserRepo
	jwt   *auth.JWTer
}

func NewAuthService(users *repo.UserRepo, jwt *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

func (s *AuthService) Register(nama, email, password, confirmPassword, role string) (*domain.User, error) {
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	if role == "" {
		role = domain.RoleUser
	}
	u := &domain.User{
		Nama:     nama,
		Email:    email,
		Password: utils.HashPassword(password),
		Role:     role,
	}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// lost the race between the email check and the insert
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// Login verifies credentials, issues both tokens and persists the refresh
// token on the user row so it can be revoked later.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if !utils.CheckPassword(password, u.Password) {
		return nil, ErrWrongPassword
	}

	access, err := s.jwt.IssueAccess(u.ID, u.Nama, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.IssueRefresh(u.ID, u.Nama, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(u.ID, &refresh); err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Refresh mints a new access token for a stored, still-valid refresh token.
func (s *AuthService) Refresh(cookieToken string) (string, error) {
	u, err := s.users.FindByRefreshToken(cookieToken)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrRefreshNotFound
	}
	if _, err := s.jwt.ParseRefresh(cookieToken); err != nil {
		return "", ErrRefreshInvalid
	}
	return s.jwt.IssueAccess(u.ID, u.Nama, u.Email, u.Role)
}

// Logout clears the stored refresh token. Unknown tokens report cleared
// = false without failing, keeping the operation idempotent.
func (s *AuthService) Logout(cookieToken string) (bool, error) {
	u, err := s.users.FindByRefreshToken(cookieToken)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	if err := s.users.SetRefreshToken(u.ID, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) Profile(id uint) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *AuthService) ListUsers() ([]domain.User, error) {
	return s.users.ListAll()
}
