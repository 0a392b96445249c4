package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// placeholder password for pre-registered staff/marketer stubs; replaced
// when the person completes registration
const stubPassword = "temporary-registration-password"

// Service is the account directory: registration, login and admin-side
// account management.
type Service struct {
	db        *gorm.DB
	jwtSecret string
}

func NewService(db *gorm.DB, jwtSecret string) *Service {
	return &Service{db: db, jwtSecret: jwtSecret}
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

func hashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Service) findByUsernameOrEmail(ctx context.Context, ident string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", ident, ident).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a customer account. When the username or email matches a
// pre-registered staff or marketer stub, registration completes that
// account instead of creating a new one.
func (s *Service) Register(ctx context.Context, realname, username, email, password string) (*domain.User, error) {
	var existing domain.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&existing).Error
	if err == nil {
		if existing.Role == domain.RoleStaff || existing.Role == domain.RoleMarketer {
			hashed, err := hashPassword(password)
			if err != nil {
				return nil, err
			}
			updates := map[string]interface{}{
				"realname":   realname,
				"password":   hashed,
				"status":     common.ENABLED,
				"updated_at": time.Now(),
			}
			if err := s.db.WithContext(ctx).Model(&domain.User{}).
				Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return nil, err
			}
			existing.Realname = realname
			existing.Status = common.ENABLED
			zap.L().Info("completed pre-registered account",
				zap.String("username", existing.Username),
				zap.String("role", existing.Role))
			return &existing, nil
		}
		if existing.Username == username {
			return nil, ErrDuplicateUsername
		}
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		ID:       common.UUIDint64(),
		Realname: realname,
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     domain.RoleCustomer,
		Status:   common.ENABLED,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	zap.L().Info("registered customer", zap.String("username", username))
	return &user, nil
}

// Login authenticates by username or email and issues an access token.
func (s *Service) Login(ctx context.Context, ident, password string) (*LoginResult, error) {
	user, err := s.findByUsernameOrEmail(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !strings.EqualFold(user.Status, common.ENABLED) {
		return nil, ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	token, err := IssueToken(s.jwtSecret, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).
		Update("last_login", time.Now())

	zap.L().Info("user logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	return &LoginResult{AccessToken: token, TokenType: "Bearer", Role: user.Role}, nil
}

// AddStaff pre-registers a staff account the person completes later.
func (s *Service) AddStaff(ctx context.Context, realname, username, email string) (*domain.User, error) {
	return s.addStub(ctx, realname, username, email, domain.RoleStaff)
}

// AddMarketer pre-registers a marketer account.
func (s *Service) AddMarketer(ctx context.Context, realname, username, email string) (*domain.User, error) {
	return s.addStub(ctx, realname, username, email, domain.RoleMarketer)
}

func (s *Service) addStub(ctx context.Context, realname, username, email, role string) (*domain.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := hashPassword(stubPassword)
	if err != nil {
		return nil, err
	}
	// stubs stay disabled until the person completes registration, so the
	// placeholder password can never log in
	user := domain.User{
		ID:       common.UUIDint64(),
		Realname: realname,
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
		Status:   common.DISABLED,
		Remark:   "pre-registered",
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	zap.L().Info("pre-registered account", zap.String("username", username), zap.String("role", role))
	return &user, nil
}

// EditUser updates account fields; empty values leave the field unchanged.
func (s *Service) EditUser(ctx context.Context, username string, newUsername, realname, email, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if newUsername != "" && newUsername != user.Username {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.User{}).
			Where("username = ?", newUsername).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateUsername
		}
		updates["username"] = newUsername
		user.Username = newUsername
	}
	if email != "" && email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.User{}).
			Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateEmail
		}
		updates["email"] = email
		user.Email = email
	}
	if realname != "" {
		updates["realname"] = realname
		user.Realname = realname
	}
	if password != "" {
		hashed, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, role string) ([]domain.User, error) {
	q := s.db.WithContext(ctx).Model(&domain.User{}).Order("created_at ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []domain.User
	err := q.Find(&users).Error
	return users, err
}

// DeleteUser removes an account by username.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&domain.User{}, user.ID).Error
}
