package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/config"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credentials owns user records, password hashes and token lifecycle.
//
// Session tokens are revocable: the last issued value is stored on the
// user row and, with CheckRevocation on, any other value is rejected.
// With CheckRevocation off, Logout only clears the stored value and
// already issued tokens stay valid until they expire.
type Credentials struct {
	DB              *gorm.DB
	Secret          string
	Issuer          string
	SessionTTL      time.Duration
	ResetTTL        time.Duration
	BcryptCost      int
	CheckRevocation bool
	MaxFailedLogins int
	LockDuration    time.Duration

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewCredentials builds a credential store from configuration.
func NewCredentials(db *gorm.DB, jwtCfg config.JWTConfig, secCfg config.SecurityConfig) *Credentials {
	ttlHours := jwtCfg.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	resetMinutes := jwtCfg.ResetExpireMinutes
	if resetMinutes <= 0 {
		resetMinutes = 60
	}
	cost := secCfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{
		DB:              db,
		Secret:          jwtCfg.Secret,
		Issuer:          jwtCfg.Issuer,
		SessionTTL:      time.Duration(ttlHours) * time.Hour,
		ResetTTL:        time.Duration(resetMinutes) * time.Minute,
		BcryptCost:      cost,
		CheckRevocation: jwtCfg.CheckRevocation,
		MaxFailedLogins: secCfg.MaxFailedLogins,
		LockDuration:    time.Duration(secCfg.LockMinutes) * time.Minute,
		Now:             time.Now,
	}
}

func (s *Credentials) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Registration is the input of Register.
type Registration struct {
	Username      string
	Email         string
	ContactNumber string
	Password      string
}

// Register creates a user and returns its identity.
func (s *Credentials) Register(r Registration) (uint, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)

	switch {
	case r.Username == "":
		return 0, fmt.Errorf("%w: username is required", ErrValidation)
	case r.Email == "":
		return 0, fmt.Errorf("%w: email is required", ErrValidation)
	case r.ContactNumber == "":
		return 0, fmt.Errorf("%w: contact_number is required", ErrValidation)
	case r.Password == "":
		return 0, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if err := util.ValidateUsername(r.Username); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidateEmail(r.Email); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidatePassword(r.Password); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// 不区分大小写唯一
	var count int64
	if err := s.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", r.Username, r.Email).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count users: %v", ErrStore, err)
	}
	if count > 0 {
		return 0, fmt.Errorf("%w: user already exists with this username or email", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.BcryptCost)
	if err != nil {
		return 0, fmt.Errorf("%w: hash password: %v", ErrStore, err)
	}

	user := models.User{
		Username:      r.Username,
		Email:         r.Email,
		ContactNumber: r.ContactNumber,
		PasswordHash:  string(hash),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w: user already exists with this username or email", ErrConflict)
		}
		return 0, fmt.Errorf("%w: create user: %v", ErrStore, err)
	}
	return user.ID, nil
}

// Authenticate checks the password, stamps the login and issues a fresh
// session token.
func (s *Credentials) Authenticate(username, password, ip string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var user models.User
	if err := s.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("%w: find user: %v", ErrStore, err)
	}

	now := s.now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return "", nil, fmt.Errorf("%w: account locked, try again later", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailedLogin(&user, now)
		return "", nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = ip
	token, err := s.issue(&user, map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
		"last_login_ip":         ip,
	})
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// recordFailedLogin 递增失败次数，达到上限则锁定
func (s *Credentials) recordFailedLogin(user *models.User, now time.Time) {
	updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
	if s.MaxFailedLogins > 0 && user.FailedLoginAttempts+1 >= s.MaxFailedLogins {
		updates["locked_until"] = now.Add(s.LockDuration)
		updates["failed_login_attempts"] = 0
	}
	_ = s.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
}

// IssueSession mints a session token for an existing identity and makes it
// the only valid one.
func (s *Credentials) IssueSession(userID uint) (string, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return "", err
	}
	return s.issue(user, nil)
}

func (s *Credentials) issue(user *models.User, extra map[string]interface{}) (string, error) {
	now := s.now()
	token, err := util.GenerateToken(s.Secret, s.Issuer, util.KindSession, user.ID, "", now, s.SessionTTL)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", ErrStore, err)
	}
	updates := map[string]interface{}{"last_token": token}
	for k, v := range extra {
		updates[k] = v
	}
	if err := s.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return "", fmt.Errorf("%w: store token: %v", ErrStore, err)
	}
	user.LastToken = token
	return token, nil
}

// ResolveToken verifies a session token and returns its user.
func (s *Credentials) ResolveToken(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	claims, err := util.ParseToken(s.Secret, util.KindSession, token, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var user models.User
	if err := s.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStore, err)
	}
	if s.CheckRevocation && user.LastToken != token {
		return nil, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}
	return &user, nil
}

// VerifyToken returns the identity bound to a valid session token.
func (s *Credentials) VerifyToken(token string) (uint, error) {
	user, err := s.ResolveToken(token)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Logout clears the stored session token.
func (s *Credentials) Logout(userID uint) error {
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("last_token", "").Error; err != nil {
		return fmt.Errorf("%w: clear token: %v", ErrStore, err)
	}
	return nil
}

// IssueResetToken returns "" and no error for an unknown email so callers
// cannot tell registered addresses apart.
func (s *Credentials) IssueResetToken(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}

	var user models.User
	if err := s.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: find user: %v", ErrStore, err)
	}

	now := s.now()
	token, err := util.GenerateToken(s.Secret, s.Issuer, util.KindReset, user.ID, user.Email, now, s.ResetTTL)
	if err != nil {
		return "", fmt.Errorf("%w: sign reset token: %v", ErrStore, err)
	}
	if err := s.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"reset_token":         token,
		"reset_token_expires": now.Add(s.ResetTTL),
	}).Error; err != nil {
		return "", fmt.Errorf("%w: store reset token: %v", ErrStore, err)
	}
	return token, nil
}

// ConsumeResetToken sets a new password. The token works once: it is
// cleared in the same write that replaces the hash, and the current
// session token is revoked with it.
func (s *Credentials) ConsumeResetToken(resetToken, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := s.now()
	claims, err := util.ParseToken(s.Secret, util.KindReset, resetToken, now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var user models.User
	if err := s.DB.Where("id = ? AND reset_token = ?", claims.UserID, resetToken).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reset token is not active", ErrInvalidToken)
		}
		return fmt.Errorf("%w: find user: %v", ErrStore, err)
	}
	if user.ResetTokenExpires == nil || !now.Before(*user.ResetTokenExpires) {
		return fmt.Errorf("%w: reset token expired", ErrInvalidToken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrStore, err)
	}

	// conditional on the token so a concurrent second use affects no row
	res := s.DB.Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, resetToken).
		Updates(map[string]interface{}{
			"password_hash":         string(hash),
			"reset_token":           "",
			"reset_token_expires":   nil,
			"last_token":            "",
			"failed_login_attempts": 0,
			"locked_until":          nil,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: reset password: %v", ErrStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: reset token is not active", ErrInvalidToken)
	}
	return nil
}

// Profile loads a user by identity.
func (s *Credentials) Profile(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStore, err)
	}
	return &user, nil
}

// ProfileUpdate holds the editable profile fields; empty means unchanged.
type ProfileUpdate struct {
	Username      string
	Email         string
	ContactNumber string
}

// UpdateProfile changes username, email or contact number.
func (s *Credentials) UpdateProfile(userID uint, p ProfileUpdate) (*models.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	p.ContactNumber = strings.TrimSpace(p.ContactNumber)

	updates := map[string]interface{}{}
	if p.Username != "" {
		if err := util.ValidateUsername(p.Username); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		taken, err := s.taken("LOWER(username) = LOWER(?)", p.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		updates["username"] = p.Username
	}
	if p.Email != "" {
		if err := util.ValidateEmail(p.Email); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		taken, err := s.taken("LOWER(email) = LOWER(?)", p.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		updates["email"] = p.Email
	}
	if p.ContactNumber != "" {
		updates["contact_number"] = p.ContactNumber
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no data to update", ErrValidation)
	}

	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("%w: update profile: %v", ErrStore, err)
	}
	return s.Profile(userID)
}

func (s *Credentials) taken(cond, value string, exceptID uint) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where(cond, value).Where("id <> ?", exceptID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: count users: %v", ErrStore, err)
	}
	return count > 0, nil
}

// ChangePassword replaces the hash after checking the old password and
// revokes the current session token and any pending reset token.
func (s *Credentials) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.Profile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password is incorrect", ErrValidation)
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrStore, err)
	}
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":       string(hash),
		"last_token":          "",
		"reset_token":         "",
		"reset_token_expires": nil,
	}).Error; err != nil {
		return fmt.Errorf("%w: update password: %v", ErrStore, err)
	}
	return nil
}
