package auth

import (
	"errors"
	"strings"
	"time"

	"copysmith-backend/internal/database"
	"copysmith-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrSignupsDisabled    = errors.New("signups are disabled")
)

// Service handles authentication logic
type Service struct {
	userRepo     *database.UserRepo
	sessionRepo  *database.SessionRepo
	settingsRepo *database.SettingsRepo
	auditRepo    *database.AuditRepo
	notifier     *Notifier
}

// NewService creates a new auth service
func NewService() *Service {
	return &Service{
		userRepo:     database.NewUserRepo(),
		sessionRepo:  database.NewSessionRepo(),
		settingsRepo: database.NewSettingsRepo(),
		auditRepo:    database.NewAuditRepo(),
		notifier:     NewNotifier(),
	}
}

// Credentials represents sign-up / sign-in input
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// OnSessionChange subscribes fn to sign-in, sign-out and user-update
// events. Close the returned subscription on teardown.
func (s *Service) OnSessionChange(fn func(SessionEvent)) *Subscription {
	return s.notifier.OnSessionChange(fn)
}

// SignUp registers a new account. It does not create a session; the user
// signs in afterwards.
func (s *Service) SignUp(req Credentials, ipAddress string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if enabled, err := s.settingsRepo.GetBool(database.SettingSignupsEnabled); err == nil && !enabled {
		return nil, ErrSignupsDisabled
	}

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: passwordHash}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.auditRepo.Log(user.ID, user.Email, models.ActionSignUp, "", nil, ipAddress)

	return user, nil
}

// SignIn authenticates a user and creates a session
func (s *Service) SignIn(req Credentials, ipAddress, userAgent string) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	if user.Disabled {
		return nil, ErrUserDisabled
	}

	// Check session limit
	maxSessions, _ := s.settingsRepo.GetInt(database.SettingSessionMaxPerUser)
	if maxSessions > 0 {
		count, _ := s.sessionRepo.CountByUserID(user.ID)
		if count >= maxSessions {
			// Delete oldest session to make room
			sessions, _ := s.sessionRepo.GetByUserID(user.ID)
			if len(sessions) > 0 {
				s.sessionRepo.Delete(sessions[len(sessions)-1].ID)
			}
		}
	}

	// Create session
	token, session, err := s.sessionRepo.Create(user.ID, ipAddress, userAgent, s.sessionDuration())
	if err != nil {
		return nil, err
	}

	s.userRepo.UpdateLastLogin(user.ID)
	s.auditRepo.Log(user.ID, user.Email, models.ActionLogin, "", nil, ipAddress)
	s.notifier.Publish(SessionEvent{Kind: EventSignedIn, Principal: user.Principal()})

	return &LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// SignOut invalidates a session and announces the sign-out
func (s *Service) SignOut(token string) error {
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		// Already gone; nothing to announce
		return err
	}

	if err := s.sessionRepo.DeleteByToken(token); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil
	}

	s.auditRepo.Log(user.ID, user.Email, models.ActionLogout, "", nil, session.IPAddress)
	s.notifier.Publish(SessionEvent{Kind: EventSignedOut, Principal: user.Principal()})

	return nil
}

// ValidateToken validates a session token and returns the user
func (s *Service) ValidateToken(token string) (*models.User, *models.Session, error) {
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, nil, err
	}

	if user.Disabled {
		return nil, nil, ErrUserDisabled
	}

	return user, session, nil
}

// RefreshToken extends the session expiration
func (s *Service) RefreshToken(token string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}

	duration := s.sessionDuration()
	if err := s.sessionRepo.Extend(session.ID, duration); err != nil {
		return nil, err
	}

	session.ExpiresAt = time.Now().Add(duration)
	return session, nil
}

// GetUserSessions returns all sessions for a user
func (s *Service) GetUserSessions(userID int64) ([]*models.Session, error) {
	return s.sessionRepo.GetByUserID(userID)
}

// RevokeSession revokes a specific session
func (s *Service) RevokeSession(sessionID int64) error {
	return s.sessionRepo.Delete(sessionID)
}

// RevokeAllSessions revokes every session for a user and announces an
// identity update so dependent state is cleared.
func (s *Service) RevokeAllSessions(userID int64) error {
	if err := s.sessionRepo.DeleteAllForUser(userID); err != nil {
		return err
	}

	if user, err := s.userRepo.GetByID(userID); err == nil {
		s.notifier.Publish(SessionEvent{Kind: EventUserUpdated, Principal: user.Principal()})
	}

	return nil
}

func (s *Service) sessionDuration() time.Duration {
	timeoutMinutes, err := s.settingsRepo.GetInt(database.SettingSessionTimeout)
	if err != nil || timeoutMinutes <= 0 {
		timeoutMinutes = 60 // Default 1 hour
	}
	return time.Duration(timeoutMinutes) * time.Minute
}
