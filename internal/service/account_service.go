package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"account-lifecycle/internal/domain"
	"account-lifecycle/internal/email"
	"account-lifecycle/internal/repository"
)

const (
	maxNameLength  = 60
	maxEmailLength = 100
)

// AccountService coordina el ciclo de vida de las cuentas: registro,
// verificacion de email, login, recuperacion de password y perfil.
//
// Cada operacion es un read-modify-write sobre el repositorio sin bloqueo
// optimista; dos requests concurrentes sobre la misma cuenta se resuelven con
// la ultima escritura.
type AccountService struct {
	logger      *zap.Logger
	accounts    repository.AccountRepository
	emailSender email.Sender
	tokens      TokenIssuer
	hasher      PasswordHasher
	now         func() time.Time
}

func NewAccountService(logger *zap.Logger, accounts repository.AccountRepository, emailSender email.Sender, tokens TokenIssuer, hasher PasswordHasher) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = NewTokenIssuer(utcNow)
	}
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	return &AccountService{
		logger:      logger,
		accounts:    accounts,
		emailSender: emailSender,
		tokens:      tokens,
		hasher:      hasher,
		now:         utcNow,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput distingue campos ausentes (nil) de campos vacios.
// Image vacio limpia la imagen; Name vacio se ignora.
type UpdateProfileInput struct {
	Name            *string
	Image           *string
	CurrentPassword string
	NewPassword     string
}

// ExternalIdentity son los datos que entrega un proveedor externo (Google)
// despues de autenticar al usuario.
type ExternalIdentity struct {
	Email string
	Name  string
	Image string
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.Profile, error) {
	if s.accounts == nil || s.emailSender == nil {
		return domain.Profile{}, errors.New("account service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if err := validateRegistration(name, emailAddr, input.Password); err != nil {
		return domain.Profile{}, err
	}

	_, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.Profile{}, ErrConflict
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return domain.Profile{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}
	verification, err := s.tokens.Issue(VerificationTokenTTL)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("issue verification token: %w", err)
	}

	now := s.now()
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         name,
		PasswordHash: &passwordHash,
		IsVerified:   false,
		Verification: &verification,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.Profile{}, ErrConflict
		}
		return domain.Profile{}, err
	}

	if err := s.emailSender.SendVerification(ctx, emailAddr, verification.Value); err != nil {
		s.logger.Warn("send verification email failed", zap.Error(err), zap.String("email", emailAddr))
		return domain.Profile{}, fmt.Errorf("send verification email: %w", err)
	}

	return account.Profile(), nil
}

// VerifyEmail consume un token de verificacion. Token inexistente y token
// vencido devuelven el mismo error.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if s.accounts == nil {
		return errors.New("account service not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	now := s.now()
	account, err := s.accounts.GetByVerificationToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	if !account.Verification.ValidAt(now) {
		return ErrInvalidOrExpiredToken
	}

	account.IsVerified = true
	account.Verification = nil
	account.UpdatedAt = now
	return s.accounts.Update(ctx, account)
}

// Login no distingue entre email desconocido, cuenta sin password local y
// password incorrecto.
func (s *AccountService) Login(ctx context.Context, emailAddr, password string) (domain.PublicIdentity, error) {
	if s.accounts == nil {
		return domain.PublicIdentity{}, errors.New("account service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.PublicIdentity{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.PublicIdentity{}, ErrInvalidCredentials
		}
		return domain.PublicIdentity{}, err
	}
	if !account.HasPassword() {
		return domain.PublicIdentity{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, *account.PasswordHash) {
		return domain.PublicIdentity{}, ErrInvalidCredentials
	}

	return domain.PublicIdentity{Name: account.Name, Email: account.Email}, nil
}

// ForgotPassword devuelve nil tambien para emails desconocidos. Solo las
// cuentas sin password local reciben un error explicito.
func (s *AccountService) ForgotPassword(ctx context.Context, emailAddr string) error {
	if s.accounts == nil || s.emailSender == nil {
		return errors.New("account service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrInvalidInput
	}

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil
		}
		return err
	}
	if !account.HasPassword() {
		return ErrNoPasswordAccount
	}

	reset, err := s.tokens.Issue(ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	account.Reset = &reset
	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}

	if err := s.emailSender.SendPasswordReset(ctx, account.Email, reset.Value); err != nil {
		s.logger.Warn("send password reset email failed", zap.Error(err), zap.String("email", account.Email))
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.accounts == nil {
		return errors.New("account service not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	if newPassword == "" {
		return ErrInvalidInput
	}

	now := s.now()
	account, err := s.accounts.GetByResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	if !account.Reset.ValidAt(now) {
		return ErrInvalidOrExpiredToken
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = &passwordHash
	account.Reset = nil
	account.UpdatedAt = now
	return s.accounts.Update(ctx, account)
}

func (s *AccountService) GetProfile(ctx context.Context, identity domain.AuthenticatedIdentity) (domain.Profile, error) {
	account, err := s.accountFor(ctx, identity)
	if err != nil {
		return domain.Profile{}, err
	}
	return account.Profile(), nil
}

// UpdateProfile aplica nombre, imagen y password en un unico Update. Si la
// validacion del password falla no se persiste ningun cambio.
func (s *AccountService) UpdateProfile(ctx context.Context, identity domain.AuthenticatedIdentity, input UpdateProfileInput) (domain.Profile, error) {
	account, err := s.accountFor(ctx, identity)
	if err != nil {
		return domain.Profile{}, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			if utf8.RuneCountInString(name) > maxNameLength {
				return domain.Profile{}, fmt.Errorf("%w: name too long", ErrInvalidInput)
			}
			account.Name = name
		}
	}
	if input.Image != nil {
		account.Image = strings.TrimSpace(*input.Image)
	}

	if input.NewPassword != "" {
		if !account.HasPassword() {
			return domain.Profile{}, ErrNoPasswordAccount
		}
		if input.CurrentPassword == "" {
			return domain.Profile{}, ErrCurrentPasswordRequired
		}
		if !s.hasher.Verify(input.CurrentPassword, *account.PasswordHash) {
			return domain.Profile{}, ErrIncorrectPassword
		}
		passwordHash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = &passwordHash
	}

	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}
	return account.Profile(), nil
}

// SignInExternal crea la cuenta en el primer ingreso via proveedor externo.
// Las cuentas externas existentes se devuelven sin cambios; una cuenta con
// password local devuelve ErrPasswordAccount y debe usar Login.
func (s *AccountService) SignInExternal(ctx context.Context, input ExternalIdentity) (domain.Profile, error) {
	if s.accounts == nil {
		return domain.Profile{}, errors.New("account service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" || utf8.RuneCountInString(emailAddr) > maxEmailLength {
		return domain.Profile{}, ErrInvalidInput
	}

	existing, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err == nil {
		return externalProfile(existing)
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return domain.Profile{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.SplitN(emailAddr, "@", 2)[0]
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}

	now := s.now()
	account := domain.Account{
		ID:         uuid.NewString(),
		Email:      emailAddr,
		Name:       name,
		Image:      strings.TrimSpace(input.Image),
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return s.existingProfile(ctx, emailAddr)
		}
		return domain.Profile{}, err
	}
	return account.Profile(), nil
}

func (s *AccountService) existingProfile(ctx context.Context, emailAddr string) (domain.Profile, error) {
	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Profile{}, err
	}
	return externalProfile(account)
}

func externalProfile(account domain.Account) (domain.Profile, error) {
	if account.HasPassword() {
		return domain.Profile{}, ErrPasswordAccount
	}
	return account.Profile(), nil
}

func (s *AccountService) accountFor(ctx context.Context, identity domain.AuthenticatedIdentity) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}

	emailAddr := normalizeEmail(identity.Email)
	if emailAddr == "" {
		return domain.Account{}, ErrUnauthenticated
	}

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

func validateRegistration(name, emailAddr, password string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	case utf8.RuneCountInString(name) > maxNameLength:
		return fmt.Errorf("%w: name too long", ErrInvalidInput)
	case emailAddr == "" || !strings.Contains(emailAddr, "@"):
		return fmt.Errorf("%w: email required", ErrInvalidInput)
	case utf8.RuneCountInString(emailAddr) > maxEmailLength:
		return fmt.Errorf("%w: email too long", ErrInvalidInput)
	case password == "":
		return fmt.Errorf("%w: password required", ErrInvalidInput)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
