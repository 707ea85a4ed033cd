package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/verano-labs/registration-api/internal/model"
	"github.com/verano-labs/registration-api/internal/repository"
	"github.com/verano-labs/registration-api/internal/security"
)

// AccountUsecase defines the account lifecycle operations.
type AccountUsecase interface {
	// Register creates a new unverified account and emails its verification
	// code. When the error is ErrNotificationFailed the account has still
	// been persisted; the returned user is valid in that case.
	Register(ctx context.Context, params RegisterParams) (*model.User, error)

	// Verify marks the account as verified when the supplied code matches.
	// Verifying an already verified account is a no-op success.
	Verify(ctx context.Context, id, code string) error

	// RequestPasswordReset issues a fresh reset code for a verified account
	// and emails it. An unknown email is not an error, so callers cannot
	// probe which addresses are registered.
	RequestPasswordReset(ctx context.Context, email string) error

	// CompletePasswordReset replaces the password when the supplied code
	// matches the pending reset code, clearing the code in the same step.
	CompletePasswordReset(ctx context.Context, id, code, newPassword string) error
}

// RegisterParams defines the parameters for account registration. Password
// and confirmation equality is enforced by the request validation layer
// before this is built.
type RegisterParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Notifier delivers lifecycle codes to account holders out-of-band.
type Notifier interface {
	SendSimple(to []string, subject, body string) error
}

// PasswordHasher is the credential hashing contract consumed by the
// lifecycle service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, candidate string) bool
}

var (
	ErrAccountAlreadyExists    = errors.New("account already exists")
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountNotVerified      = errors.New("account is not verified")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrInvalidPasswordReset    = errors.New("invalid password reset")

	// ErrNotificationFailed reports that the state change was persisted but
	// the follow-up email could not be delivered. The mutation is never
	// rolled back on delivery failure.
	ErrNotificationFailed = errors.New("notification delivery failed")
)

type accountUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	notifier Notifier
	logger   *zerolog.Logger
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	notifier Notifier,
	logger *zerolog.Logger,
) AccountUsecase {
	return &accountUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

func (u *accountUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	passwordHash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	verificationCode, err := security.NewCode()
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:            normalizeEmail(params.Email),
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		PasswordHash:     passwordHash,
		Verified:         false,
		VerificationCode: verificationCode,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAccountAlreadyExists
		}

		return nil, err
	}

	body := fmt.Sprintf("Verification code %s. Id: %s", user.VerificationCode, user.ID.Hex())
	if err := u.notifier.SendSimple([]string{user.Email}, "Please verify your account", body); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
		return user, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return user, nil
}

func (u *accountUsecase) Verify(ctx context.Context, id, code string) error {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAccountNotFound
		}

		return err
	}

	// Already verified accounts stay verified; replays succeed without
	// touching the record.
	if user.Verified {
		return nil
	}

	if user.VerificationCode != code {
		return ErrInvalidVerificationCode
	}

	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified: &verified,
	}); err != nil {
		return err
	}

	return nil
}

func (u *accountUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email
			// does not exist.
			u.logger.Debug().Str("email", email).Msg("password reset requested for unknown email")
			return nil
		}

		return err
	}

	if !user.Verified {
		return ErrAccountNotVerified
	}

	resetCode, err := security.NewCode()
	if err != nil {
		return err
	}

	// A new request replaces any pending code; only the latest one can
	// complete the reset.
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordResetCode: &resetCode,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("Password reset code: %s Id: %s", resetCode, user.ID.Hex())
	if err := u.notifier.SendSimple([]string{user.Email}, "Reset your password", body); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	u.logger.Debug().Str("email", user.Email).Msg("password reset email sent")

	return nil
}

func (u *accountUsecase) CompletePasswordReset(ctx context.Context, id, code, newPassword string) error {
	// The hash is computed up front because the repository clears the code
	// and swaps the hash in a single conditional update.
	passwordHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.CompletePasswordReset(ctx, id, code, passwordHash); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidPasswordReset
		}

		return err
	}

	return nil
}

// normalizeEmail case-folds and trims an address so lookups and the unique
// index all operate on one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
