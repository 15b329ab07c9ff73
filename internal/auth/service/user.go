package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"github.com/aussiebroadwan/tabauth/pkg/cryptox"
	"github.com/aussiebroadwan/tabauth/pkg/slogx"
)

// NewAccount is the input to CreateAccount. Nil means the field was absent
// or not a string.
type NewAccount struct {
	Username *string
	Email    *string
	Password *string
	Origin   *string
}

// ProfileUpdate is the input to UpdateProfile. PasswordSet distinguishes an
// absent password from one supplied with the wrong type.
type ProfileUpdate struct {
	Email       *string
	Password    *string
	PasswordSet bool
}

type UserService struct {
	Store    store.Store
	Sessions *SessionService
	Clock    Clock
	Metrics  *metrics.Metrics
}

// CreateAccount registers a user and opens their first session in one
// transaction.
func (s *UserService) CreateAccount(ctx context.Context, req NewAccount) (_ domain.AccountView, err error) {
	ctx, span := tracer.Start(ctx, "UserService.CreateAccount")
	defer func() { endSpan(span, err) }()

	if req.Username == nil || req.Email == nil || req.Password == nil {
		return domain.AccountView{}, AccountFieldsError()
	}

	username := domain.NormalizeUsername(*req.Username)
	if strings.TrimSpace(username) == "" {
		return domain.AccountView{}, NewAuthError(KindValidation, msgUsernameEmpty)
	}

	email, err := normalizeEmail(*req.Email)
	if err != nil {
		return domain.AccountView{}, err
	}

	digest, salt, err := cryptox.NewPasswordHash(*req.Password)
	if err != nil {
		return domain.AccountView{}, err
	}

	now := s.Clock.Now()
	inUse := NewAuthError(KindValidation, msgUsernameInUse+*req.Username)
	var view domain.AccountView

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			return inUse
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		user, err := tx.Users().CreateUser(ctx, domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: digest,
			Salt:         salt,
			Origin:       req.Origin,
			CreatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return inUse
			}
			return err
		}

		sess, err := s.sessions().createSession(ctx, tx, user.ID, now)
		if err != nil {
			return err
		}

		view = domain.AccountView{
			UserView: domain.NewUserView(user),
			Session:  domain.NewSessionView(sess, user.Origin),
		}
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	s.Metrics.AccountCreated()
	s.Metrics.Sessions(metrics.SessionCreated, 1)
	slogx.FromContext(ctx).Info("account created",
		slog.Int64("user_id", view.ID),
		slog.String("username", view.Username),
	)
	return view, nil
}

func (s *UserService) sessions() *SessionService {
	if s.Sessions != nil {
		return s.Sessions
	}
	return &SessionService{Store: s.Store, Clock: s.Clock, Metrics: s.Metrics}
}

// GetProfile returns the caller's own profile.
func (s *UserService) GetProfile(ctx context.Context, identity *domain.User, userID int64) (domain.UserView, error) {
	if identity == nil || identity.ID != userID {
		return domain.UserView{}, NotAuthenticatedError()
	}
	return domain.NewUserView(*identity), nil
}

// UpdateProfile replaces the caller's email and, when supplied, their
// password. A new password always gets a new salt.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	identity *domain.User,
	userID int64,
	req ProfileUpdate,
) (_ domain.UserView, err error) {
	ctx, span := tracer.Start(ctx, "UserService.UpdateProfile")
	defer func() { endSpan(span, err) }()

	if identity == nil || identity.ID != userID {
		return domain.UserView{}, NotAuthenticatedError()
	}

	if req.Email == nil {
		return domain.UserView{}, NewAuthError(KindValidation, msgEmailNotString)
	}
	email, err := normalizeEmail(*req.Email)
	if err != nil {
		return domain.UserView{}, err
	}

	if req.PasswordSet {
		if req.Password == nil {
			return domain.UserView{}, NewAuthError(KindValidation, msgPasswordNotString)
		}
		if err := checkProfilePassword(*req.Password); err != nil {
			return domain.UserView{}, err
		}
	}

	var updated domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateEmail(ctx, identity.ID, email); err != nil {
			return notFoundAs(err, NotAuthenticatedError())
		}

		if req.PasswordSet {
			digest, salt, err := cryptox.NewPasswordHash(*req.Password)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdatePassword(ctx, identity.ID, digest, salt); err != nil {
				return err
			}
		}

		var err error
		updated, err = tx.Users().GetUserByID(ctx, identity.ID)
		return err
	})
	if err != nil {
		return domain.UserView{}, err
	}

	slogx.FromContext(ctx).Info("profile updated",
		slog.Int64("user_id", updated.ID),
		slog.Bool("password_changed", req.PasswordSet),
	)
	return domain.NewUserView(updated), nil
}

// SetLock locks the named account with message, or unlocks it when message
// is nil. An empty message is replaced with a generic one so the account
// still reads as locked.
func (s *UserService) SetLock(ctx context.Context, username string, message *string) (domain.User, error) {
	if message != nil && strings.TrimSpace(*message) == "" {
		msg := defaultLockMessage
		message = &msg
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByUsername(ctx, domain.NormalizeUsername(username))
		if err != nil {
			return err
		}
		if err := tx.Users().SetLockMessage(ctx, user.ID, message); err != nil {
			return err
		}
		user.LockMessage = message
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("set lock for %q: %w", username, err)
	}
	return user, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// emailReasons maps failed validator tags to the detail after msgEmailInvalid.
var emailReasons = map[string]string{
	"required": "must not be empty",
	"email":    "not a valid email address",
	"max":      "must be at most 255 characters",
}

// normalizeEmail accepts a bare address with a dotted domain and returns it
// lowercased.
func normalizeEmail(raw string) (string, error) {
	if err := validate.Var(raw, "required,email,max=255"); err != nil {
		return "", NewAuthError(KindValidation, msgEmailInvalid+validationReason(err, emailReasons))
	}
	return strings.ToLower(raw), nil
}

func checkProfilePassword(pw string) error {
	if err := validate.Var(pw, "min="+strconv.Itoa(minProfilePasswordLen)); err != nil {
		return NewAuthError(KindValidation, msgPasswordTooShort)
	}
	return nil
}

func validationReason(err error, reasons map[string]string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if reason, ok := reasons[verrs[0].Tag()]; ok {
			return reason
		}
		return verrs[0].Tag()
	}
	return err.Error()
}
