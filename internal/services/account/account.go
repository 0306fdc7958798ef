package account

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/random"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/security/hasher"
)

var ErrRegisterEmptyPassword = errors.New("cannot register with empty password")
var ErrRegisterEmailOccupied = errors.New("email is occupied by another user")
var ErrRegisterUnknownReferralCode = errors.New("unknown referral code")

var ErrAuthenticateEmptyPassword = errors.New("cannot login with empty password")
var ErrAuthenticateInvalidCredentials = errors.New("unable to authenticate user with this email/password")
var ErrAuthenticateSuspendedAccount = errors.New("account is suspended")

const referralCodePrefix = "REF-"
const referralCodeLength = 8
const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Earnings is the aggregate view of a user's monetary standing,
// derived on demand from the balance, review and referral records
type Earnings struct {
	Balance             models.UserBalance
	ApprovedRewards     decimal.Decimal
	PendingRewards      decimal.Decimal
	AffiliateCommission decimal.Decimal
}

type Service struct {
	users     users.Repository
	reviews   reviews.Repository
	referrals referrals.Repository
	hasher    hasher.PasswordHasher
}

func New(
	users users.Repository,
	reviews reviews.Repository,
	referrals referrals.Repository,
	hasher hasher.PasswordHasher,
) Service {
	return Service{
		users:     users,
		reviews:   reviews,
		referrals: referrals,
		hasher:    hasher,
	}
}

// RegisterNewUser attempts to register a new user with the current repository.
// Before saving the user into the repository, the raw password is hashed
// using the service configured hasher.
// When a referral code is supplied, the new user is linked
// to the referrer owning that code
func (s Service) RegisterNewUser(
	ctx context.Context, name, email, password, referralCode string,
) (models.User, error) {
	// must not register with empty password
	if password == "" {
		return models.User{}, ErrRegisterEmptyPassword
	}
	// check whether a user with this email already exists
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, ErrRegisterEmailOccupied
	}
	// a wrong referral code must fail registration before anything is persisted
	var referrer models.User
	haveReferrer := false
	if referralCode != "" {
		u, err := s.users.GetByReferralCode(ctx, referralCode)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				return models.User{}, ErrRegisterUnknownReferralCode
			}
			return models.User{}, err
		}
		referrer = u
		haveReferrer = true
	}
	// store a password hash instead of the plain password
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("Unable to hash password")
		return models.User{}, err
	}

	newUser := models.NewUser(name, email, hashedPassword, generateReferralCode())
	u, err := s.users.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, users.ErrUserEmailIsOccupied) {
			return models.User{}, ErrRegisterEmailOccupied
		}
		return models.User{}, err
	}

	if haveReferrer {
		if _, refErr := s.referrals.Add(ctx, models.NewReferral(referrer.ID, u.ID)); refErr != nil {
			log.Error().
				Err(refErr).Int("referrerID", referrer.ID).Int("userID", u.ID).
				Msg("Failed to link new user to referrer")
		}
	}

	return u, nil
}

// Authenticate attempts to log in a user using provided credentials.
// Suspended accounts are refused even with valid credentials
func (s Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	// prevent logging in with an empty password
	if password == "" {
		return models.User{}, ErrAuthenticateEmptyPassword
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return models.User{}, ErrAuthenticateInvalidCredentials
		}
		return models.User{}, err
	}

	passwordsMatch, err := s.hasher.Check(password, user.Password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Unable to check password")
		return models.User{}, err
	} else if !passwordsMatch {
		log.Debug().Str("email", email).Msg("Password does not match")
		return models.User{}, ErrAuthenticateInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		log.Debug().Str("email", email).Msg("Suspended account attempted to login")
		return models.User{}, ErrAuthenticateSuspendedAccount
	}

	return user, nil
}

func (s Service) GetUser(ctx context.Context, userID int) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetBalance returns specified user's balance
func (s Service) GetBalance(ctx context.Context, userID int) (models.UserBalance, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.UserBalance{}, err
	}
	return u.Balance, nil
}

// GetEarnings assembles the aggregate earnings view for the user:
// the balance plus reward and commission sums derived from the records
func (s Service) GetEarnings(ctx context.Context, userID int) (Earnings, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Earnings{}, err
	}
	approved, err := s.reviews.SumRewardsForUser(ctx, userID, models.ReviewStatusApproved)
	if err != nil {
		return Earnings{}, err
	}
	pending, err := s.reviews.SumRewardsForUser(ctx, userID, models.ReviewStatusPending)
	if err != nil {
		return Earnings{}, err
	}
	commission := decimal.Zero
	if stats, statsErr := s.referrals.GetStatsForReferrer(ctx, userID); statsErr == nil {
		commission = stats.Commission
	} else {
		return Earnings{}, statsErr
	}
	return Earnings{
		Balance:             u.Balance,
		ApprovedRewards:     approved,
		PendingRewards:      pending,
		AffiliateCommission: commission,
	}, nil
}

// SearchUsers returns the users matching the given free-text term
// for the administrative console
func (s Service) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	return s.users.Search(ctx, term)
}

// ToggleUserStatus flips a user between the active and suspended statuses,
// returning the updated user.
// Inactive users are reactivated by the toggle as well
func (s Service) ToggleUserStatus(ctx context.Context, userID int) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	newStatus := models.UserStatusSuspended
	if u.Status != models.UserStatusActive {
		newStatus = models.UserStatusActive
	}
	if err = s.users.SetStatus(ctx, userID, newStatus); err != nil {
		return models.User{}, err
	}
	log.Info().
		Int("userID", userID).
		Str("before", string(u.Status)).Str("after", string(newStatus)).
		Msg("Toggled user status")
	u.Status = newStatus
	return u, nil
}

func (s Service) DeleteUser(ctx context.Context, userID int) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	log.Info().Int("userID", userID).Msg("Deleted user")
	return nil
}

func generateReferralCode() string {
	return referralCodePrefix + random.String(referralCodeLength, referralCodeAlphabet)
}
