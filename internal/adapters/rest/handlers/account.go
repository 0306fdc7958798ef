package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/account"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type RegisterUserReq struct {
	Name         string `json:"name" binding:"required,notblank"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,notblank"`
	ReferralCode string `json:"referral_code"` // nolint: tagliatelle
}

type RegisterUserResp struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"` // nolint: tagliatelle
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var json RegisterUserReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("unable to parse register request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.app.UserService.RegisterNewUser(
		c.Request.Context(),
		strings.TrimSpace(json.Name),
		strings.TrimSpace(strings.ToLower(json.Email)),
		json.Password,
		strings.TrimSpace(json.ReferralCode),
	)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrRegisterEmailOccupied):
			log.Debug().
				Err(err).Str("path", c.FullPath()).Str("email", json.Email).
				Msg("unable to register user due to conflict")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrRegisterUnknownReferralCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().
				Err(err).Str("path", c.FullPath()).Str("email", json.Email).
				Msg("unable to register user due to error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	log.Info().
		Str("path", c.FullPath()).Int("id", u.ID).Str("email", u.Email).
		Msg("registered new user")

	if err := h.setAuthCookie(c, u); err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Str("email", json.Email).
			Msg("failed to set auth cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": RegisterUserResp{
		ID: u.ID, Name: u.Name, Email: u.Email, ReferralCode: u.ReferralCode,
	}})
}

type LoginUserReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,notblank"`
}

func (h *Handler) LoginUser(c *gin.Context) {
	var json LoginUserReq

	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("unable to parse login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.app.UserService.Authenticate(
		c.Request.Context(), strings.ToLower(json.Email), json.Password,
	)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAuthenticateInvalidCredentials):
			log.Debug().
				Err(err).Str("path", c.FullPath()).Str("email", json.Email).
				Msg("unable to login user due to email/password mismatch")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrAuthenticateSuspendedAccount):
			log.Debug().
				Err(err).Str("path", c.FullPath()).Str("email", json.Email).
				Msg("suspended account attempted to login")
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrAuthenticateEmptyPassword):
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("unable to login user with empty password")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().
				Err(err).Str("path", c.FullPath()).Str("email", json.Email).
				Msg("unable to login user due to error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	log.Info().
		Str("path", c.FullPath()).Int("id", u.ID).Str("email", u.Email).
		Msg("user logged in")

	if err := h.setAuthCookie(c, u); err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Str("email", json.Email).
			Msg("failed to set auth cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": RegisterUserResp{
		ID: u.ID, Name: u.Name, Email: u.Email, ReferralCode: u.ReferralCode,
	}})
}

type UserBalanceResp struct {
	Current   float64 `json:"current"`
	Held      float64 `json:"held"`
	Withdrawn float64 `json:"withdrawn"`
}

func (h *Handler) ShowUserBalance(c *gin.Context) {
	u := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	balance, err := h.app.UserService.GetBalance(c.Request.Context(), u.ID)
	if err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Int("userID", u.ID).
			Msg("Unable to show user balance due to error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, UserBalanceResp{
		encode.DecimalToFloat(balance.Current),
		encode.DecimalToFloat(balance.Held),
		encode.DecimalToFloat(balance.Withdrawn),
	})
}

type UserEarningsResp struct {
	Balance             UserBalanceResp `json:"balance"`
	ApprovedRewards     float64         `json:"approved_rewards"`     // nolint: tagliatelle
	PendingRewards      float64         `json:"pending_rewards"`      // nolint: tagliatelle
	AffiliateCommission float64         `json:"affiliate_commission"` // nolint: tagliatelle
}

func (h *Handler) ShowUserEarnings(c *gin.Context) {
	u := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	earnings, err := h.app.UserService.GetEarnings(c.Request.Context(), u.ID)
	if err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Int("userID", u.ID).
			Msg("Unable to show user earnings due to error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, UserEarningsResp{
		Balance: UserBalanceResp{
			encode.DecimalToFloat(earnings.Balance.Current),
			encode.DecimalToFloat(earnings.Balance.Held),
			encode.DecimalToFloat(earnings.Balance.Withdrawn),
		},
		ApprovedRewards:     encode.DecimalToFloat(earnings.ApprovedRewards),
		PendingRewards:      encode.DecimalToFloat(earnings.PendingRewards),
		AffiliateCommission: encode.DecimalToFloat(earnings.AffiliateCommission),
	})
}

func (h *Handler) setAuthCookie(c *gin.Context, u models.User) error {
	token, err := auth.GenerateAuthTokenCookie(u, h.app.Cfg.SecretKey)
	if err != nil {
		return err
	}
	cookie := http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(auth.CookieAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
	return nil
}
