package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/handlers"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/validate"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

func New(app *application.App) (*gin.Engine, error) {
	router := gin.New()
	if err := registerMiddlewares(router, app); err != nil {
		return nil, err
	}
	if err := registerValidators(); err != nil {
		return nil, err
	}
	if err := registerRoutes(router, app); err != nil {
		return nil, err
	}
	return router, nil
}

func registerRoutes(r *gin.Engine, app *application.App) error { // nolint: unparam
	handler := handlers.New(app)
	registerPublicRoutes(r, handler)

	privateRoutes := r.Group("/", auth.RequireAuthentication)
	registerPrivateRoutes(privateRoutes, handler)

	manageRoutes := r.Group(
		"/api/manage",
		auth.RequireAuthentication, auth.RequireRole(models.RoleManager),
	)
	registerManageRoutes(manageRoutes, handler)

	adminRoutes := r.Group(
		"/api/manage", auth.RequireAuthentication, auth.RequireRole(models.RoleAdmin),
	)
	registerAdminRoutes(adminRoutes, handler)
	return nil
}

func registerPublicRoutes(r *gin.Engine, h *handlers.Handler) {
	r.POST("/api/user/register", h.RegisterUser)
	r.POST("/api/user/login", h.LoginUser)
	r.GET("/api/products", h.ListProducts)
	r.GET("/api/products/categories", h.ListProductCategories)
	r.GET("/api/products/:id", h.ShowProduct)
	r.POST("/api/newsletter/subscribe", h.SubscribeNewsletter)
}

func registerPrivateRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	r.GET("/api/user/balance", h.ShowUserBalance)
	r.GET("/api/user/earnings", h.ShowUserEarnings)
	r.POST("/api/products/:id/claim", h.ClaimProduct)
	r.GET("/api/user/claims", h.ListUserClaims)
	r.POST("/api/user/reviews", h.SubmitReview)
	r.GET("/api/user/reviews", h.ListUserReviews)
	r.GET("/api/user/withdrawals/eligibility", h.CheckWithdrawalEligibility)
	r.POST("/api/user/withdrawals", h.RequestWithdrawal)
	r.GET("/api/user/withdrawals", h.ListUserWithdrawals)
	r.GET("/api/user/affiliate/stats", h.ShowAffiliateStats)
	r.GET("/api/user/affiliate/referrals", h.ListUserReferrals)
}

// registerManageRoutes mounts the manager console:
// catalog maintenance and review moderation
func registerManageRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	r.POST("/products", h.AddProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.POST("/products/:id/toggle", h.ToggleProductAvailability)
	r.DELETE("/products/:id", h.DeleteProduct)

	r.GET("/reviews", h.ListReviews)
	r.GET("/reviews/summary", h.ShowReviewSummary)
	r.POST("/reviews/:id/approve", h.ApproveReview)
	r.POST("/reviews/:id/reject", h.RejectReview)
}

// registerAdminRoutes mounts the endpoints reserved for admin accounts:
// user administration, withdrawal decisions, the affiliate totals
// and the manager roster, which is not editable by the managers themselves
func registerAdminRoutes(r *gin.RouterGroup, h *handlers.Handler) {
	r.GET("/users", h.SearchUsers)
	r.POST("/users/:id/toggle", h.ToggleUserStatus)
	r.DELETE("/users/:id", h.DeleteUser)

	r.GET("/withdrawals", h.ListWithdrawals)
	r.GET("/withdrawals/summary", h.ShowWithdrawalSummary)
	r.POST("/withdrawals/:id/approve", h.ApproveWithdrawal)
	r.POST("/withdrawals/:id/reject", h.RejectWithdrawal)

	r.GET("/affiliate/summary", h.ShowAffiliateSummary)

	r.GET("/managers", h.SearchManagers)
	r.POST("/managers", h.AddManager)
	r.POST("/managers/:id/toggle", h.ToggleManagerStatus)
	r.DELETE("/managers/:id", h.DeleteManager)
}

func registerMiddlewares(router *gin.Engine, app *application.App) error { // nolint: unparam
	router.Use(gin.LoggerWithWriter(log.Logger))
	router.Use(gin.Recovery())
	router.Use(auth.Authentication(app.Cfg))
	return nil
}

func registerValidators() error {
	var customValidators = [...]struct {
		name      string
		validator validator.Func
	}{
		{
			"notblank",
			validators.NotBlank,
		},
		{
			"paymethod",
			validate.PaymentMethod,
		},
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		for _, val := range customValidators {
			if err := v.RegisterValidation(val.name, val.validator); err != nil {
				return err
			}
		}
	}
	return nil
}
