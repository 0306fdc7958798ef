package application

import (
	"github.com/awmprojects/webdesign-bunny-submitted/cmd/bunny/config"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/account"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/affiliate"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/review"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/staff"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/subscription"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/withdrawal"
)

type App struct {
	UserService         account.Service
	CatalogService      catalog.Service
	ReviewService       review.Service
	WithdrawalService   withdrawal.Service
	StaffService        staff.Service
	AffiliateService    affiliate.Service
	SubscriptionService subscription.Service
	Cfg                 config.Config
}

func NewApp(
	cfg config.Config,
	userService account.Service,
	catalogService catalog.Service,
	reviewService review.Service,
	withdrawalService withdrawal.Service,
	staffService staff.Service,
	affiliateService affiliate.Service,
	subscriptionService subscription.Service,
) *App {
	return &App{
		Cfg:                 cfg,
		UserService:         userService,
		CatalogService:      catalogService,
		ReviewService:       reviewService,
		WithdrawalService:   withdrawalService,
		StaffService:        staffService,
		AffiliateService:    affiliateService,
		SubscriptionService: subscriptionService,
	}
}
