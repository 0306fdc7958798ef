package bootstrap

import (
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/cmd/bunny/config"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
	claimsDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims/db"
	managersDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers/db"
	productsDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/products/db"
	referralsDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/referrals/db"
	reviewsDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews/db"
	usersDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/users/db"
	withdrawalsDB "github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/persistence/db"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/newsletter"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/account"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/affiliate"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/review"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/staff"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/subscription"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/withdrawal"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/security/hasher/bcrypt"
)

func App(cfg config.Config, pg *db.Database) (*application.App, error) {
	newsletterService, err := newsletter.New(cfg.NewsletterFormURL)
	if err != nil {
		log.Error().Err(err).Msg("Unable to configure newsletter service")
		return nil, err
	}

	// repos
	users := usersDB.New(pg)
	managers := managersDB.New(pg)
	products := productsDB.New(pg)
	claims := claimsDB.New(pg)
	reviews := reviewsDB.New(pg)
	withdrawals := withdrawalsDB.New(pg)
	referrals := referralsDB.New(pg)

	catalogService := catalog.New(products, claims, reviews, pg, cfg.ClaimTTL)

	app := application.NewApp(
		cfg,
		account.New(users, reviews, referrals, bcrypt.New()),
		catalogService,
		review.New(
			reviews, users, referrals, managers, catalogService, pg,
			cfg.SiteFeeShare, cfg.AffiliateShare,
		),
		withdrawal.New(withdrawals, users, pg, cfg.MinWithdrawal),
		staff.New(managers),
		affiliate.New(referrals),
		subscription.New(
			subscription.WithNewsletterService(newsletterService),
			subscription.WithInMemoryQueue(cfg.NewsletterQueueSize),
		),
	)
	return app, nil
}
