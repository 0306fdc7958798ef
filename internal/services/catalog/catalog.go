package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/products"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/transactor"
)

var ErrClaimProductUnavailable = errors.New("product is not available for claiming")
var ErrClaimAlreadyReviewed = errors.New("user has already reviewed this product")

type Service struct {
	products   products.Repository
	claims     claims.Repository
	reviews    reviews.Repository
	transactor transactor.Transactor
	claimTTL   time.Duration
}

func New(
	products products.Repository,
	claims claims.Repository,
	reviews reviews.Repository,
	transactor transactor.Transactor,
	claimTTL time.Duration,
) Service {
	return Service{
		products:   products,
		claims:     claims,
		reviews:    reviews,
		transactor: transactor,
		claimTTL:   claimTTL,
	}
}

// ListProducts returns the catalog products matching the given filter
func (s Service) ListProducts(ctx context.Context, filter products.Filter) ([]models.Product, error) {
	return s.products.List(ctx, filter)
}

func (s Service) GetProduct(ctx context.Context, id int) (models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetCategories returns the distinct categories present in the catalog
func (s Service) GetCategories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

func (s Service) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	added, err := s.products.Add(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	log.Info().
		Int("productID", added.ID).Str("name", added.Name).
		Msg("Added catalog product")
	return added, nil
}

func (s Service) UpdateProduct(ctx context.Context, product models.Product) error {
	return s.products.Update(ctx, product)
}

// ToggleProductAvailability flips a product between the available
// and unavailable states, returning the updated product
func (s Service) ToggleProductAvailability(ctx context.Context, id int) (models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err = s.products.SetAvailability(ctx, id, !p.Available); err != nil {
		return models.Product{}, err
	}
	p.Available = !p.Available
	log.Info().
		Int("productID", id).Bool("available", p.Available).
		Msg("Toggled product availability")
	return p, nil
}

func (s Service) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int("productID", id).Msg("Deleted catalog product")
	return nil
}

// ClaimProduct reserves one instance of the product for the user,
// opening the review window. A user cannot hold more than one active claim
// for the same product, nor claim a product they have already reviewed.
// The stock hold and the claim record are committed together
func (s Service) ClaimProduct(ctx context.Context, userID, productID int) (models.Claim, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return models.Claim{}, err
	}
	if !product.Available {
		return models.Claim{}, ErrClaimProductUnavailable
	}

	reviewed, err := s.reviews.ExistsForUserProduct(ctx, userID, productID)
	if err != nil {
		return models.Claim{}, err
	}
	if reviewed {
		return models.Claim{}, ErrClaimAlreadyReviewed
	}

	var claim models.Claim
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		if holdErr := s.products.HoldInstance(txCtx, productID); holdErr != nil {
			return holdErr
		}
		added, addErr := s.claims.Add(txCtx, models.NewClaim(userID, productID, s.claimTTL))
		if addErr != nil {
			return addErr
		}
		claim = added
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	log.Info().
		Int("userID", userID).Int("productID", productID).Int("claimID", claim.ID).
		Time("expiresAt", claim.ExpiresAt).
		Msg("Claimed product for review")
	return claim, nil
}

// GetUserClaims returns the user's claims, newest first.
// Claims whose review window has lapsed are expired on the way out
// and their reserved product instances are returned to stock
func (s Service) GetUserClaims(ctx context.Context, userID int) ([]models.Claim, error) {
	userClaims, err := s.claims.GetListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i, claim := range userClaims {
		if !claim.Overdue(now) {
			continue
		}
		if expErr := s.expireClaim(ctx, claim); expErr != nil {
			log.Error().
				Err(expErr).Int("claimID", claim.ID).
				Msg("Failed to expire overdue claim")
			continue
		}
		userClaims[i].Status = models.ClaimStatusExpired
	}
	return userClaims, nil
}

// GetActiveClaim returns the user's active, unexpired claim for the product.
// An overdue claim is expired in passing and reported as not found
func (s Service) GetActiveClaim(ctx context.Context, userID, productID int) (models.Claim, error) {
	userClaims, err := s.claims.GetListForUser(ctx, userID)
	if err != nil {
		return models.Claim{}, err
	}
	now := time.Now()
	for _, claim := range userClaims {
		if claim.Product.ID != productID || claim.Status != models.ClaimStatusActive {
			continue
		}
		if claim.Overdue(now) {
			if expErr := s.expireClaim(ctx, claim); expErr != nil {
				log.Error().
					Err(expErr).Int("claimID", claim.ID).
					Msg("Failed to expire overdue claim")
			}
			continue
		}
		return claim, nil
	}
	return models.Claim{}, claims.ErrClaimNotFound
}

// CompleteClaim marks the claim fulfilled by a submitted review
func (s Service) CompleteClaim(ctx context.Context, claimID int) error {
	return s.claims.SetStatus(ctx, claimID, models.ClaimStatusCompleted)
}

// ApplyApprovedRating folds an approved review's rating
// into the product's running average
func (s Service) ApplyApprovedRating(ctx context.Context, productID, rating int) error {
	return s.products.ApplyReviewRating(ctx, productID, rating)
}

func (s Service) expireClaim(ctx context.Context, claim models.Claim) error {
	return s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.claims.SetStatus(txCtx, claim.ID, models.ClaimStatusExpired); err != nil {
			return err
		}
		return s.products.ReleaseInstance(txCtx, claim.Product.ID)
	})
}
