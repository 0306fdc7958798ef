package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

func TestReview_Moderate(t *testing.T) {
	reward := decimal.RequireFromString("15.00")

	r := models.NewReview(1, 2, 3, 5, "Excellent sound quality", "Exceeded my expectations.", reward)
	require.Equal(t, models.ReviewStatusPending, r.Status)
	require.Nil(t, r.ModeratedAt)

	moderatedAt := time.Now()
	err := r.Moderate(models.ReviewStatusApproved, moderatedAt)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, r.Status)
	require.NotNil(t, r.ModeratedAt)
	assert.Equal(t, moderatedAt, *r.ModeratedAt)

	// a second decision has no effect on a moderated review
	err = r.Moderate(models.ReviewStatusRejected, time.Now())
	assert.ErrorIs(t, err, models.ErrReviewAlreadyModerated)
	assert.Equal(t, models.ReviewStatusApproved, r.Status)
	assert.Equal(t, moderatedAt, *r.ModeratedAt)
}
