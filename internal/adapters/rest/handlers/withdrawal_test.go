package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/pkg/testutils"
)

type withdrawalRespSchema struct {
	ID              int     `json:"id"`
	Amount          float64 `json:"amount"`
	Method          string  `json:"method"`
	PaymentDetail   string  `json:"payment_detail"`   // nolint: tagliatelle
	Status          string  `json:"status"`
	SubmittedAt     string  `json:"submitted_at"`     // nolint: tagliatelle
	ProcessedAt     *string `json:"processed_at"`     // nolint: tagliatelle
	RejectionReason string  `json:"rejection_reason"` // nolint: tagliatelle
}

type requestWithdrawalRespSchema struct {
	Result withdrawalRespSchema `json:"result"`
}

// earnBalance walks the user through a full review cycle
// so that the reward lands on their current balance
func earnBalance(t *testing.T, app *application.App, u models.User, amount string) {
	ctx := context.TODO()
	p, err := app.CatalogService.AddProduct(ctx, models.NewProduct(
		"Wireless Headphones", "Electronics", "Noise cancelling over-ears",
		decimal.RequireFromString("89.99"), decimal.RequireFromString(amount), 1,
	))
	require.NoError(t, err)
	_, err = app.CatalogService.ClaimProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	r, err := app.ReviewService.SubmitReview(ctx, u.ID, p.ID, 5, "Great sound", "Very happy with these")
	require.NoError(t, err)
	_, err = app.ReviewService.ApproveReview(ctx, r.ID, "moderator@example.com")
	require.NoError(t, err)
}

func TestHandler_RequestWithdrawal_OK(t *testing.T) {
	ts, app, cancel := testutils.PrepareTestServer()
	defer cancel()

	u, err := app.UserService.RegisterNewUser(context.TODO(), "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	earnBalance(t, app, u, "156.78")

	resp, body := testutils.DoTestRequest(
		t, ts, http.MethodPost, "/api/user/withdrawals",
		bytes.NewReader(testutils.MustJSONMarshal(map[string]interface{}{
			"amount": 100.0, "method": "paypal", "payment_detail": "sarah@example.com",
		})),
		testutils.RequestWithUser(u, app),
	)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var respJSON requestWithdrawalRespSchema
	require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
	assert.True(t, respJSON.Result.ID > 0)
	assert.Equal(t, 100.0, respJSON.Result.Amount)
	assert.Equal(t, "paypal", respJSON.Result.Method)
	assert.Equal(t, "pending", respJSON.Result.Status)
	assert.Nil(t, respJSON.Result.ProcessedAt)

	// the amount is held, not paid out yet
	balance, err := app.UserService.GetBalance(context.TODO(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "56.78", balance.Current.String())
	assert.Equal(t, "100", balance.Held.String())
	assert.Equal(t, "0", balance.Withdrawn.String())
}

func TestHandler_RequestWithdrawal_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			"below the minimum",
			map[string]interface{}{"amount": 49.99, "method": "bank"},
			400,
		},
		{
			"exceeds the balance",
			map[string]interface{}{"amount": 200.0, "method": "bank"},
			402,
		},
		{
			"zero amount",
			map[string]interface{}{"amount": 0.0, "method": "bank"},
			422,
		},
		{
			"negative amount",
			map[string]interface{}{"amount": -50.0, "method": "bank"},
			422,
		},
		{
			"unknown method",
			map[string]interface{}{"amount": 100.0, "method": "cheque"},
			422,
		},
		{
			"paypal without payment detail",
			map[string]interface{}{"amount": 100.0, "method": "paypal"},
			400,
		},
		{
			"venmo without payment detail is fine",
			map[string]interface{}{"amount": 100.0, "method": "venmo"},
			200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, app, cancel := testutils.PrepareTestServer()
			defer cancel()

			u, err := app.UserService.RegisterNewUser(
				context.TODO(), "Sarah", "sarah@example.com", "str0ng", "",
			)
			require.NoError(t, err)
			earnBalance(t, app, u, "156.78")

			resp, _ := testutils.DoTestRequest(
				t, ts, http.MethodPost, "/api/user/withdrawals",
				bytes.NewReader(testutils.MustJSONMarshal(tt.body)),
				testutils.RequestWithUser(u, app),
			)
			resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHandler_RequestWithdrawal_RequiresAuth(t *testing.T) {
	ts, _, cancel := testutils.PrepareTestServer()
	defer cancel()
	resp, _ := testutils.DoTestRequest(
		t, ts, http.MethodPost, "/api/user/withdrawals",
		bytes.NewReader(testutils.MustJSONMarshal(map[string]interface{}{
			"amount": 100.0, "method": "bank",
		})),
	)
	resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestHandler_CheckWithdrawalEligibility(t *testing.T) {
	tests := []struct {
		name          string
		balance       string
		wantEligible  bool
		wantShortfall float64
	}{
		{
			"comfortably above the minimum",
			"156.78",
			true,
			0,
		},
		{
			"nothing earned yet",
			"",
			false,
			50,
		},
		{
			"below the minimum",
			"30.00",
			false,
			20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, app, cancel := testutils.PrepareTestServer()
			defer cancel()

			u, err := app.UserService.RegisterNewUser(
				context.TODO(), "Sarah", "sarah@example.com", "str0ng", "",
			)
			require.NoError(t, err)
			if tt.balance != "" {
				earnBalance(t, app, u, tt.balance)
			}

			resp, body := testutils.DoTestRequest(
				t, ts, http.MethodGet, "/api/user/withdrawals/eligibility", nil,
				testutils.RequestWithUser(u, app),
			)
			defer resp.Body.Close()
			require.Equal(t, 200, resp.StatusCode)

			var respJSON struct {
				Eligible  bool    `json:"eligible"`
				Available float64 `json:"available"`
				Minimum   float64 `json:"minimum"`
				Shortfall float64 `json:"shortfall"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
			assert.Equal(t, tt.wantEligible, respJSON.Eligible)
			assert.Equal(t, 50.0, respJSON.Minimum)
			assert.Equal(t, tt.wantShortfall, respJSON.Shortfall)
		})
	}
}

func TestHandler_ListUserWithdrawals(t *testing.T) {
	ts, app, cancel := testutils.PrepareTestServer()
	defer cancel()

	u, err := app.UserService.RegisterNewUser(context.TODO(), "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)

	// no withdrawals yet
	resp, _ := testutils.DoTestRequest(
		t, ts, http.MethodGet, "/api/user/withdrawals", nil,
		testutils.RequestWithUser(u, app),
	)
	resp.Body.Close()
	require.Equal(t, 204, resp.StatusCode)

	earnBalance(t, app, u, "156.78")
	_, err = app.WithdrawalService.RequestWithdrawal(
		context.TODO(), u.ID, decimal.RequireFromString("100"), models.PaymentMethodBank, "",
	)
	require.NoError(t, err)

	resp, body := testutils.DoTestRequest(
		t, ts, http.MethodGet, "/api/user/withdrawals", nil,
		testutils.RequestWithUser(u, app),
	)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var respJSON []withdrawalRespSchema
	require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
	require.Len(t, respJSON, 1)
	assert.Equal(t, 100.0, respJSON[0].Amount)
	assert.Equal(t, "bank", respJSON[0].Method)
	assert.Equal(t, "pending", respJSON[0].Status)
}

func TestHandler_ApproveWithdrawal(t *testing.T) {
	ts, app, cancel := testutils.PrepareTestServer()
	defer cancel()

	u, err := app.UserService.RegisterNewUser(context.TODO(), "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	earnBalance(t, app, u, "156.78")
	w, err := app.WithdrawalService.RequestWithdrawal(
		context.TODO(), u.ID, decimal.RequireFromString("100"), models.PaymentMethodBank, "",
	)
	require.NoError(t, err)

	admin := models.User{ID: 9000, Email: "admin@example.com", Role: models.RoleAdmin}
	resp, body := testutils.DoTestRequest(
		t, ts, http.MethodPost, fmt.Sprintf("/api/manage/withdrawals/%d/approve", w.ID), nil,
		testutils.RequestWithUser(admin, app),
	)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var respJSON requestWithdrawalRespSchema
	require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
	assert.Equal(t, "approved", respJSON.Result.Status)
	assert.NotNil(t, respJSON.Result.ProcessedAt)

	balance, err := app.UserService.GetBalance(context.TODO(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", balance.Held.String())
	assert.Equal(t, "100", balance.Withdrawn.String())

	// the decision is final
	resp, _ = testutils.DoTestRequest(
		t, ts, http.MethodPost, fmt.Sprintf("/api/manage/withdrawals/%d/reject", w.ID),
		bytes.NewReader(testutils.MustJSONMarshal(map[string]string{"reason": "changed our mind"})),
		testutils.RequestWithUser(admin, app),
	)
	resp.Body.Close()
	assert.Equal(t, 409, resp.StatusCode)
}

func TestHandler_RejectWithdrawal(t *testing.T) {
	ts, app, cancel := testutils.PrepareTestServer()
	defer cancel()

	u, err := app.UserService.RegisterNewUser(context.TODO(), "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)
	earnBalance(t, app, u, "156.78")
	w1, err := app.WithdrawalService.RequestWithdrawal(
		context.TODO(), u.ID, decimal.RequireFromString("100"), models.PaymentMethodBank, "",
	)
	require.NoError(t, err)
	w2, err := app.WithdrawalService.RequestWithdrawal(
		context.TODO(), u.ID, decimal.RequireFromString("50"), models.PaymentMethodVenmo, "",
	)
	require.NoError(t, err)

	admin := models.User{ID: 9000, Email: "admin@example.com", Role: models.RoleAdmin}

	resp, body := testutils.DoTestRequest(
		t, ts, http.MethodPost, fmt.Sprintf("/api/manage/withdrawals/%d/reject", w1.ID),
		bytes.NewReader(testutils.MustJSONMarshal(map[string]string{"reason": "payment details look off"})),
		testutils.RequestWithUser(admin, app),
	)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var respJSON requestWithdrawalRespSchema
	require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
	assert.Equal(t, "rejected", respJSON.Result.Status)
	assert.Equal(t, "payment details look off", respJSON.Result.RejectionReason)
	assert.NotNil(t, respJSON.Result.ProcessedAt)

	// the reason is optional, a bare rejection works just as well
	resp, body = testutils.DoTestRequest(
		t, ts, http.MethodPost, fmt.Sprintf("/api/manage/withdrawals/%d/reject", w2.ID),
		bytes.NewReader(testutils.MustJSONMarshal(map[string]string{})),
		testutils.RequestWithUser(admin, app),
	)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	respJSON = requestWithdrawalRespSchema{}
	require.NoError(t, json.Unmarshal([]byte(body), &respJSON))
	assert.Equal(t, "rejected", respJSON.Result.Status)
	assert.Equal(t, "", respJSON.Result.RejectionReason)

	// the held amounts go back to the user
	balance, err := app.UserService.GetBalance(context.TODO(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "156.78", balance.Current.String())
	assert.Equal(t, "0", balance.Held.String())
}

func TestHandler_ManageWithdrawals_RequiresAdminRole(t *testing.T) {
	ts, app, cancel := testutils.PrepareTestServer()
	defer cancel()

	u, err := app.UserService.RegisterNewUser(context.TODO(), "Sarah", "sarah@example.com", "str0ng", "")
	require.NoError(t, err)

	resp, _ := testutils.DoTestRequest(
		t, ts, http.MethodGet, "/api/manage/withdrawals", nil,
		testutils.RequestWithUser(u, app),
	)
	resp.Body.Close()
	assert.Equal(t, 403, resp.StatusCode)

	// withdrawal decisions belong to the admin console,
	// the manager role is not enough
	manager := models.User{ID: 9001, Email: "manager@example.com", Role: models.RoleManager}
	resp, _ = testutils.DoTestRequest(
		t, ts, http.MethodGet, "/api/manage/withdrawals", nil,
		testutils.RequestWithUser(manager, app),
	)
	resp.Body.Close()
	assert.Equal(t, 403, resp.StatusCode)

	resp, _ = testutils.DoTestRequest(t, ts, http.MethodGet, "/api/manage/withdrawals", nil)
	resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}
