package group

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/pkg/middleware"
)

type apiBody struct {
	Success bool            `json:"success"`
	Outcome string          `json:"outcome"`
	TxID    string          `json:"tx_id"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	f := newFixture(t)
	r := chi.NewRouter()
	r.Use(middleware.CallerMiddleware)
	r.Mount("/escrows", NewHandler(f.service).Routes())
	return r
}

func do(t *testing.T, router http.Handler, method, path string, caller escrow.Key, body any) (int, apiBody) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(middleware.CallerHeader, caller.String())
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out apiBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return rec.Code, out
}

func createRequest() *CreateEscrowRequest {
	return &CreateEscrowRequest{
		GroupID:          groupKey.String(),
		LeaderID:         "leader-01",
		Capacity:         2,
		DepositPerPerson: 100,
		GroupPeriodDays:  30,
	}
}

func TestHandler_Lifecycle(t *testing.T) {
	router := newTestRouter(t)
	base := "/escrows/" + groupKey.String()

	code, body := do(t, router, http.MethodPost, "/escrows", owner, createRequest())
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "201_OK", body.Outcome)
	assert.NotEmpty(t, body.TxID)

	var contract escrow.GroupContract
	require.NoError(t, json.Unmarshal(body.Data, &contract))
	assert.Equal(t, 2, contract.Capacity)
	assert.Equal(t, escrow.GroupStatusPending, contract.Status)

	code, body = do(t, router, http.MethodPost, base+"/payments", owner, PaymentRequest{PayerID: "payer-a", Amount: 100})
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, router, http.MethodPost, base+"/payments", owner, PaymentRequest{PayerID: "payer-b", Amount: 100})
	require.Equal(t, http.StatusCreated, code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.Equal(t, escrow.GroupStatusStarted, status.Status)

	code, body = do(t, router, http.MethodGet, base+"/payments/payer-a", stranger, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "200_OK", body.Outcome)
	assert.Empty(t, body.TxID)
	var completion CompletionResponse
	require.NoError(t, json.Unmarshal(body.Data, &completion))
	assert.True(t, completion.Completed)

	code, body = do(t, router, http.MethodGet, base+"/deposits", stranger, nil)
	require.Equal(t, http.StatusOK, code)
	var deposits DepositsResponse
	require.NoError(t, json.Unmarshal(body.Data, &deposits))
	assert.Len(t, deposits.Deposits, 2)
	assert.Equal(t, int64(200), deposits.Total)

	code, body = do(t, router, http.MethodPost, base+"/stop", owner, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "400_FAIL", body.Outcome)
	assert.Equal(t, "GROUP_STILL_RUNNING", body.Error.Code)

	code, body = do(t, router, http.MethodPost, base+"/settle", owner, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &deposits))
	assert.Equal(t, int64(200), deposits.Total)

	code, body = do(t, router, http.MethodGet, base+"/deposits/final", stranger, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &deposits))
	assert.Len(t, deposits.Deposits, 2)

	code, body = do(t, router, http.MethodPost, base+"/settle", owner, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_SETTLED", body.Error.Code)
}

func TestHandler_Forfeit(t *testing.T) {
	router := newTestRouter(t)
	base := "/escrows/" + groupKey.String()

	code, _ := do(t, router, http.MethodPost, "/escrows", owner, createRequest())
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, router, http.MethodPost, base+"/payments", owner, PaymentRequest{PayerID: "payer-a", Amount: 100})
	require.Equal(t, http.StatusCreated, code)

	// No body uses the default reason
	code, body := do(t, router, http.MethodPost, base+"/forfeit", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var amount AmountResponse
	require.NoError(t, json.Unmarshal(body.Data, &amount))
	assert.Equal(t, int64(100), amount.Amount)

	code, body = do(t, router, http.MethodGet, base+"/platform", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var platform escrow.PlatformAccount
	require.NoError(t, json.Unmarshal(body.Data, &platform))
	assert.Equal(t, int64(100), platform.Balance)
	require.Len(t, platform.FlowLog, 1)
	assert.Equal(t, escrow.DefaultForfeitReason, platform.FlowLog[0].Reason)

	code, body = do(t, router, http.MethodPost, base+"/platform/withdraw", owner, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &amount))
	assert.Equal(t, int64(100), amount.Amount)

	// Pending group with a zero balance can stop
	code, _ = do(t, router, http.MethodPost, base+"/stop", stranger, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, router, http.MethodPost, base+"/payments", owner, PaymentRequest{PayerID: "payer-b", Amount: 100})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INACTIVE", body.Error.Code)
}

func TestHandler_Rejections(t *testing.T) {
	router := newTestRouter(t)
	base := "/escrows/" + groupKey.String()

	code, _ := do(t, router, http.MethodPost, "/escrows", owner, createRequest())
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name       string
		method     string
		path       string
		caller     escrow.Key
		body       any
		wantStatus int
		wantCode   string
	}{
		{"duplicate create", http.MethodPost, "/escrows", owner, createRequest(), http.StatusConflict, "CONFLICT"},
		{"wrong amount", http.MethodPost, base + "/payments", owner, PaymentRequest{PayerID: "payer-a", Amount: 99}, http.StatusBadRequest, "AMOUNT_MISMATCH"},
		{"payment by stranger", http.MethodPost, base + "/payments", stranger, PaymentRequest{PayerID: "payer-a", Amount: 100}, http.StatusForbidden, "UNAUTHORIZED"},
		{"invalid payer", http.MethodPost, base + "/payments", owner, PaymentRequest{PayerID: "bad payer", Amount: 100}, http.StatusBadRequest, "INVALID_KEY"},
		{"expel unknown payer", http.MethodPost, base + "/expulsions", owner, PayerRequest{PayerID: "payer-z"}, http.StatusNotFound, "PAYER_NOT_FOUND"},
		{"refund unknown payer", http.MethodPost, base + "/refunds", owner, PayerRequest{PayerID: "payer-z"}, http.StatusNotFound, "PAYER_NOT_FOUND"},
		{"platform by stranger", http.MethodGet, base + "/platform", stranger, nil, http.StatusForbidden, "UNAUTHORIZED"},
		{"withdraw empty balance", http.MethodPost, base + "/platform/withdraw", owner, nil, http.StatusConflict, "ZERO_BALANCE"},
		{"end before deadline", http.MethodPost, base + "/end", owner, nil, http.StatusConflict, "NOT_YET_DUE"},
		{"final before settle", http.MethodGet, base + "/deposits/final", owner, nil, http.StatusConflict, "NOT_YET_SETTLED"},
		{"unknown group", http.MethodGet, "/escrows/group-0000", owner, nil, http.StatusNotFound, "NOT_FOUND"},
		{"missing caller", http.MethodGet, base, "", nil, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, router, tt.method, tt.path, tt.caller, tt.body)
			assert.Equal(t, tt.wantStatus, code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestCreateEscrowRequest_ToConfig(t *testing.T) {
	refund := int64(40)
	req := createRequest()
	req.MidtermRefundAmount = &refund
	req.RecruitmentPeriodDays = 7
	req.MinimumAttendance = 80

	cfg, err := req.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, groupKey, cfg.GroupID)
	assert.Equal(t, escrow.Key("leader-01"), cfg.LeaderID)
	assert.Equal(t, 30*day, cfg.GroupPeriod)
	assert.Equal(t, 7*day, cfg.RecruitmentPeriod)
	assert.Equal(t, int64(40), *cfg.MidtermRefundAmount)
	assert.True(t, cfg.Deadline.IsZero())

	req.GroupID = ""
	_, err = req.ToConfig()
	assert.ErrorIs(t, err, escrow.ErrInvalidKey)
}
