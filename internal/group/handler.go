package group

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/pkg/middleware"
	"github.com/fkhayef/groupescrow/pkg/response"
)

// Handler handles HTTP requests for escrow operations
type Handler struct {
	service *Service
}

// NewHandler creates a new escrow handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for escrow endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{groupId}", h.GetContract)

	// Deposits
	r.Post("/{groupId}/payments", h.RecordPayment)
	r.Get("/{groupId}/payments/{payerId}", h.CheckCompletion)
	r.Get("/{groupId}/deposits", h.ListActive)
	r.Get("/{groupId}/deposits/final", h.ListFinal)

	// Redistribution and settlement
	r.Post("/{groupId}/expulsions", h.RedistributeExpelled)
	r.Post("/{groupId}/refunds", h.RefundMidterm)
	r.Post("/{groupId}/forfeit", h.ForfeitAll)
	r.Post("/{groupId}/settle", h.SettleFinal)

	// Lifecycle
	r.Post("/{groupId}/end", h.AdvanceToEnded)
	r.Post("/{groupId}/stop", h.Stop)

	// Platform revenue
	r.Get("/{groupId}/platform", h.GetPlatformAccount)
	r.Post("/{groupId}/platform/withdraw", h.WithdrawPlatformRevenue)

	return r
}

// Create handles POST /escrows
// @Summary      Open an escrow
// @Description  Create the escrow instance for a group and set its contract
// @Tags         escrows
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        request body CreateEscrowRequest true "Escrow contract"
// @Success      201 {object} response.APIResponse{data=escrow.GroupContract}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCallerID(r.Context())
	if !ok {
		response.Unauthorized(w, "Caller identity required")
		return
	}

	var req CreateEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	cfg, err := req.ToConfig()
	if err != nil {
		h.fail(w, err)
		return
	}

	receipt, err := h.service.Create(r.Context(), caller, cfg)
	if err != nil {
		h.fail(w, err)
		return
	}

	response.Accepted(w, http.StatusCreated, receipt.Outcome.Token(), receipt.TxID, receipt.Value)
}

// GetContract handles GET /escrows/{groupId}
// @Summary      Get contract
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=escrow.GroupContract}
// @Failure      404 {object} response.APIResponse
// @Router       /escrows/{groupId} [get]
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.GetContract{}, http.StatusOK, nil)
}

// RecordPayment handles POST /escrows/{groupId}/payments
// @Summary      Record a deposit
// @Description  Record a participant's deposit. The group starts when it reaches capacity.
// @Tags         escrows
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Param        request body PaymentRequest true "Deposit"
// @Success      201 {object} response.APIResponse{data=StatusResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	payerID, err := escrow.ParseKey(req.PayerID)
	if err != nil {
		h.fail(w, err)
		return
	}

	op := escrow.RecordPayment{PayerID: payerID, Amount: req.Amount, PledgeNote: req.PledgeNote}
	h.run(w, r, op, http.StatusCreated, statusView)
}

// CheckCompletion handles GET /escrows/{groupId}/payments/{payerId}
// @Summary      Check a participant's deposit
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Param        payerId path string true "Hashed participant id"
// @Success      200 {object} response.APIResponse{data=CompletionResponse}
// @Router       /escrows/{groupId}/payments/{payerId} [get]
func (h *Handler) CheckCompletion(w http.ResponseWriter, r *http.Request) {
	payerID, err := escrow.ParseKey(chi.URLParam(r, "payerId"))
	if err != nil {
		response.BadRequest(w, "Invalid payer ID")
		return
	}

	h.run(w, r, escrow.CheckCompletion{PayerID: payerID}, http.StatusOK, func(v any) any {
		return &CompletionResponse{PayerID: payerID.String(), Completed: v.(bool)}
	})
}

// ListActive handles GET /escrows/{groupId}/deposits
// @Summary      List deposits
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=DepositsResponse}
// @Router       /escrows/{groupId}/deposits [get]
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.ListActive{}, http.StatusOK, depositsView)
}

// ListFinal handles GET /escrows/{groupId}/deposits/final
// @Summary      List settled deposits
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=DepositsResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/deposits/final [get]
func (h *Handler) ListFinal(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.ListFinal{}, http.StatusOK, depositsView)
}

// RedistributeExpelled handles POST /escrows/{groupId}/expulsions
// @Summary      Expel a participant
// @Description  Split the expelled participant's deposit among the remaining participants
// @Tags         escrows
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Param        request body PayerRequest true "Participant"
// @Success      200 {object} response.APIResponse{data=escrow.Redistribution}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/expulsions [post]
func (h *Handler) RedistributeExpelled(w http.ResponseWriter, r *http.Request) {
	payerID, ok := decodePayer(w, r)
	if !ok {
		return
	}
	h.run(w, r, escrow.RedistributeExpelled{PayerID: payerID}, http.StatusOK, nil)
}

// RefundMidterm handles POST /escrows/{groupId}/refunds
// @Summary      Refund a leaving participant
// @Tags         escrows
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Param        request body PayerRequest true "Participant"
// @Success      200 {object} response.APIResponse{data=AmountResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/refunds [post]
func (h *Handler) RefundMidterm(w http.ResponseWriter, r *http.Request) {
	payerID, ok := decodePayer(w, r)
	if !ok {
		return
	}
	h.run(w, r, escrow.RefundMidterm{PayerID: payerID}, http.StatusOK, amountView)
}

// ForfeitAll handles POST /escrows/{groupId}/forfeit
// @Summary      Forfeit every deposit to the platform
// @Tags         escrows
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Param        request body ForfeitRequest false "Reason"
// @Success      200 {object} response.APIResponse{data=AmountResponse}
// @Router       /escrows/{groupId}/forfeit [post]
func (h *Handler) ForfeitAll(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req ForfeitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}
	h.run(w, r, escrow.ForfeitAll{Reason: req.Reason}, http.StatusOK, amountView)
}

// SettleFinal handles POST /escrows/{groupId}/settle
// @Summary      Freeze the final deposit list
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=DepositsResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/settle [post]
func (h *Handler) SettleFinal(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.SettleFinal{}, http.StatusOK, depositsView)
}

// AdvanceToEnded handles POST /escrows/{groupId}/end
// @Summary      End the group after its deadline
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/end [post]
func (h *Handler) AdvanceToEnded(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.AdvanceToEnded{}, http.StatusOK, statusView)
}

// Stop handles POST /escrows/{groupId}/stop
// @Summary      Stop the escrow
// @Description  Make the instance read only. Refused while the group is running.
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/stop [post]
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.Stop{}, http.StatusOK, nil)
}

// GetPlatformAccount handles GET /escrows/{groupId}/platform
// @Summary      Get platform revenue
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=escrow.PlatformAccount}
// @Failure      403 {object} response.APIResponse
// @Router       /escrows/{groupId}/platform [get]
func (h *Handler) GetPlatformAccount(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.GetPlatformAccount{}, http.StatusOK, nil)
}

// WithdrawPlatformRevenue handles POST /escrows/{groupId}/platform/withdraw
// @Summary      Withdraw platform revenue
// @Tags         escrows
// @Produce      json
// @Param        X-Caller-ID header string true "Caller identity"
// @Param        groupId path string true "Hashed group id"
// @Success      200 {object} response.APIResponse{data=AmountResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /escrows/{groupId}/platform/withdraw [post]
func (h *Handler) WithdrawPlatformRevenue(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, escrow.WithdrawPlatformRevenue{}, http.StatusOK, amountView)
}

// run executes op on the group named in the path and writes the result.
// render shapes the operation value for the response body.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, op escrow.Operation, status int, render func(any) any) {
	groupID, err := escrow.ParseKey(chi.URLParam(r, "groupId"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	caller, ok := middleware.GetCallerID(r.Context())
	if !ok {
		response.Unauthorized(w, "Caller identity required")
		return
	}

	receipt, err := h.service.Execute(r.Context(), groupID, caller, op)
	if err != nil {
		h.fail(w, err)
		return
	}

	data := receipt.Value
	if render != nil {
		data = render(receipt.Value)
	}
	response.Accepted(w, status, receipt.Outcome.Token(), receipt.TxID, data)
}

// fail maps service errors to HTTP responses
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrGroupExists), errors.Is(err, ErrConcurrentUpdate):
		response.Conflict(w, err.Error())
	case errors.Is(err, escrow.ErrUnauthorized):
		response.Rejected(w, http.StatusForbidden, escrow.Code(err), err.Error())
	case errors.Is(err, escrow.ErrPayerNotFound), errors.Is(err, escrow.ErrNotInitialized):
		response.Rejected(w, http.StatusNotFound, escrow.Code(err), err.Error())
	case errors.Is(err, escrow.ErrInvalidKey),
		errors.Is(err, escrow.ErrInvalidConfig),
		errors.Is(err, escrow.ErrAmountMismatch):
		response.Rejected(w, http.StatusBadRequest, escrow.Code(err), err.Error())
	case escrow.IsRejection(err):
		response.Rejected(w, http.StatusConflict, escrow.Code(err), err.Error())
	default:
		log.Errorw("escrow request failed", "error", err)
		response.InternalError(w, "Failed to process escrow operation")
	}
}

func decodePayer(w http.ResponseWriter, r *http.Request) (escrow.Key, bool) {
	var req PayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return "", false
	}

	payerID, err := escrow.ParseKey(req.PayerID)
	if err != nil {
		response.Rejected(w, http.StatusBadRequest, escrow.Code(err), err.Error())
		return "", false
	}
	return payerID, true
}

func statusView(v any) any {
	return &StatusResponse{Status: v.(escrow.GroupStatus)}
}

func amountView(v any) any {
	return &AmountResponse{Amount: v.(int64)}
}

func depositsView(v any) any {
	return NewDepositsResponse(v.([]escrow.Deposit))
}
