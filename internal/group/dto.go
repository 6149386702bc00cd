package group

import (
	"time"

	"github.com/fkhayef/groupescrow/internal/escrow"
)

const day = 24 * time.Hour

// CreateEscrowRequest represents the request to open and initialize an
// escrow for a group. Either deadline or group_period_days is required.
type CreateEscrowRequest struct {
	GroupID          string     `json:"group_id" validate:"required"`
	LeaderID         string     `json:"leader_id" validate:"required"`
	Capacity         int        `json:"capacity" validate:"required,min=1"`
	DepositPerPerson int64      `json:"deposit_per_person" validate:"min=0"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	GroupPeriodDays  int        `json:"group_period_days,omitempty"`

	// Defaults to deposit_per_person
	MidtermRefundAmount *int64 `json:"midterm_refund_amount,omitempty"`

	RecruitmentDeadline      *time.Time `json:"recruitment_deadline,omitempty"`
	RecruitmentPeriodDays    int        `json:"recruitment_period_days,omitempty"`
	MinimumAttendance        int        `json:"minimum_attendance,omitempty"`
	MinimumMissionCompletion int        `json:"minimum_mission_completion,omitempty"`
}

// ToConfig validates the identifiers and converts the request to an
// escrow.Config
func (req *CreateEscrowRequest) ToConfig() (escrow.Config, error) {
	groupID, err := escrow.ParseKey(req.GroupID)
	if err != nil {
		return escrow.Config{}, err
	}
	leaderID, err := escrow.ParseKey(req.LeaderID)
	if err != nil {
		return escrow.Config{}, err
	}

	cfg := escrow.Config{
		LeaderID:                 leaderID,
		GroupID:                  groupID,
		Capacity:                 req.Capacity,
		DepositPerPerson:         req.DepositPerPerson,
		GroupPeriod:              time.Duration(req.GroupPeriodDays) * day,
		MidtermRefundAmount:      req.MidtermRefundAmount,
		RecruitmentPeriod:        time.Duration(req.RecruitmentPeriodDays) * day,
		MinimumAttendance:        req.MinimumAttendance,
		MinimumMissionCompletion: req.MinimumMissionCompletion,
	}
	if req.Deadline != nil {
		cfg.Deadline = *req.Deadline
	}
	if req.RecruitmentDeadline != nil {
		cfg.RecruitmentDeadline = *req.RecruitmentDeadline
	}

	return cfg, nil
}

// PaymentRequest represents a deposit relayed for a participant
type PaymentRequest struct {
	PayerID    string `json:"payer_id" validate:"required"`
	Amount     int64  `json:"amount" validate:"required"`
	PledgeNote string `json:"pledge_note,omitempty"`
}

// PayerRequest names the participant an operation applies to
type PayerRequest struct {
	PayerID string `json:"payer_id" validate:"required"`
}

// ForfeitRequest represents the request to forfeit every deposit
type ForfeitRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StatusResponse reports the group status after an operation
type StatusResponse struct {
	Status escrow.GroupStatus `json:"status"`
}

// CompletionResponse reports whether a participant's deposit is intact
type CompletionResponse struct {
	PayerID   string `json:"payer_id"`
	Completed bool   `json:"completed"`
}

// AmountResponse reports an amount moved by an operation
type AmountResponse struct {
	Amount int64 `json:"amount"`
}

// DepositsResponse lists deposit records
type DepositsResponse struct {
	Deposits []escrow.Deposit `json:"deposits"`
	Total    int64            `json:"total"`
}

// NewDepositsResponse sums the listed deposits
func NewDepositsResponse(deposits []escrow.Deposit) *DepositsResponse {
	resp := &DepositsResponse{Deposits: deposits}
	if resp.Deposits == nil {
		resp.Deposits = []escrow.Deposit{}
	}
	for _, d := range deposits {
		resp.Total += d.Amount
	}
	return resp
}
