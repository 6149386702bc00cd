package escrow

import "time"

// GroupStatus represents the lifecycle stage of a group
type GroupStatus string

const (
	GroupStatusPending GroupStatus = "PENDING"
	GroupStatusStarted GroupStatus = "STARTED"
	GroupStatusEnded   GroupStatus = "ENDED"
)

// Flow log reasons
const (
	ReasonExpulsion       = "expulsion"
	ReasonMidtermWithdraw = "midterm withdrawal"
)

// GroupContract is the configuration of one escrow agreement
type GroupContract struct {
	LeaderID         Key         `json:"leader_id"`
	GroupID          Key         `json:"group_id"`
	Capacity         int         `json:"capacity"`
	DepositPerPerson int64       `json:"deposit_per_person"`
	Deadline         time.Time   `json:"deadline"`
	Status           GroupStatus `json:"status"`

	// Amount returned to a participant who leaves before the group ends
	MidtermRefundAmount int64 `json:"midterm_refund_amount"`

	// Informational terms carried from the group's registration
	RecruitmentDeadline      time.Time `json:"recruitment_deadline,omitempty"`
	MinimumAttendance        int       `json:"minimum_attendance"`
	MinimumMissionCompletion int       `json:"minimum_mission_completion"`
}

// Config holds the parameters of Initialize.
//
// Deadline may be given as an absolute time or as GroupPeriod relative to
// the controller clock; Deadline wins when both are set. The same applies to
// RecruitmentDeadline and RecruitmentPeriod.
type Config struct {
	LeaderID         Key
	GroupID          Key
	Capacity         int
	DepositPerPerson int64
	Deadline         time.Time
	GroupPeriod      time.Duration

	// Nil means DepositPerPerson
	MidtermRefundAmount *int64

	RecruitmentDeadline      time.Time
	RecruitmentPeriod        time.Duration
	MinimumAttendance        int
	MinimumMissionCompletion int
}

// Deposit is one participant's payment record
type Deposit struct {
	PayerID    Key       `json:"payer_id"`
	PledgeNote string    `json:"pledge_note,omitempty"`
	Amount     int64     `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
	Expelled   bool      `json:"expelled"`
}

// FlowEntry records one revenue-affecting event on the platform account
type FlowEntry struct {
	GroupID      Key       `json:"group_id"`
	Counterparty string    `json:"counterparty"`
	Reason       string    `json:"reason"`
	Amount       int64     `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// PlatformAccount is the platform's revenue balance and its flow log
type PlatformAccount struct {
	Balance int64       `json:"balance"`
	FlowLog []FlowEntry `json:"flow_log"`
}

func (p PlatformAccount) clone() PlatformAccount {
	return PlatformAccount{
		Balance: p.Balance,
		FlowLog: append([]FlowEntry(nil), p.FlowLog...),
	}
}
