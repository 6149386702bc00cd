package escrow

import "fmt"

// Operation is one request against an escrow instance. The set of
// operations is closed: only the types in this file implement it.
type Operation interface {
	// Name is the stable operation name used in logs and the audit trail
	Name() string

	// Mutating reports whether the operation can change the instance
	Mutating() bool

	isOperation()
}

type mutation struct{}

func (mutation) Mutating() bool { return true }
func (mutation) isOperation()   {}

type query struct{}

func (query) Mutating() bool { return false }
func (query) isOperation()   {}

// Initialize sets the group contract
type Initialize struct {
	mutation
	Config Config
}

// RecordPayment records a participant's deposit
type RecordPayment struct {
	mutation
	PayerID    Key
	Amount     int64
	PledgeNote string
}

// AdvanceToEnded ends the group after its deadline
type AdvanceToEnded struct{ mutation }

// Stop makes the instance read only
type Stop struct{ mutation }

// WithdrawPlatformRevenue pays out the platform balance
type WithdrawPlatformRevenue struct{ mutation }

// RedistributeExpelled expels a payer and splits their deposit
type RedistributeExpelled struct {
	mutation
	PayerID Key
}

// ForfeitAll moves every participant balance to the platform
type ForfeitAll struct {
	mutation
	Reason string
}

// SettleFinal writes the final deposit list
type SettleFinal struct{ mutation }

// RefundMidterm lets a payer leave before the group ends
type RefundMidterm struct {
	mutation
	PayerID Key
}

// CheckCompletion asks whether a payer's deposit is confirmed and intact
type CheckCompletion struct {
	query
	PayerID Key
}

// GetContract reads the group contract
type GetContract struct{ query }

// ListActive reads the current deposit records
type ListActive struct{ query }

// ListFinal reads the settled deposit records
type ListFinal struct{ query }

// GetPlatformAccount reads the platform account
type GetPlatformAccount struct{ query }

func (Initialize) Name() string              { return "initialize" }
func (RecordPayment) Name() string           { return "record_payment" }
func (AdvanceToEnded) Name() string          { return "advance_to_ended" }
func (Stop) Name() string                    { return "stop" }
func (WithdrawPlatformRevenue) Name() string { return "withdraw_platform_revenue" }
func (RedistributeExpelled) Name() string    { return "redistribute_expelled" }
func (ForfeitAll) Name() string              { return "forfeit_all" }
func (SettleFinal) Name() string             { return "settle_final" }
func (RefundMidterm) Name() string           { return "refund_midterm" }
func (CheckCompletion) Name() string         { return "check_completion" }
func (GetContract) Name() string             { return "get_contract" }
func (ListActive) Name() string              { return "list_active" }
func (ListFinal) Name() string               { return "list_final" }
func (GetPlatformAccount) Name() string      { return "get_platform_account" }

// Outcome distinguishes query success, mutation success and rejection
type Outcome int

const (
	OutcomeQuery Outcome = iota + 1
	OutcomeMutation
	OutcomeRejected
)

// Token returns the historical response token for the outcome
func (o Outcome) Token() string {
	switch o {
	case OutcomeQuery:
		return "200_OK"
	case OutcomeMutation:
		return "201_OK"
	default:
		return "400_FAIL"
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeQuery:
		return "query"
	case OutcomeMutation:
		return "mutation"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of Execute
type Result struct {
	Operation string
	Outcome   Outcome
	Value     any
	Err       error

	// Set for accepted mutations. Taken right after the mutation, so it
	// reflects at least that mutation.
	Snapshot *Snapshot
}

// OK reports whether the operation was accepted
func (r Result) OK() bool {
	return r.Outcome != OutcomeRejected
}

// Execute dispatches op on behalf of caller
func (c *Controller) Execute(caller Key, op Operation) Result {
	value, err := c.dispatch(caller, op)
	res := Result{Operation: op.Name(), Value: value, Err: err}
	switch {
	case err != nil:
		res.Outcome = OutcomeRejected
		res.Value = nil
	case op.Mutating():
		res.Outcome = OutcomeMutation
		snap := c.Snapshot()
		res.Snapshot = &snap
	default:
		res.Outcome = OutcomeQuery
	}
	return res
}

func (c *Controller) dispatch(caller Key, op Operation) (any, error) {
	switch op := op.(type) {
	case Initialize:
		return c.Initialize(caller, op.Config)
	case RecordPayment:
		return c.RecordPayment(caller, op.PayerID, op.Amount, op.PledgeNote)
	case AdvanceToEnded:
		return c.AdvanceToEnded(caller)
	case Stop:
		return nil, c.Stop(caller)
	case WithdrawPlatformRevenue:
		return c.WithdrawPlatformRevenue(caller)
	case RedistributeExpelled:
		return c.RedistributeExpelled(caller, op.PayerID)
	case ForfeitAll:
		return c.ForfeitAll(caller, op.Reason)
	case SettleFinal:
		return c.SettleFinal(caller)
	case RefundMidterm:
		return c.RefundMidterm(caller, op.PayerID)
	case CheckCompletion:
		return c.CheckCompletion(op.PayerID), nil
	case GetContract:
		return c.Contract()
	case ListActive:
		return c.ListActive(), nil
	case ListFinal:
		return c.ListFinal()
	case GetPlatformAccount:
		return c.PlatformAccount(caller)
	default:
		panic(fmt.Sprintf("escrow: unhandled operation %T", op))
	}
}
