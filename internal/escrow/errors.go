package escrow

import "errors"

// Authorization and lifecycle errors
var (
	ErrUnauthorized       = errors.New("caller is not the owner")
	ErrInactive           = errors.New("escrow is stopped, read only")
	ErrAlreadyInitialized = errors.New("group contract already initialized")
	ErrNotInitialized     = errors.New("group contract not initialized")
	ErrInvalidConfig      = errors.New("invalid group contract configuration")
	ErrInvalidKey         = errors.New("invalid identifier")
)

// Ledger validation errors
var (
	ErrAmountMismatch   = errors.New("deposit amount does not match the contract")
	ErrDuplicatePayment = errors.New("payer already paid the deposit")
	ErrCapacityReached  = errors.New("all participants already paid the deposit")
	ErrPayerNotFound    = errors.New("payer has no deposit record")
	ErrAlreadyZero      = errors.New("deposit payer balance is already 0")
)

// State machine errors
var (
	ErrNotYetDue                = errors.New("group deadline has not passed")
	ErrAlreadyEnded             = errors.New("group already ended")
	ErrGroupStillRunning        = errors.New("group is running")
	ErrUnsettledPlatformBalance = errors.New("platform balance must be withdrawn before stopping")
)

// Finalization and payout errors
var (
	ErrAlreadySettled = errors.New("final deposits already settled")
	ErrNotYetSettled  = errors.New("final deposits not settled yet")
	ErrZeroBalance    = errors.New("platform balance is zero")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrInactive, "INACTIVE"},
	{ErrAlreadyInitialized, "ALREADY_INITIALIZED"},
	{ErrNotInitialized, "NOT_INITIALIZED"},
	{ErrInvalidConfig, "INVALID_CONFIG"},
	{ErrInvalidKey, "INVALID_KEY"},
	{ErrAmountMismatch, "AMOUNT_MISMATCH"},
	{ErrDuplicatePayment, "DUPLICATE_PAYMENT"},
	{ErrCapacityReached, "CAPACITY_REACHED"},
	{ErrPayerNotFound, "PAYER_NOT_FOUND"},
	{ErrAlreadyZero, "ALREADY_ZERO"},
	{ErrNotYetDue, "NOT_YET_DUE"},
	{ErrAlreadyEnded, "ALREADY_ENDED"},
	{ErrGroupStillRunning, "GROUP_STILL_RUNNING"},
	{ErrUnsettledPlatformBalance, "UNSETTLED_PLATFORM_BALANCE"},
	{ErrAlreadySettled, "ALREADY_SETTLED"},
	{ErrNotYetSettled, "NOT_YET_SETTLED"},
	{ErrZeroBalance, "ZERO_BALANCE"},
}

// Code returns the stable rejection code for err, or "" if err is not
// one of the escrow rejections.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// IsRejection reports whether err is a synchronous escrow rejection.
// Rejections leave the instance unchanged.
func IsRejection(err error) bool {
	return Code(err) != ""
}
