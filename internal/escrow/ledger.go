package escrow

import "time"

// Ledger is the deposit bookkeeping of one escrow instance.
//
// Ledger makes no authorization or lifecycle decisions and is not safe for
// concurrent use; the Controller serializes access to it.
type Ledger struct {
	deposits []Deposit
	final    []Deposit
	settled  bool
	platform PlatformAccount
}

// Redistribution describes the outcome of one expulsion
type Redistribution struct {
	PayerID     Key   `json:"payer_id"`
	Expelled    int64 `json:"expelled_amount"`
	Share       int64 `json:"share"`
	Recipients  int   `json:"recipients"`
	PlatformCut int64 `json:"platform_cut"`
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds a deposit record
func (l *Ledger) Append(d Deposit) {
	l.deposits = append(l.deposits, d)
}

// Count returns the number of records, zeroed ones included
func (l *Ledger) Count() int {
	return len(l.deposits)
}

// HasActive reports whether payer holds a record with a nonzero amount
func (l *Ledger) HasActive(payer Key) bool {
	for _, d := range l.deposits {
		if d.PayerID == payer && d.Amount != 0 {
			return true
		}
	}
	return false
}

// AmountOf returns payer's outstanding amount, 0 if there is no record
func (l *Ledger) AmountOf(payer Key) int64 {
	if i := l.find(payer); i >= 0 {
		return l.deposits[i].Amount
	}
	return 0
}

// Total returns the sum of all outstanding amounts
func (l *Ledger) Total() int64 {
	var total int64
	for _, d := range l.deposits {
		total += d.Amount
	}
	return total
}

// find returns the payer's nonzero record, else its most recent record, else -1
func (l *Ledger) find(payer Key) int {
	last := -1
	for i, d := range l.deposits {
		if d.PayerID != payer {
			continue
		}
		if d.Amount != 0 {
			return i
		}
		last = i
	}
	return last
}

// RedistributeExpelled zeroes payer's record and spreads its amount over the
// remaining nonzero records according to policy. Whatever the policy does
// not hand out goes to the platform.
func (l *Ledger) RedistributeExpelled(groupID, payer Key, policy RedistributionPolicy, now time.Time) (*Redistribution, error) {
	idx := l.find(payer)
	if idx < 0 {
		return nil, ErrPayerNotFound
	}
	if l.deposits[idx].Amount == 0 {
		return nil, ErrAlreadyZero
	}

	amount := l.deposits[idx].Amount
	remaining := 0
	for i, d := range l.deposits {
		if i != idx && d.Amount != 0 {
			remaining++
		}
	}

	share, cut := policy.Split(amount, remaining)

	l.deposits[idx].Amount = 0
	l.deposits[idx].Expelled = true
	for i := range l.deposits {
		if i != idx && l.deposits[i].Amount != 0 {
			l.deposits[i].Amount += share
		}
	}
	l.credit(FlowEntry{
		GroupID:      groupID,
		Counterparty: payer.String(),
		Reason:       ReasonExpulsion,
		Amount:       cut,
		Timestamp:    now,
	})

	return &Redistribution{
		PayerID:     payer,
		Expelled:    amount,
		Share:       share,
		Recipients:  remaining,
		PlatformCut: cut,
	}, nil
}

// ForfeitAll moves every outstanding amount to the platform and returns the
// total. Nothing is logged when there is nothing to forfeit.
func (l *Ledger) ForfeitAll(groupID Key, reason string, now time.Time) int64 {
	var total int64
	for i := range l.deposits {
		total += l.deposits[i].Amount
		l.deposits[i].Amount = 0
	}
	if total == 0 {
		return 0
	}
	l.credit(FlowEntry{
		GroupID:      groupID,
		Counterparty: "all participants",
		Reason:       reason,
		Amount:       total,
		Timestamp:    now,
	})
	return total
}

// Withdraw zeroes payer's record, returning at most refundCap to the payer.
// The rest of the record is credited to the platform.
func (l *Ledger) Withdraw(groupID, payer Key, refundCap int64, now time.Time) (refund, cut int64, err error) {
	idx := l.find(payer)
	if idx < 0 {
		return 0, 0, ErrPayerNotFound
	}
	amount := l.deposits[idx].Amount
	if amount == 0 {
		return 0, 0, ErrAlreadyZero
	}

	refund = min(refundCap, amount)
	cut = amount - refund
	l.deposits[idx].Amount = 0
	if cut > 0 {
		l.credit(FlowEntry{
			GroupID:      groupID,
			Counterparty: payer.String(),
			Reason:       ReasonMidtermWithdraw,
			Amount:       cut,
			Timestamp:    now,
		})
	}
	return refund, cut, nil
}

// SettleFinal snapshots the records into the write-once final list and zeroes them
func (l *Ledger) SettleFinal() ([]Deposit, error) {
	if l.settled {
		return nil, ErrAlreadySettled
	}
	l.final = append([]Deposit{}, l.deposits...)
	l.settled = true
	for i := range l.deposits {
		l.deposits[i].Amount = 0
	}
	return l.ListFinal()
}

// ListActive returns a copy of the current records
func (l *Ledger) ListActive() []Deposit {
	return append([]Deposit{}, l.deposits...)
}

// ListFinal returns a copy of the settled records
func (l *Ledger) ListFinal() ([]Deposit, error) {
	if !l.settled {
		return nil, ErrNotYetSettled
	}
	return append([]Deposit{}, l.final...), nil
}

// Platform returns a copy of the platform account
func (l *Ledger) Platform() PlatformAccount {
	return l.platform.clone()
}

// WithdrawBalance zeroes the platform balance and returns what it held
func (l *Ledger) WithdrawBalance() (int64, error) {
	if l.platform.Balance == 0 {
		return 0, ErrZeroBalance
	}
	amount := l.platform.Balance
	l.platform.Balance = 0
	return amount, nil
}

func (l *Ledger) credit(entry FlowEntry) {
	l.platform.Balance += entry.Amount
	l.platform.FlowLog = append(l.platform.FlowLog, entry)
}
