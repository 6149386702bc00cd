package escrow

// Snapshot is a consistent, serializable copy of one escrow instance
type Snapshot struct {
	Owner       Key             `json:"owner"`
	Active      bool            `json:"active"`
	Initialized bool            `json:"initialized"`
	Contract    GroupContract   `json:"contract"`
	Deposits    []Deposit       `json:"deposits"`
	Final       []Deposit       `json:"final,omitempty"`
	Settled     bool            `json:"settled"`
	Platform    PlatformAccount `json:"platform"`
	Version     int64           `json:"version"`
}

// Snapshot copies the instance state under a shared lock
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Owner:       c.owner,
		Active:      c.active,
		Initialized: c.initialized,
		Contract:    c.contract,
		Deposits:    c.ledger.ListActive(),
		Settled:     c.ledger.settled,
		Platform:    c.ledger.Platform(),
		Version:     c.version,
	}
	if c.ledger.settled {
		s.Final = append([]Deposit{}, c.ledger.final...)
	}
	return s
}

// Restore rebuilds a controller from a snapshot
func Restore(s Snapshot, opts ...Option) *Controller {
	c := NewController(s.Owner, opts...)
	c.active = s.Active
	c.initialized = s.Initialized
	c.contract = s.Contract
	if c.contract.Status == "" {
		c.contract.Status = GroupStatusPending
	}
	c.version = s.Version
	c.ledger = &Ledger{
		deposits: append([]Deposit{}, s.Deposits...),
		settled:  s.Settled,
		platform: s.Platform.clone(),
	}
	if s.Settled {
		c.ledger.final = append([]Deposit{}, s.Final...)
	}
	return c
}
