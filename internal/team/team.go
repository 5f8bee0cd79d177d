// Package team holds the 1Password team user model and the license
// accounting rules derived from it.
package team

// Account states reported by `op user list`. The set is open: 1Password can
// add states without notice, so nothing here should treat it as exhaustive.
const (
	StateActive          = "ACTIVE"
	StateRecoveryStarted = "RECOVERY_STARTED"
	StateSuspended       = "SUSPENDED"
	StateDeleted         = "DELETED"
	StateTransferPending = "TRANSFER_PENDING"
)

// User is a single team member as returned by the op CLI. Fields are
// re-emitted as-is; opteam never mutates them.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// DefaultLicensedStates returns the states that consume a seat license.
// Recovery counts because the seat is still allocated while the user
// recovers their account.
func DefaultLicensedStates() []string {
	return []string{StateActive, StateRecoveryStarted}
}

// StateSet is a membership set over account states. Matching is exact and
// case-sensitive.
type StateSet map[string]struct{}

// NewStateSet builds a StateSet from a list of states.
func NewStateSet(states []string) StateSet {
	set := make(StateSet, len(states))
	for _, s := range states {
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether state is a member of the set.
func (s StateSet) Contains(state string) bool {
	_, ok := s[state]
	return ok
}

// CountLicensed returns the number of users whose state is in the licensed
// set. Total over any input, including nil.
func CountLicensed(users []User, licensed StateSet) int {
	n := 0
	for _, u := range users {
		if licensed.Contains(u.State) {
			n++
		}
	}
	return n
}

// FilterByState returns the users whose state matches exactly, preserving
// input order.
func FilterByState(users []User, state string) []User {
	var out []User
	for _, u := range users {
		if u.State == state {
			out = append(out, u)
		}
	}
	return out
}

// Summary is the license accounting result for one run.
type Summary struct {
	Used  int `json:"used"`
	Total int `json:"total"`
}

// NewSummary computes the summary for a user list against a licensed-state
// set and an allocated total.
func NewSummary(users []User, licensed StateSet, total int) Summary {
	return Summary{Used: CountLicensed(users, licensed), Total: total}
}

// OverLimit reports whether usage exceeds the allocation. Equality is within
// limit.
func (s Summary) OverLimit() bool {
	return s.Used > s.Total
}

// Overage returns how many seats over the allocation usage is, or 0 when
// within limit.
func (s Summary) Overage() int {
	if s.Used > s.Total {
		return s.Used - s.Total
	}
	return 0
}

// Available returns the remaining headroom, or 0 when over the limit.
func (s Summary) Available() int {
	if s.Total > s.Used {
		return s.Total - s.Used
	}
	return 0
}

// UsedPercent returns usage as a percentage of the allocation, clamped to
// 0-100 for rendering.
func (s Summary) UsedPercent() int {
	if s.Total <= 0 {
		return 100
	}
	pct := s.Used * 100 / s.Total
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
