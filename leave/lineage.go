/*
lineage.go - Chain reconstruction and live-record resolution

PURPOSE:
  Every logical request is represented in the ledger as a chain of records
  linked by OriginalID: create -> update* -> cancel?. A cancellation or a
  rejected edit is itself a new row, so per-row filtering cannot tell live
  state from superseded state. This file is the ONE place that logic lives;
  the calendar, dashboard, per-employee schedule and org-wide schedule all
  call the same resolver.

ALGORITHM:
  1. Index records by ID and by parent pointer.
  2. Walk each record's parent pointers to its chain root. The walk stops
     defensively when a parent is missing from the input set (e.g. already
     purged) and treats the last reachable record as the root.
  3. Group records by root, order each group by CreatedAt descending
     (ties broken by ID descending), and take the first as the chain's
     current state.
  4. Drop the chain entirely when the current state is a cancel record or
     carries a rejected/cancelled status.

  The input must be the FULL record set for an owner or cohort - no date
  filtering - because a chain's root may fall outside any display window.

SEE ALSO:
  - balance.go: consumes the resolved live set
  - types.go: LeaveRequest / OvertimeRequest shapes
*/
package leave

import (
	"sort"
	"time"
)

// =============================================================================
// CHAIN RECORD - what the resolver needs from a ledger record
// =============================================================================

// ChainRecord is implemented by both LeaveRequest and OvertimeRequest.
type ChainRecord interface {
	ChainID() RequestID
	ChainParent() *RequestID
	ChainStatus() Status
	ChainRequestType() RequestType
	ChainCreatedAt() time.Time
}

func (r LeaveRequest) ChainID() RequestID           { return r.ID }
func (r LeaveRequest) ChainParent() *RequestID      { return r.OriginalID }
func (r LeaveRequest) ChainStatus() Status          { return r.Status }
func (r LeaveRequest) ChainRequestType() RequestType { return r.RequestType }
func (r LeaveRequest) ChainCreatedAt() time.Time    { return r.CreatedAt }

func (r OvertimeRequest) ChainID() RequestID           { return r.ID }
func (r OvertimeRequest) ChainParent() *RequestID      { return r.OriginalID }
func (r OvertimeRequest) ChainStatus() Status          { return r.Status }
func (r OvertimeRequest) ChainRequestType() RequestType { return r.RequestType }
func (r OvertimeRequest) ChainCreatedAt() time.Time    { return r.CreatedAt }

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveLive reduces a flat record set to one live record per chain.
// Chains whose current state is a cancel record, or whose status is
// rejected or cancelled, contribute nothing. Surviving records keep their
// own status (pending/approved) for downstream filtering.
func ResolveLive[T ChainRecord](records []T) []T {
	current := ResolveCurrent(records)

	live := make([]T, 0, len(current))
	for _, r := range current {
		if Excluded(r) {
			continue
		}
		live = append(live, r)
	}
	return live
}

// ResolveCurrent returns the current-state record of every chain, one per
// chain, WITHOUT applying the exclusion rule. Used by audit views that
// need to show cancelled chains.
func ResolveCurrent[T ChainRecord](records []T) []T {
	byID := make(map[RequestID]T, len(records))
	for _, r := range records {
		byID[r.ChainID()] = r
	}

	groups := make(map[RequestID][]T)
	for _, r := range records {
		root := rootOf(r, byID)
		groups[root] = append(groups[root], r)
	}

	roots := make([]RequestID, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	// Deterministic output order: by root id.
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	current := make([]T, 0, len(groups))
	for _, root := range roots {
		group := groups[root]
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if !a.ChainCreatedAt().Equal(b.ChainCreatedAt()) {
				return a.ChainCreatedAt().After(b.ChainCreatedAt())
			}
			// Identical timestamps: fall back to ID ordering so resolution
			// stays deterministic.
			return a.ChainID() > b.ChainID()
		})
		current = append(current, group[0])
	}
	return current
}

// ChainOf returns every record belonging to the same chain as id, ordered
// oldest to newest. Returns nil when id is not in the set.
func ChainOf[T ChainRecord](records []T, id RequestID) []T {
	byID := make(map[RequestID]T, len(records))
	for _, r := range records {
		byID[r.ChainID()] = r
	}
	target, ok := byID[id]
	if !ok {
		return nil
	}
	root := rootOf(target, byID)

	var chain []T
	for _, r := range records {
		if rootOf(r, byID) == root {
			chain = append(chain, r)
		}
	}
	sort.Slice(chain, func(i, j int) bool {
		a, b := chain[i], chain[j]
		if !a.ChainCreatedAt().Equal(b.ChainCreatedAt()) {
			return a.ChainCreatedAt().Before(b.ChainCreatedAt())
		}
		return a.ChainID() < b.ChainID()
	})
	return chain
}

// Excluded is the single exclusion rule shared by every read path: the
// chain does not exist when its current record is a cancel, was rejected,
// or was cancelled.
func Excluded(r ChainRecord) bool {
	return r.ChainRequestType() == RequestCancel ||
		r.ChainStatus() == StatusRejected ||
		r.ChainStatus() == StatusCancelled
}

// rootOf walks parent pointers to the chain root. A parent missing from
// the set stops the walk: the orphaned record acts as its own root. Cycle
// protection via the seen set; a corrupted cycle resolves at the first
// revisited record.
func rootOf[T ChainRecord](r T, byID map[RequestID]T) RequestID {
	seen := map[RequestID]bool{r.ChainID(): true}
	cur := r
	for {
		parent := cur.ChainParent()
		if parent == nil {
			return cur.ChainID()
		}
		next, ok := byID[*parent]
		if !ok || seen[*parent] {
			return cur.ChainID()
		}
		seen[*parent] = true
		cur = next
	}
}
