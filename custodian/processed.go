package custodian

import "github.com/owlprotocol/denote-workspace-sub000/ledger"

// ProcessedSet records the requests this process has approved and accepted.
// It only grows and is not safe for concurrent use; the dispatcher that owns
// it is its only user.
type ProcessedSet struct {
	ids map[ledger.ContractID]struct{}
}

// NewProcessedSet returns an empty set.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{ids: make(map[ledger.ContractID]struct{})}
}

// Contains reports whether cid was processed.
func (s *ProcessedSet) Contains(cid ledger.ContractID) bool {
	_, ok := s.ids[cid]
	return ok
}

// Add marks cid as processed.
func (s *ProcessedSet) Add(cid ledger.ContractID) {
	s.ids[cid] = struct{}{}
}

// Len returns the number of processed requests.
func (s *ProcessedSet) Len() int {
	return len(s.ids)
}
