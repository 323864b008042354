package editor

import "sync"

// AIQuotaGate tracks, per candidate, whether bulk AI section generation has
// been used. The store lives only for the editing session; it is seeded from
// the persisted aiGenerationUsed flag when a saved set is loaded.
type AIQuotaGate struct {
	mu   sync.Mutex
	used map[string]bool
}

// NewAIQuotaGate creates an empty quota store.
func NewAIQuotaGate() *AIQuotaGate {
	return &AIQuotaGate{used: make(map[string]bool)}
}

// Seed records the persisted quota state for a candidate.
func (g *AIQuotaGate) Seed(candidateID string, used bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used[candidateID] = used
}

// Used reports whether bulk generation has been consumed for a candidate.
func (g *AIQuotaGate) Used(candidateID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used[candidateID]
}

// Consume marks the quota as used, failing if it already was.
func (g *AIQuotaGate) Consume(candidateID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.used[candidateID] {
		return &QuotaError{CandidateID: candidateID}
	}
	g.used[candidateID] = true
	return nil
}

// Clear removes a candidate's entry, re-allowing bulk generation after the
// stored set is deleted.
func (g *AIQuotaGate) Clear(candidateID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.used, candidateID)
}
