package leads

import "sync"

// AgentRotation hands out sales agent names round-robin. Assignment happens at
// lead creation and is informational only; it never blocks the reply path.
type AgentRotation struct {
	mu     sync.Mutex
	agents []string
	next   int
}

// NewAgentRotation creates a rotation over the configured agent names.
func NewAgentRotation(agents []string) *AgentRotation {
	return &AgentRotation{agents: append([]string(nil), agents...)}
}

// Next returns the next agent name, or "" when no agents are configured.
func (r *AgentRotation) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.agents) == 0 {
		return ""
	}
	agent := r.agents[r.next%len(r.agents)]
	r.next++
	return agent
}
