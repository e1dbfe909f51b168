package leads

import "testing"

func TestAgentRotationCyclesThroughAgents(t *testing.T) {
	r := NewAgentRotation([]string{"agent1", "agent2", "agent3"})

	got := []string{r.Next(), r.Next(), r.Next(), r.Next()}
	want := []string{"agent1", "agent2", "agent3", "agent1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAgentRotationEmptyReturnsNoAgent(t *testing.T) {
	r := NewAgentRotation(nil)
	if got := r.Next(); got != "" {
		t.Fatalf("expected no agent, got %q", got)
	}
}
