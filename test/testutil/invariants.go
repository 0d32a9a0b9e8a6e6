package testutil

import (
	"testing"

	"github.com/sfat/zeebe/registry"
	"github.com/sfat/zeebe/types"
)

// Tracked is the view of a subscription the invariant checks need.
type Tracked interface {
	comparable
	types.Subscription
	State() types.SubscriptionState
}

// AssertRegistryConsistent verifies the registry invariants at a quiescent point,
// when no lifecycle transition is in flight.
//
// Checked:
//   - pollable and managed lists only hold subscriptions of their mode
//   - no terminal subscription is listed
//   - every Open or Suspended subscription is indexed under its current key
//   - the index holds nothing else
//
// Parameters:
//   - t: testing handle
//   - reg: Registry to check
func AssertRegistryConsistent[S Tracked](t *testing.T, reg *registry.Registry[S]) {
	t.Helper()

	indexed := 0
	check := func(list string, subs []S, managed bool) {
		for _, s := range subs {
			if s.IsManaged() != managed {
				t.Fatalf("%s list holds subscription %s of the wrong mode", list, registry.KeyOf(s))
			}

			st := s.State()
			if st.IsTerminal() {
				t.Fatalf("%s list holds terminal subscription %s (%s)", list, registry.KeyOf(s), st)
			}
			if st != types.StateOpen && st != types.StateSuspended {
				continue
			}

			indexed++
			got, ok := reg.Lookup(s.TopicName(), s.PartitionID(), s.SubscriberKey())
			if !ok {
				t.Fatalf("%s subscription %s (%s) is not indexed", list, registry.KeyOf(s), st)
			}
			if got != s {
				t.Fatalf("index entry for %s points at another subscription", registry.KeyOf(s))
			}
		}
	}

	check("pollable", reg.PollableSubscriptions(), false)
	check("managed", reg.ManagedSubscriptions(), true)

	if n := reg.IndexLen(); n != indexed {
		t.Fatalf("index holds %d entries, want %d", n, indexed)
	}
}
