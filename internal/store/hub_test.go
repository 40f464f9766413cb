package store

import "testing"

func TestHubNotifyReachesSubscribers(t *testing.T) {
	h := NewHub()

	got := 0
	h.Watch(CollectionMembers, func() { got++ })

	h.Notify(CollectionMembers)
	h.Notify(CollectionMembers)

	if got != 2 {
		t.Fatalf("callback ran %d times, want 2", got)
	}
}

func TestHubNotifyScopedToCollection(t *testing.T) {
	h := NewHub()

	members, expenses := 0, 0
	h.Watch(CollectionMembers, func() { members++ })
	h.Watch(CollectionExpenses, func() { expenses++ })

	h.Notify(CollectionExpenses)

	if members != 0 || expenses != 1 {
		t.Fatalf("members=%d expenses=%d, want 0 and 1", members, expenses)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()

	got := 0
	unsub := h.Watch(CollectionTrash, func() { got++ })

	h.Notify(CollectionTrash)
	unsub()
	unsub() // second call is a no-op
	h.Notify(CollectionTrash)

	if got != 1 {
		t.Fatalf("callback ran %d times, want 1", got)
	}
}

func TestHubUnsubscribeInsideCallback(t *testing.T) {
	h := NewHub()

	var unsub func()
	got := 0
	unsub = h.Watch(CollectionSubscriptions, func() {
		got++
		unsub()
	})

	h.Notify(CollectionSubscriptions)
	h.Notify(CollectionSubscriptions)

	if got != 1 {
		t.Fatalf("callback ran %d times, want 1", got)
	}
}
