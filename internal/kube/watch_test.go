package kube

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func pod(name string) *corev1.Pod {
	return &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"}}
}

func recvEvent(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "event channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription event")
		return Event{}
	}
}

func waitForEventType(t *testing.T, sub *Subscription, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-sub.Events():
			require.True(t, ok, "event channel closed before %v arrived", want)
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event type %v", want)
		}
	}
}

func snapshotNames(sub *Subscription) []string {
	var names []string
	for _, r := range sub.Snapshot() {
		names = append(names, r.Name())
	}
	return names
}

func TestSubscribeSeedsSnapshotFromInitialList(t *testing.T) {
	client := fake.NewSimpleClientset(pod("b"), pod("a"))
	watcher := watch.NewFake()
	defer watcher.Stop()
	client.PrependWatchReactor("pods", k8stesting.DefaultWatchReactor(watcher, nil))

	sub := Subscribe(client, KindPod, "default")
	defer sub.Stop()

	ev := recvEvent(t, sub)
	assert.Equal(t, EventInitialList, ev.Type)
	assert.Equal(t, []string{"a", "b"}, snapshotNames(sub))
}

func TestWatchEventsUpdateSnapshot(t *testing.T) {
	client := fake.NewSimpleClientset(pod("existing"))
	watcher := watch.NewFake()
	defer watcher.Stop()
	client.PrependWatchReactor("pods", k8stesting.DefaultWatchReactor(watcher, nil))

	sub := Subscribe(client, KindPod, "default")
	defer sub.Stop()
	waitForEventType(t, sub, EventInitialList)

	watcher.Add(pod("added"))
	waitForEventType(t, sub, EventRefresh)
	assert.Contains(t, snapshotNames(sub), "added")

	watcher.Delete(pod("existing"))
	waitForEventType(t, sub, EventRefresh)
	assert.Equal(t, []string{"added"}, snapshotNames(sub))
}

func TestForbiddenListParksSubscription(t *testing.T) {
	client := fake.NewSimpleClientset()
	client.PrependReactor("list", "secrets", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(
			schema.GroupResource{Resource: "secrets"}, "", errors.New("user cannot list secrets"))
	})

	sub := Subscribe(client, KindSecret, "default")
	defer sub.Stop()

	ev := recvEvent(t, sub)
	assert.Equal(t, EventForbidden, ev.Type)
	assert.Contains(t, ev.Message, "forbidden")

	// Parked: the channel closes and never yields another event.
	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected channel close after forbidden")
	}
}

func TestTransientListErrorRetries(t *testing.T) {
	client := fake.NewSimpleClientset(pod("late"))
	failures := 1
	client.PrependReactor("list", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		if failures > 0 {
			failures--
			return true, nil, errors.New("connection refused")
		}
		return false, nil, nil
	})
	watcher := watch.NewFake()
	defer watcher.Stop()
	client.PrependWatchReactor("pods", k8stesting.DefaultWatchReactor(watcher, nil))

	sub := Subscribe(client, KindPod, "default")
	defer sub.Stop()

	ev := recvEvent(t, sub)
	assert.Equal(t, EventError, ev.Type)
	waitForEventType(t, sub, EventInitialList)
	assert.Equal(t, []string{"late"}, snapshotNames(sub))
}

func TestStopClosesEventChannel(t *testing.T) {
	client := fake.NewSimpleClientset()
	watcher := watch.NewFake()
	defer watcher.Stop()
	client.PrependWatchReactor("pods", k8stesting.DefaultWatchReactor(watcher, nil))

	sub := Subscribe(client, KindPod, "default")
	waitForEventType(t, sub, EventInitialList)
	sub.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close after Stop")
		}
	}
}
