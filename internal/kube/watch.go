package kube

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"

	"github.com/crn4/kr/pkg/logging"
)

// EventType classifies subscription events delivered to the UI.
type EventType int

const (
	// EventRefresh: the snapshot changed; re-read it when convenient.
	EventRefresh EventType = iota
	// EventInitialList: the first list completed and seeded the cache.
	EventInitialList
	// EventForbidden: RBAC denied the list or watch. The subscription is
	// parked: its channel closes and never yields again.
	EventForbidden
	// EventError: a transient failure; the watch retries on its own.
	EventError
)

// Event is one notification from a Subscription.
type Event struct {
	Type    EventType
	Message string
}

var errWatchClosed = errors.New("watch channel closed")

const (
	watchRetryBase = time.Second
	watchRetryMax  = 30 * time.Second
)

// Subscription watches one (kind, namespace) pair and maintains a snapshot
// cache. Create with Subscribe, read events from Events, read state with
// Snapshot, tear down with Stop.
type Subscription struct {
	Kind      Kind
	Namespace string

	client kubernetes.Interface
	events chan Event
	cancel context.CancelFunc

	mu    sync.RWMutex
	store map[string]Resource
}

// Subscribe starts the list+watch goroutine.
func Subscribe(client kubernetes.Interface, kind Kind, namespace string) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscription{
		Kind:      kind,
		Namespace: namespace,
		client:    client,
		events:    make(chan Event, 64),
		cancel:    cancel,
		store:     map[string]Resource{},
	}
	go s.run(ctx)
	return s
}

// Events is the subscription's notification channel. It closes when the
// subscription stops or parks.
func (s *Subscription) Events() <-chan Event { return s.events }

// Stop tears the subscription down. Safe to call more than once.
func (s *Subscription) Stop() { s.cancel() }

// Snapshot returns the cached resources sorted by name.
func (s *Subscription) Snapshot() []Resource {
	s.mu.RLock()
	items := make([]Resource, 0, len(s.store))
	for _, r := range s.store {
		items = append(items, r)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
	return items
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.events)
	backoff := watchRetryBase
	first := true
	for {
		if ctx.Err() != nil {
			return
		}
		items, rv, err := s.list(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if apierrors.IsForbidden(err) {
				s.emit(ctx, Event{Type: EventForbidden, Message: err.Error()})
				return
			}
			s.emit(ctx, Event{Type: EventError, Message: err.Error()})
			logging.Warn("watch", "%s list failed, retrying in %s: %v", s.Kind.Singular(), backoff, err)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff *= 2; backoff > watchRetryMax {
				backoff = watchRetryMax
			}
			continue
		}
		backoff = watchRetryBase

		s.replaceAll(items)
		if first {
			first = false
			s.emit(ctx, Event{Type: EventInitialList})
		} else {
			s.emit(ctx, Event{Type: EventRefresh})
		}

		err = s.watchLoop(ctx, rv)
		switch {
		case ctx.Err() != nil:
			return
		case apierrors.IsForbidden(err):
			s.emit(ctx, Event{Type: EventForbidden, Message: err.Error()})
			return
		case apierrors.IsResourceExpired(err) || apierrors.IsGone(err) || errors.Is(err, errWatchClosed):
			// Relist from scratch.
		default:
			s.emit(ctx, Event{Type: EventError, Message: err.Error()})
			logging.Warn("watch", "%s watch failed, relisting: %v", s.Kind.Singular(), err)
			if !sleep(ctx, backoff) {
				return
			}
		}
	}
}

func (s *Subscription) watchLoop(ctx context.Context, resourceVersion string) error {
	w, err := s.watch(ctx, resourceVersion)
	if err != nil {
		return err
	}
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.ResultChan():
			if !ok {
				return errWatchClosed
			}
			switch ev.Type {
			case watch.Added, watch.Modified:
				if r, ok := toResource(s.Kind, ev.Object); ok {
					s.mu.Lock()
					s.store[r.Name()] = r
					s.mu.Unlock()
					s.emit(ctx, Event{Type: EventRefresh})
				}
			case watch.Deleted:
				if r, ok := toResource(s.Kind, ev.Object); ok {
					s.mu.Lock()
					delete(s.store, r.Name())
					s.mu.Unlock()
					s.emit(ctx, Event{Type: EventRefresh})
				}
			case watch.Error:
				return apierrors.FromObject(ev.Object)
			}
		}
	}
}

func (s *Subscription) replaceAll(items []Resource) {
	fresh := make(map[string]Resource, len(items))
	for _, r := range items {
		fresh[r.Name()] = r
	}
	s.mu.Lock()
	s.store = fresh
	s.mu.Unlock()
}

func (s *Subscription) emit(ctx context.Context, e Event) {
	select {
	case s.events <- e:
	case <-ctx.Done():
	}
}

func (s *Subscription) list(ctx context.Context) ([]Resource, string, error) {
	opts := metav1.ListOptions{}
	switch s.Kind {
	case KindPod:
		l, err := s.client.CoreV1().Pods(s.Namespace).List(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		items := make([]Resource, 0, len(l.Items))
		for i := range l.Items {
			items = append(items, PodItem{Pod: &l.Items[i]})
		}
		return items, l.ResourceVersion, nil
	case KindDeployment:
		l, err := s.client.AppsV1().Deployments(s.Namespace).List(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		items := make([]Resource, 0, len(l.Items))
		for i := range l.Items {
			items = append(items, DeploymentItem{Deployment: &l.Items[i]})
		}
		return items, l.ResourceVersion, nil
	default:
		l, err := s.client.CoreV1().Secrets(s.Namespace).List(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		items := make([]Resource, 0, len(l.Items))
		for i := range l.Items {
			items = append(items, SecretItem{Secret: &l.Items[i]})
		}
		return items, l.ResourceVersion, nil
	}
}

func (s *Subscription) watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	opts := metav1.ListOptions{
		ResourceVersion:     resourceVersion,
		AllowWatchBookmarks: true,
	}
	switch s.Kind {
	case KindPod:
		return s.client.CoreV1().Pods(s.Namespace).Watch(ctx, opts)
	case KindDeployment:
		return s.client.AppsV1().Deployments(s.Namespace).Watch(ctx, opts)
	default:
		return s.client.CoreV1().Secrets(s.Namespace).Watch(ctx, opts)
	}
}

func toResource(kind Kind, obj runtime.Object) (Resource, bool) {
	switch o := obj.(type) {
	case *corev1.Pod:
		return PodItem{Pod: o}, true
	case *appsv1.Deployment:
		return DeploymentItem{Deployment: o}, true
	case *corev1.Secret:
		return SecretItem{Secret: o}, true
	default:
		return nil, false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
