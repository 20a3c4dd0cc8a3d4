package tui

import (
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/crn4/kr/internal/kube"
)

// ---- Event loop plumbing ----

type TickMsg time.Time

// WatchEventsMsg is a drained batch from the active subscription's channel.
// Sub identifies the producer so batches from a torn-down subscription can
// be dropped.
type WatchEventsMsg struct {
	Sub    *kube.Subscription
	Events []kube.Event
	Closed bool
}

// AppEventsMsg is a drained batch from the internal result channel.
type AppEventsMsg struct {
	Msgs []interface{}
}

// ---- Log subsystem ----

type LogLineMsg struct {
	Generation uint64
	Line       string
}

type LogStreamEndedMsg struct {
	Generation uint64
	Err        error
}

type LogHistoryMsg struct {
	Generation uint64
	Lines      []string
	Err        error
}

// ---- Actions ----

type ActionResultMsg struct {
	Success string
	Failure string
	Err     error
}

type DescribeReadyMsg struct {
	Lines []string
	Err   error
}

type NamespacesLoadedMsg struct {
	Namespaces []string
}

type ContextSwitchedMsg struct {
	Name   string
	Client kubernetes.Interface
	Err    error
}

type ClipboardClearedMsg struct{}

// ---- Shell ----

type ShellOutputMsg struct {
	Data []byte
}

type ShellExitedMsg struct{}
