package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/client-go/kubernetes"

	"github.com/crn4/kr/internal/kube"
)

const (
	tickInterval       = 250 * time.Millisecond
	actionTimeout      = 30 * time.Second
	clipboardClearWait = 15 * time.Second
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForWatch receives from the subscription's channel, draining whatever
// else is ready so a burst of watch events becomes a single render.
func waitForWatch(sub *kube.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return WatchEventsMsg{Sub: sub, Closed: true}
		}
		events := []kube.Event{ev}
		for {
			select {
			case next, ok := <-sub.Events():
				if !ok {
					return WatchEventsMsg{Sub: sub, Events: events, Closed: true}
				}
				events = append(events, next)
			default:
				return WatchEventsMsg{Sub: sub, Events: events}
			}
		}
	}
}

// waitForEvents is the same drain pump for the internal result channel.
func waitForEvents(ch chan interface{}) tea.Cmd {
	return func() tea.Msg {
		msgs := []interface{}{<-ch}
		for {
			select {
			case next := <-ch:
				msgs = append(msgs, next)
			default:
				return AppEventsMsg{Msgs: msgs}
			}
		}
	}
}

// followLogs streams the live log into the internal channel line by line.
// Lines carry the generation so a restarted viewer drops leftovers.
func followLogs(ctx context.Context, client kubernetes.Interface, namespace, pod string, generation uint64, tailLines int64, ch chan<- interface{}) tea.Cmd {
	return func() tea.Msg {
		stream, err := kube.OpenLogStream(ctx, client, namespace, pod, tailLines)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return LogStreamEndedMsg{Generation: generation, Err: err}
		}
		// Scanner.Scan has no context; closing the stream unblocks it.
		go func() {
			<-ctx.Done()
			stream.Close()
		}()
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case ch <- LogLineMsg{Generation: generation, Line: scanner.Text()}:
			case <-ctx.Done():
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		return LogStreamEndedMsg{Generation: generation, Err: scanner.Err()}
	}
}

// fetchHistory fetches a tail snapshot for backfill.
func fetchHistory(ctx context.Context, client kubernetes.Interface, namespace, pod string, generation uint64, tailLines int) tea.Cmd {
	return func() tea.Msg {
		lines, err := kube.FetchLogTail(ctx, client, namespace, pod, int64(tailLines))
		if ctx.Err() != nil {
			return nil
		}
		return LogHistoryMsg{Generation: generation, Lines: lines, Err: err}
	}
}

func deleteResourceCmd(client kubernetes.Interface, kind kube.Kind, namespace, name string) tea.Cmd {
	label := map[kube.Kind]string{
		kube.KindPod:        "Pod",
		kube.KindDeployment: "Deployment",
		kube.KindSecret:     "Secret",
	}[kind]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := kube.DeleteResource(ctx, client, kind, namespace, name); err != nil {
			return ActionResultMsg{Failure: fmt.Sprintf("Delete '%s' failed", name), Err: err}
		}
		return ActionResultMsg{Success: fmt.Sprintf("%s '%s' deleted", label, name)}
	}
}

func restartDeploymentCmd(client kubernetes.Interface, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := kube.RestartDeployment(ctx, client, namespace, name); err != nil {
			return ActionResultMsg{Failure: fmt.Sprintf("Restart '%s' failed", name), Err: err}
		}
		return ActionResultMsg{Success: fmt.Sprintf("Rollout restart: '%s'", name)}
	}
}

func scaleDeploymentCmd(client kubernetes.Interface, namespace, name string, replicas int32) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := kube.ScaleDeployment(ctx, client, namespace, name, replicas); err != nil {
			return ActionResultMsg{Failure: fmt.Sprintf("Scale '%s' failed", name), Err: err}
		}
		return ActionResultMsg{Success: fmt.Sprintf("'%s' scaled to %d replicas", name, replicas)}
	}
}

func describeCmd(kubeContext string, kind kube.Kind, namespace, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		lines, err := kube.Describe(ctx, kubeContext, kind, namespace, name)
		return DescribeReadyMsg{Lines: lines, Err: err}
	}
}

func loadNamespacesCmd(client kubernetes.Interface, kubeContext, current string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return NamespacesLoadedMsg{Namespaces: kube.ListNamespaces(ctx, client, kubeContext, current)}
	}
}

func clipboardClearCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-time.After(clipboardClearWait):
			_ = clipboard.WriteAll("")
			return ClipboardClearedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// contextSwitcher runs the clientset construction while bubbletea has
// released the terminal, so exec-plugin auth can prompt interactively.
type contextSwitcher struct {
	name   string
	client kubernetes.Interface
	err    error
}

func (c *contextSwitcher) Run() error {
	c.client, c.err = kube.ClientForContext(c.name)
	return nil
}

func (c *contextSwitcher) SetStdin(io.Reader)  {}
func (c *contextSwitcher) SetStdout(io.Writer) {}
func (c *contextSwitcher) SetStderr(io.Writer) {}

func switchContextCmd(name string) tea.Cmd {
	switcher := &contextSwitcher{name: name}
	return tea.Exec(switcher, func(error) tea.Msg {
		return ContextSwitchedMsg{Name: name, Client: switcher.client, Err: switcher.err}
	})
}
