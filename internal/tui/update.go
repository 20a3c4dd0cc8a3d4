package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/kube"
	"github.com/crn4/kr/internal/logview"
	"github.com/crn4/kr/pkg/logging"
)

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForEvents(m.events),
		loadNamespacesCmd(m.client, m.currentContext, m.currentNamespace),
		m.syncSubscription(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.clearStaleMessages(time.Time(msg))
		cmds = append(cmds, tickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, handleKey(m, msg))

	case WatchEventsMsg:
		// A batch from a torn-down subscription; drop it and do not re-arm.
		if msg.Sub != m.sub {
			return m, nil
		}
		refresh := false
		for _, ev := range msg.Events {
			switch ev.Type {
			case kube.EventForbidden:
				m.loading = false
				m.setError(fmt.Sprintf("%s: %s: %s", accessDeniedPrefix, m.activeTab, ev.Message))
			case kube.EventError:
				m.setError(ev.Message)
			case kube.EventInitialList:
				m.loading = false
				refresh = true
			case kube.EventRefresh:
				if !m.loading {
					refresh = true
				}
			}
		}
		if refresh {
			m.refreshItems()
		}
		if !msg.Closed {
			cmds = append(cmds, waitForWatch(m.sub))
		}

	case AppEventsMsg:
		for _, ev := range msg.Msgs {
			m.applyAppEvent(ev)
		}
		cmds = append(cmds, waitForEvents(m.events))

	case LogHistoryMsg:
		cmds = append(cmds, m.applyLogHistory(msg))

	case LogStreamEndedMsg:
		if msg.Generation == m.logs.Generation() && m.mode == ModeLogView {
			if msg.Err != nil {
				m.setError(fmt.Sprintf("Log stream ended: %v", msg.Err))
			} else {
				m.setSuccess("Log stream ended")
			}
		}

	case ActionResultMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("%s: %v", msg.Failure, msg.Err))
		} else {
			m.setSuccess(msg.Success)
		}

	case DescribeReadyMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Describe failed: %v", msg.Err))
		} else {
			m.describeLines = msg.Lines
			m.describeScroll = 0
			m.mode = ModeDescribeView
		}

	case NamespacesLoadedMsg:
		merged, changed := m.store.Merge(m.currentContext, msg.Namespaces)
		m.availableNS = merged
		if changed {
			if err := m.store.Save(); err != nil {
				logging.Warn("state", "saving namespaces failed: %v", err)
			}
		}

	case ContextSwitchedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Context switch failed: %v", msg.Err))
		} else {
			m.client = msg.Client
			m.currentContext = msg.Name
			m.currentNamespace = kube.ContextNamespace(msg.Name)
			m.availableNS = m.store.For(msg.Name)
			m.setSuccess(fmt.Sprintf("Switched to context '%s'", msg.Name))
			cmds = append(cmds, loadNamespacesCmd(m.client, m.currentContext, m.currentNamespace))
		}

	case ClipboardClearedMsg:
		m.setSuccess("Clipboard cleared")
	}

	cmds = append(cmds, m.syncSubscription())
	return m, tea.Batch(cmds...)
}

// applyAppEvent folds one message from the internal result channel.
func (m *Model) applyAppEvent(ev interface{}) {
	switch ev := ev.(type) {
	case LogLineMsg:
		m.logs.Push(ev.Generation, ev.Line)
	case ShellOutputMsg:
		if m.shell != nil {
			_, _ = m.shell.term.Write(ev.Data)
		}
	case ShellExitedMsg:
		if m.shell != nil {
			m.tasks.cancel(taskShellPump)
			m.shell = nil
			m.mode = ModeList
			m.setSuccess("Shell session ended")
		}
	}
}

func (m *Model) applyLogHistory(msg LogHistoryMsg) tea.Cmd {
	if msg.Err != nil {
		m.logs.AbortFetch(msg.Generation)
		if msg.Generation == m.logs.Generation() && m.mode == ModeLogView {
			m.setError(fmt.Sprintf("Loading history failed: %v", msg.Err))
		}
		return nil
	}
	outcome := m.logs.MergeHistory(msg.Generation, msg.Lines, m.logVisibleHeight())
	if outcome == logview.SearchNeedHistory {
		// One backfill per search keypress: report the miss and let the
		// next n/N reach further back.
		m.setError(fmt.Sprintf("Not found in loaded lines: '%s'", m.logs.Query()))
		return nil
	}
	return m.reportSearch(outcome)
}

// syncSubscription recreates the list+watch subscription whenever the
// (tab, namespace, context) triple it serves has drifted. Forbidden parks a
// subscription for good; only a triple change arms a new one.
func (m *Model) syncSubscription() tea.Cmd {
	if m.quitting || m.client == nil {
		return nil
	}
	if m.sub != nil &&
		m.subKind == m.activeTab &&
		m.subNamespace == m.currentNamespace &&
		m.subContext == m.currentContext {
		return nil
	}
	if m.sub != nil {
		m.sub.Stop()
	}
	m.clearAccessDenied()
	m.resetTabState()
	m.sub = kube.Subscribe(m.client, m.activeTab, m.currentNamespace)
	m.subKind = m.activeTab
	m.subNamespace = m.currentNamespace
	m.subContext = m.currentContext
	m.loading = true
	m.loadingSince = time.Now()
	return waitForWatch(m.sub)
}
