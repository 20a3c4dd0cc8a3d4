package tui

import (
	"fmt"
	"strings"
)

// Mode is the input state machine's current state. Every key press is
// interpreted against it.
type Mode int

const (
	ModeList Mode = iota
	ModeFilterInput
	ModeStatusFilter
	ModeContextSelect
	ModeNamespaceSelect
	ModeScaleInput
	ModeConfirm
	ModeSecretDecode
	ModeDescribeView
	ModeLogView
	ModeLogSearchInput
	ModeShellView
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "List"
	case ModeFilterInput:
		return "FilterInput"
	case ModeStatusFilter:
		return "StatusFilter"
	case ModeContextSelect:
		return "ContextSelect"
	case ModeNamespaceSelect:
		return "NamespaceSelect"
	case ModeScaleInput:
		return "ScaleInput"
	case ModeConfirm:
		return "Confirm"
	case ModeSecretDecode:
		return "SecretDecode"
	case ModeDescribeView:
		return "DescribeView"
	case ModeLogView:
		return "LogView"
	case ModeLogSearchInput:
		return "LogSearchInput"
	case ModeShellView:
		return "ShellView"
	default:
		return "Unknown"
	}
}

// PendingAction is a destructive operation awaiting confirmation. Only the
// Confirm mode may execute one.
type PendingAction struct {
	Delete  *DeleteAction
	Restart *RestartAction
	Scale   *ScaleAction
}

type DeleteAction struct {
	Kind  string // count-agnostic form, e.g. "pod(s)"
	Names []string
}

type RestartAction struct {
	Name string
}

type ScaleAction struct {
	Name     string
	Replicas int32
}

// Message renders the confirmation prompt.
func (p PendingAction) Message() string {
	switch {
	case p.Delete != nil:
		d := p.Delete
		if len(d.Names) == 1 {
			return fmt.Sprintf("Delete %s '%s'?", d.Kind, d.Names[0])
		}
		return fmt.Sprintf("Delete %d %s?\n%s", len(d.Names), d.Kind, strings.Join(d.Names, ", "))
	case p.Restart != nil:
		return fmt.Sprintf("Rollout restart '%s'?", p.Restart.Name)
	case p.Scale != nil:
		s := p.Scale
		if s.Replicas == 0 {
			return fmt.Sprintf("Scale '%s' to 0 replicas?\nThis will stop all pods.", s.Name)
		}
		return fmt.Sprintf("Scale '%s' to %d replicas?", s.Name, s.Replicas)
	default:
		return ""
	}
}

// secretEntry is one decoded key/value pair of a secret.
type secretEntry struct {
	Key   string
	Value string
}

// statusChoice is one phase row in the status filter popup.
type statusChoice struct {
	Phase string
	Count int
}
