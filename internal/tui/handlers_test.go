package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/crn4/kr/internal/kube"
	"github.com/crn4/kr/internal/logview"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func deployment(name string) kube.Resource {
	return kube.DeploymentItem{Deployment: &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}}
}

func TestSpaceTogglesSelection(t *testing.T) {
	m := testModel()
	m.filteredItems = []kube.Resource{pod("a", "Running"), pod("b", "Running")}
	m.cursor = 0

	handleListKey(m, key(" "))
	assert.Contains(t, m.selected, 0)
	handleListKey(m, key(" "))
	assert.NotContains(t, m.selected, 0)
}

func TestSpaceIgnoredOnSecretsTab(t *testing.T) {
	m := testModel()
	m.activeTab = kube.KindSecret
	m.filteredItems = []kube.Resource{pod("a", "Running")}
	m.cursor = 0

	handleListKey(m, key(" "))
	assert.Empty(t, m.selected)
}

func TestSelectAllToggles(t *testing.T) {
	m := testModel()
	m.filteredItems = []kube.Resource{pod("a", "Running"), pod("b", "Running")}

	handleListKey(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Len(t, m.selected, 2)
	handleListKey(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Empty(t, m.selected)
}

func TestDeleteRequiresSelection(t *testing.T) {
	m := testModel()

	handleListKey(m, key("D"))
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, "No resource selected", m.lastError)

	m.filteredItems = []kube.Resource{pod("a", "Running")}
	m.cursor = 0
	handleListKey(m, key("D"))
	require.NotNil(t, m.pending)
	require.NotNil(t, m.pending.Delete)
	assert.Equal(t, []string{"a"}, m.pending.Delete.Names)
	assert.Equal(t, ModeConfirm, m.mode)
}

func TestDeleteIgnoredOnSecretsTab(t *testing.T) {
	m := testModel()
	m.activeTab = kube.KindSecret
	m.filteredItems = []kube.Resource{pod("a", "Running")}
	m.cursor = 0

	handleListKey(m, key("D"))
	assert.Nil(t, m.pending)
	assert.Equal(t, ModeList, m.mode)
}

func TestScaleInputValidation(t *testing.T) {
	m := testModel()
	m.activeTab = kube.KindDeployment
	m.filteredItems = []kube.Resource{deployment("web")}
	m.cursor = 0
	m.mode = ModeScaleInput

	handleScaleKey(m, key("enter"))
	assert.Equal(t, "Enter a replica count", m.lastError)
	assert.Equal(t, ModeScaleInput, m.mode, "empty input keeps the prompt open")

	m.scaleInput.SetValue("1001")
	handleScaleKey(m, key("enter"))
	assert.Equal(t, "Replica count must be <= 1000", m.lastError)
	assert.Equal(t, ModeList, m.mode)

	m.mode = ModeScaleInput
	m.scaleInput.SetValue("3")
	handleScaleKey(m, key("enter"))
	require.NotNil(t, m.pending)
	require.NotNil(t, m.pending.Scale)
	assert.Equal(t, "web", m.pending.Scale.Name)
	assert.Equal(t, int32(3), m.pending.Scale.Replicas)
	assert.Equal(t, ModeConfirm, m.mode)
}

func TestScaleInputUsableAfterEmptySubmit(t *testing.T) {
	m := testModel()
	m.activeTab = kube.KindDeployment
	m.filteredItems = []kube.Resource{deployment("web")}
	m.cursor = 0
	m.mode = ModeScaleInput
	m.scaleInput.Focus()

	handleScaleKey(m, key("enter"))
	require.Equal(t, ModeScaleInput, m.mode)
	require.Equal(t, "Enter a replica count", m.lastError)

	handleScaleKey(m, key("5"))
	assert.Equal(t, "5", m.scaleInput.Value(), "the prompt must keep accepting digits after the inline error")
}

func TestScaleInputRejectsLetters(t *testing.T) {
	m := testModel()
	m.mode = ModeScaleInput
	m.scaleInput.Focus()

	handleScaleKey(m, key("a"))
	handleScaleKey(m, key("5"))
	assert.Equal(t, "5", m.scaleInput.Value())
}

func TestConfirmDeclineDiscardsAction(t *testing.T) {
	m := testModel()
	m.pending = &PendingAction{Restart: &RestartAction{Name: "web"}}
	m.mode = ModeConfirm
	m.selected[0] = struct{}{}

	cmd := handleConfirmKey(m, key("n"))
	assert.Nil(t, cmd)
	assert.Nil(t, m.pending)
	assert.Empty(t, m.selected)
	assert.Equal(t, ModeList, m.mode)
}

func TestConfirmAcceptExecutes(t *testing.T) {
	m := testModel()
	m.pending = &PendingAction{Delete: &DeleteAction{Kind: "pod(s)", Names: []string{"a", "b"}}}
	m.mode = ModeConfirm

	cmd := handleConfirmKey(m, key("y"))
	assert.NotNil(t, cmd)
	assert.Nil(t, m.pending)
	assert.Equal(t, ModeList, m.mode)
}

func TestStatusFilterApply(t *testing.T) {
	m := testModel()
	m.items = []kube.Resource{pod("a", "Running"), pod("b", "Pending")}
	m.buildStatusChoices()
	m.mode = ModeStatusFilter

	handleStatusFilterKey(m, key(" "))
	handleStatusFilterKey(m, key("enter"))

	assert.Equal(t, ModeList, m.mode)
	assert.Contains(t, m.statusFilter, "Pending")
	require.Len(t, m.filteredItems, 1)
	assert.Equal(t, "b", m.filteredItems[0].Name())
}

func TestStatusFilterAllSelectedMeansNoFilter(t *testing.T) {
	m := testModel()
	m.items = []kube.Resource{pod("a", "Running"), pod("b", "Pending")}
	m.buildStatusChoices()
	m.mode = ModeStatusFilter

	handleStatusFilterKey(m, key("a"))
	handleStatusFilterKey(m, key("enter"))

	assert.Empty(t, m.statusFilter)
	assert.Len(t, m.filteredItems, 2)
}

func TestNamespaceTypingValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m := testModel()
	m.mode = ModeNamespaceSelect
	m.nsTyping = true
	m.nsCursor = -1
	m.nsInput.SetValue("Not_Valid!")

	handleNamespaceKey(m, key("enter"))
	assert.Equal(t, ModeNamespaceSelect, m.mode)
	assert.Contains(t, m.lastError, "Invalid namespace name")

	m.nsInput.SetValue("team-a")
	handleNamespaceKey(m, key("enter"))
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, "team-a", m.currentNamespace)
	assert.Contains(t, m.store.For("test-ctx"), "team-a")
}

func TestEscClearsFiltersInListMode(t *testing.T) {
	m := testModel()
	m.items = []kube.Resource{pod("a", "Running")}
	m.filterInput.SetValue("zzz")
	m.statusFilter = map[string]struct{}{"Pending": {}}
	m.updateFilter()
	require.Empty(t, m.filteredItems)

	handleListKey(m, key("esc"))
	assert.Empty(t, m.filterInput.Value())
	assert.Empty(t, m.statusFilter)
	assert.Len(t, m.filteredItems, 1)
}

func TestLogViewEscClearsSearchFirst(t *testing.T) {
	m := testModel()
	m.logs.Start("web-1", "default")
	m.logs.SetQuery("err")
	m.mode = ModeLogView

	handleLogKey(m, key("esc"))
	assert.Equal(t, ModeLogView, m.mode)
	assert.Empty(t, m.logs.Query())

	handleLogKey(m, key("esc"))
	assert.Equal(t, ModeList, m.mode)
}

func TestHistoryMergeSearchMissPostsBanner(t *testing.T) {
	m := testModel()
	gen := m.logs.Start("web-1", "default")
	for i := 100; i < 200; i++ {
		m.logs.Push(gen, fmt.Sprintf("l%d", i))
	}
	m.logs.SetQuery("zzz")
	require.Equal(t, logview.SearchNeedHistory, m.logs.SearchNext(10))
	req, ok := m.logs.RequestMore()
	require.True(t, ok)

	history := make([]string, 0, req.TailLines)
	for i := 0; i < req.TailLines; i++ {
		history = append(history, fmt.Sprintf("l%d", i))
	}
	cmd := m.applyLogHistory(LogHistoryMsg{Generation: gen, Lines: history})

	assert.Nil(t, cmd, "a resolved miss must not schedule another fetch")
	assert.False(t, m.logs.LoadingHistory())
	assert.False(t, m.logs.SearchPending())
	assert.Contains(t, m.lastError, "Not found in loaded lines")
}

func TestLogViewShowsNewestLineWhenPausedAtBottom(t *testing.T) {
	m := testModel()
	m.width, m.height = 80, 20
	m.ready = true
	gen := m.logs.Start("web-1", "default")
	for i := 0; i < 50; i++ {
		m.logs.Push(gen, fmt.Sprintf("line-%d", i))
	}
	m.mode = ModeLogView

	handleLogKey(m, key("j"))
	_, paused := m.logs.ScrollOffset()
	require.True(t, paused)

	assert.Contains(t, m.viewLogs(), "line-49")
}

func TestLogSearchConfirmLowercasesQuery(t *testing.T) {
	m := testModel()
	gen := m.logs.Start("web-1", "default")
	m.logs.Push(gen, "some ERROR happened")
	m.mode = ModeLogSearchInput
	m.searchInput.SetValue("ERROR")

	handleLogSearchKey(m, key("enter"))
	assert.Equal(t, ModeLogView, m.mode)
	assert.Equal(t, "error", m.logs.Query())
	_, found := m.logs.MatchLine()
	assert.True(t, found)
}
