package tui

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"k8s.io/client-go/kubernetes"

	"github.com/crn4/kr/internal/kube"
	"github.com/crn4/kr/internal/logview"
	"github.com/crn4/kr/internal/state"
)

const (
	successBannerTTL = 5 * time.Second
	errorBannerTTL   = 15 * time.Second

	// accessDeniedPrefix marks sticky error banners: they survive banner
	// expiry and clear only when the watched triple changes.
	accessDeniedPrefix = "Access denied"
)

// Model is the whole UI state. One goroutine (the Update loop) owns it.
type Model struct {
	client kubernetes.Interface
	store  *state.AppState

	width    int
	height   int
	ready    bool
	quitting bool

	mode             Mode
	activeTab        kube.Kind
	currentContext   string
	currentNamespace string

	// Live subscription and the (tab, namespace, context) triple it was
	// created for. When the triple drifts, the subscription is recreated.
	sub          *kube.Subscription
	subKind      kube.Kind
	subNamespace string
	subContext   string

	items         []kube.Resource
	filteredItems []kube.Resource
	cursor        int // -1 when nothing is selected
	selected      map[int]struct{}

	filterInput  textinput.Model
	statusFilter map[string]struct{}

	statusChoices []statusChoice
	statusToggled map[int]struct{}
	statusCursor  int

	availableContexts  []string
	contextCursor      int
	availableNS        []string
	filteredNS         []string
	nsCursor           int
	nsTyping           bool
	nsInput            textinput.Model

	logs        logview.Session
	searchInput textinput.Model

	secretName    string
	secretEntries []secretEntry
	secretCursor  int
	secretHidden  bool

	scaleInput  textinput.Model
	pending     *PendingAction

	describeLines  []string
	describeScroll int

	shell      *shellSession
	shellTitle string

	lastError   string
	lastSuccess string
	messageAt   time.Time

	loading      bool
	loadingSince time.Time

	tasks  *taskRegistry
	events chan interface{}
}

// NewModel builds the initial model; the first subscription is created by
// Init via syncSubscription.
func NewModel(client kubernetes.Interface, kubeContext, namespace string, contexts []string, st *state.AppState) *Model {
	filter := textinput.New()
	filter.Prompt = ""
	filter.CharLimit = 128

	nsInput := textinput.New()
	nsInput.Prompt = ""
	nsInput.CharLimit = 63

	search := textinput.New()
	search.Prompt = "/"
	search.CharLimit = 128

	// Digit filtering happens in the scale key handler; textinput's
	// Validate hook records an error but still inserts the runes.
	scale := textinput.New()
	scale.Prompt = ""
	scale.CharLimit = 4

	return &Model{
		client:            client,
		store:             st,
		mode:              ModeList,
		activeTab:         kube.KindPod,
		currentContext:    kubeContext,
		currentNamespace:  namespace,
		availableContexts: contexts,
		availableNS:       st.For(kubeContext),
		cursor:            -1,
		selected:          map[int]struct{}{},
		statusFilter:      map[string]struct{}{},
		statusToggled:     map[int]struct{}{},
		filterInput:       filter,
		nsInput:           nsInput,
		searchInput:       search,
		scaleInput:        scale,
		tasks:             newTaskRegistry(),
		events:            make(chan interface{}, 256),
	}
}

// ---- Banners ----

func (m *Model) setError(msg string) {
	m.lastError = msg
	m.lastSuccess = ""
	m.messageAt = time.Now()
}

func (m *Model) setSuccess(msg string) {
	m.lastSuccess = msg
	m.lastError = ""
	m.messageAt = time.Now()
}

// clearStaleMessages expires banners: success after 5s, errors after 15s.
// Access-denied errors are sticky and outlive the timer.
func (m *Model) clearStaleMessages(now time.Time) {
	if m.messageAt.IsZero() {
		return
	}
	elapsed := now.Sub(m.messageAt)
	if m.lastSuccess != "" && elapsed >= successBannerTTL {
		m.lastSuccess = ""
		if m.lastError == "" {
			m.messageAt = time.Time{}
		}
	}
	if m.lastError != "" && !strings.HasPrefix(m.lastError, accessDeniedPrefix) && elapsed >= errorBannerTTL {
		m.lastError = ""
		m.messageAt = time.Time{}
	}
}

func (m *Model) clearAccessDenied() {
	if strings.HasPrefix(m.lastError, accessDeniedPrefix) {
		m.lastError = ""
		m.messageAt = time.Time{}
	}
}

// ---- Tabs and selection ----

func (m *Model) nextTab() {
	m.activeTab = (m.activeTab + 1) % 3
	m.resetTabState()
}

func (m *Model) prevTab() {
	m.activeTab = (m.activeTab + 2) % 3
	m.resetTabState()
}

func (m *Model) resetTabState() {
	m.items = nil
	m.filteredItems = nil
	m.cursor = -1
	m.selected = map[int]struct{}{}
	m.statusFilter = map[string]struct{}{}
}

func (m *Model) selectedResource() (kube.Resource, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filteredItems) {
		return nil, false
	}
	return m.filteredItems[m.cursor], true
}

func (m *Model) nextRow() {
	n := len(m.filteredItems)
	if n == 0 {
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
		return
	}
	if m.cursor < n-1 {
		m.cursor++
	}
}

func (m *Model) prevRow() {
	if len(m.filteredItems) == 0 {
		return
	}
	if m.cursor <= 0 {
		m.cursor = 0
		return
	}
	m.cursor--
}

// ---- Items and filtering ----

// refreshItems re-reads the subscription snapshot and recomputes the
// filtered view.
func (m *Model) refreshItems() {
	if m.sub == nil {
		m.items = nil
	} else {
		m.items = m.sub.Snapshot()
	}
	m.updateFilter()
}

// updateFilter recomputes filteredItems from the text query and (on the
// pod tab) the status filter. Any recomputation clears multi-selection.
func (m *Model) updateFilter() {
	m.selected = map[int]struct{}{}
	hasStatus := m.activeTab == kube.KindPod && len(m.statusFilter) > 0
	query := strings.ToLower(m.filterInput.Value())

	if !hasStatus && query == "" {
		m.filteredItems = append([]kube.Resource(nil), m.items...)
	} else {
		m.filteredItems = m.filteredItems[:0]
		for _, item := range m.items {
			if hasStatus {
				if p, ok := item.(kube.PodItem); ok {
					if _, ok := m.statusFilter[kube.PodPhase(p.Pod)]; !ok {
						continue
					}
				}
			}
			if query != "" && !strings.Contains(strings.ToLower(item.Name()), query) {
				continue
			}
			m.filteredItems = append(m.filteredItems, item)
		}
	}
	if m.cursor >= len(m.filteredItems) {
		m.cursor = len(m.filteredItems) - 1
	}
}

// buildStatusChoices tallies pod phases for the status filter popup and
// pre-toggles the phases already active.
func (m *Model) buildStatusChoices() {
	counts := map[string]int{}
	for _, item := range m.items {
		if p, ok := item.(kube.PodItem); ok {
			counts[kube.PodPhase(p.Pod)]++
		}
	}
	phases := make([]string, 0, len(counts))
	for phase := range counts {
		phases = append(phases, phase)
	}
	sort.Strings(phases)

	m.statusChoices = m.statusChoices[:0]
	m.statusToggled = map[int]struct{}{}
	for i, phase := range phases {
		m.statusChoices = append(m.statusChoices, statusChoice{Phase: phase, Count: counts[phase]})
		if _, ok := m.statusFilter[phase]; ok {
			m.statusToggled[i] = struct{}{}
		}
	}
	m.statusCursor = 0
}

// ---- Namespaces ----

func (m *Model) updateNamespaceFilter() {
	query := strings.ToLower(m.nsInput.Value())
	m.filteredNS = m.filteredNS[:0]
	for _, ns := range m.availableNS {
		if query == "" || strings.Contains(ns, query) {
			m.filteredNS = append(m.filteredNS, ns)
		}
	}
	if m.nsCursor >= len(m.filteredNS) {
		m.nsCursor = len(m.filteredNS) - 1
	}
	if m.nsCursor < 0 && len(m.filteredNS) > 0 {
		m.nsCursor = 0
	}
}

// selectNamespace commits a namespace choice, persists it for the current
// context, and leaves the popup.
func (m *Model) selectNamespace(ns string) {
	if ns != "" {
		m.currentNamespace = ns
		m.store.Add(m.currentContext, ns)
		found := false
		for _, have := range m.availableNS {
			if have == ns {
				found = true
				break
			}
		}
		if !found {
			m.availableNS = append(m.availableNS, ns)
			sort.Strings(m.availableNS)
		}
		if err := m.store.Save(); err != nil {
			m.setError("Saving state failed: " + err.Error())
		}
	}
	m.nsInput.Reset()
	m.nsTyping = false
	m.mode = ModeList
}

// ---- Secrets ----

// decodeSelectedSecret decodes the cursor's secret into sorted key/value
// entries. Non-UTF8 values render as a placeholder.
func (m *Model) decodeSelectedSecret() bool {
	res, ok := m.selectedResource()
	if !ok {
		return false
	}
	sec, ok := res.(kube.SecretItem)
	if !ok {
		return false
	}
	m.secretName = sec.Name()
	m.secretEntries = m.secretEntries[:0]
	keys := make([]string, 0, len(sec.Secret.Data))
	for k := range sec.Secret.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := "<binary>"
		if raw := sec.Secret.Data[k]; utf8.Valid(raw) {
			value = string(raw)
		}
		m.secretEntries = append(m.secretEntries, secretEntry{Key: k, Value: value})
	}
	return true
}

// ---- Layout helpers ----

func (m *Model) bodyHeight() int {
	h := m.height - 3 // two header lines, one footer line
	if h < 1 {
		h = 1
	}
	return h
}

// logVisibleHeight is the number of log lines on screen: the body minus
// the box borders. Scroll and centering math must use the same height the
// view renders.
func (m *Model) logVisibleHeight() int {
	h := m.bodyHeight() - 2
	if h < 1 {
		h = 1
	}
	return h
}

// describeVisibleHeight matches the describe pager's inner height.
func (m *Model) describeVisibleHeight() int {
	h := m.bodyHeight() * 90 / 100
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) describeMaxScroll() int {
	max := len(m.describeLines) - m.describeVisibleHeight()
	if max < 0 {
		return 0
	}
	return max
}

