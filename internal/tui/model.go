package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

// Options tune the board. Zero values fall back to the defaults below.
type Options struct {
	ShakeDuration time.Duration
	ClockRefresh  time.Duration
	PageSize      int
	DefaultSort   engine.SortOption
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ShakeDuration <= 0 {
		o.ShakeDuration = 500 * time.Millisecond
	}
	if o.ClockRefresh <= 0 {
		o.ClockRefresh = time.Minute
	}
	if o.PageSize <= 0 {
		o.PageSize = engine.DefaultPageSize
	}
	if !o.DefaultSort.IsValid() {
		o.DefaultSort = engine.SortNewest
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type tab int

const (
	tabMomentum tab = iota
	tabVault
)

type mode int

const (
	modeBrowse mode = iota
	modeAddTodo
	modeAddGoal
	modeSearch
	modePIN
	modeRecovery
)

// Model is the whole board: header, tabs, the active section and any
// dialog layered over it.
type Model struct {
	ctx  context.Context
	svc  *engine.Service
	opts Options

	width  int
	height int

	tab     tab
	mode    mode
	palette ui.Palette
	clock   time.Time

	installVisible bool

	// Momentum
	filter engine.TodoFilter
	cursor int

	// Vault
	auth       *engine.AuthFlow
	shakeSeq   int
	goalSearch string
	page       int
	goalCursor int

	form    form
	notice  *engine.Notice
	lastLog string
}

type clockMsg time.Time

type shakeDoneMsg struct{ seq int }

func NewModel(ctx context.Context, svc *engine.Service, opts Options) Model {
	opts = opts.withDefaults()
	return Model{
		ctx:            ctx,
		svc:            svc,
		opts:           opts,
		palette:        ui.NewPalette(svc.DarkTheme(ctx)),
		clock:          opts.Now(),
		installVisible: svc.InstallPromptVisible(ctx),
		filter:         engine.TodoFilter{Sort: opts.DefaultSort},
		page:           1,
		lastLog:        "Loaded.",
	}
}

func (m Model) Init() tea.Cmd {
	return m.clockCmd()
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(m.opts.ClockRefresh, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m Model) shakeCmd() tea.Cmd {
	seq := m.shakeSeq
	return tea.Tick(m.opts.ShakeDuration, func(time.Time) tea.Msg {
		return shakeDoneMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case clockMsg:
		m.clock = time.Time(msg)
		return m, m.clockCmd()
	case shakeDoneMsg:
		if m.auth != nil && msg.seq == m.shakeSeq {
			m.auth.StopShake()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAddTodo, modeAddGoal, modeSearch:
			return m.updateForm(msg)
		case modePIN:
			return m.updatePIN(msg)
		case modeRecovery:
			return m.updateRecovery(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.tab == tabMomentum {
			return m.switchTab(tabVault)
		}
		return m.switchTab(tabMomentum)
	case "1":
		return m.switchTab(tabMomentum)
	case "2":
		return m.switchTab(tabVault)
	case "t":
		dark := !m.palette.Dark
		m.palette = ui.NewPalette(dark)
		m.warnIf(m.svc.SetDarkTheme(m.ctx, dark))
		return m, nil
	case "x":
		if m.installVisible {
			m.installVisible = false
			m.warnIf(m.svc.DismissInstallPrompt(m.ctx))
		}
		return m, nil
	case "i":
		if m.installVisible {
			m.installVisible = false
			m.svc.AcceptInstallPrompt()
			m.notice = &engine.Notice{Kind: engine.NoticeInfo, Title: "Install", Detail: "Run `resolve completion --help` to add shell completion."}
		}
		return m, nil
	}
	if m.tab == tabVault {
		return m.updateVault(msg)
	}
	return m.updateMomentum(msg)
}

// switchTab opens the PIN pad instead of the Vault while it is locked.
func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	m.notice = nil
	if t == tabVault && !m.svc.Session().Unlocked() {
		m.auth = m.svc.OpenVault()
		m.mode = modePIN
		return m, nil
	}
	m.tab = t
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeSearch {
			m.setSearch("")
		}
		m.mode = modeBrowse
		return m, nil
	case "enter":
		switch m.mode {
		case modeAddTodo:
			return m.submitTodo()
		case modeAddGoal:
			return m.submitGoal()
		}
		m.mode = modeBrowse
		return m, nil
	}
	cmd := m.form.update(msg)
	if m.mode == modeSearch {
		m.setSearch(m.form.value(0))
	}
	return m, cmd
}

func (m *Model) setSearch(q string) {
	if m.tab == tabVault {
		m.goalSearch = q
		m.page = 1
		m.goalCursor = 0
		return
	}
	m.filter.Search = q
	m.cursor = 0
}

// warnIf reports a failed write without interrupting the board.
func (m *Model) warnIf(err error) {
	if err == nil {
		return
	}
	if engine.IsPersistError(err) {
		m.lastLog = ui.IconWarn + " Not saved: " + err.Error()
		return
	}
	m.lastLog = ui.IconError + " " + err.Error()
}

// showError turns input errors into an error notice.
func (m *Model) showError(title string, err error) {
	var verr engine.ValidationError
	detail := err.Error()
	if errors.As(err, &verr) {
		detail = fmt.Sprintf("%s %s", verr.Field, verr.Reason)
	}
	m.notice = &engine.Notice{Kind: engine.NoticeError, Title: title, Detail: detail}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	if m.installVisible {
		b.WriteString(m.palette.Banner.Render("Install shell completion for resolve?  [i] install  [x] dismiss"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modePIN, modeRecovery:
		b.WriteString(m.renderPIN())
	default:
		if m.tab == tabVault {
			b.WriteString(m.renderVault())
		} else {
			b.WriteString(m.renderMomentum())
		}
	}
	if m.mode == modeAddTodo || m.mode == modeAddGoal || m.mode == modeSearch {
		b.WriteString("\n\n")
		b.WriteString(m.form.view())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	frame := m.palette.Frame
	if m.width > 4 {
		frame = frame.Width(m.width - 2)
	}
	return frame.Render(b.String())
}

func (m Model) renderHeader() string {
	greeting := engine.Greeting(m.clock)
	if name := m.svc.Settings().Name; name != "" {
		greeting += ", " + name
	}
	left := ui.Title.Render("Resolve") + "  " + greeting
	right := fmt.Sprintf("%s %d day streak  %s", ui.IconFire, m.svc.Streak().CurrentStreak, m.clock.Format("Mon Jan 2 15:04"))
	gap := m.width - 6 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + ui.Muted.Render(right)
}

func (m Model) renderTabs() string {
	vault := ui.IconLock + " The Vault"
	if m.svc.Session().Unlocked() {
		vault = ui.IconUnlock + " The Vault"
	}
	momentum := m.palette.Tab.Render("Momentum")
	vaultTab := m.palette.Tab.Render(vault)
	if m.tab == tabMomentum && m.mode != modePIN && m.mode != modeRecovery {
		momentum = m.palette.ActiveTab.Render("Momentum")
	} else {
		vaultTab = m.palette.ActiveTab.Render(vault)
	}
	return momentum + " " + vaultTab
}

func (m Model) renderFooter() string {
	var lines []string
	if n := m.notice; n != nil {
		lines = append(lines, renderNotice(*n))
	}
	lines = append(lines, ui.Muted.Render(m.lastLog))
	lines = append(lines, ui.Muted.Render(m.help()))
	return strings.Join(lines, "\n")
}

func renderNotice(n engine.Notice) string {
	text := n.Title
	if n.Detail != "" {
		text += ": " + n.Detail
	}
	switch n.Kind {
	case engine.NoticeSuccess:
		return ui.Good.Render(ui.IconDone + " " + text)
	case engine.NoticeError:
		return ui.Bad.Render(ui.IconError + " " + text)
	default:
		return ui.H2.Render(ui.IconInfo + " " + text)
	}
}

func (m Model) help() string {
	switch m.mode {
	case modeAddTodo, modeAddGoal:
		return "tab: next field • enter: save • esc: cancel"
	case modeSearch:
		return "type to filter • enter: keep • esc: clear"
	case modePIN:
		return "0-9: digit • backspace: erase • f: forgot PIN • esc: back"
	case modeRecovery:
		return "tab: next field • enter: verify • esc: back to PIN"
	}
	if m.tab == tabVault {
		return "j/k: move • +: progress • m: complete • d: delete • a: add • /: search • h/l: page • L: lock • t: theme • q: quit"
	}
	return "j/k: move • space: toggle • d: delete • D: clear done • a: add • /: search • f/c/p/s: filter, sort • t: theme • q: quit"
}
