package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

func (m Model) updateVault(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, err := m.svc.Resolutions()
	if err != nil {
		return m.switchTab(tabVault)
	}
	page := res.Paginate(m.goalSearch, m.opts.PageSize, m.page)
	selected := func() (engine.Resolution, bool) {
		if m.goalCursor < 0 || m.goalCursor >= len(page.Items) {
			return engine.Resolution{}, false
		}
		return page.Items[m.goalCursor], true
	}

	switch msg.String() {
	case "up", "k":
		if m.goalCursor > 0 {
			m.goalCursor--
		}
	case "down", "j":
		if m.goalCursor < len(page.Items)-1 {
			m.goalCursor++
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			m.goalCursor = 0
		}
	case "right", "l":
		if m.page < page.TotalPages {
			m.page++
			m.goalCursor = 0
		}
	case "+", "=":
		if g, ok := selected(); ok {
			got, err := res.Increment(m.ctx, g.ID)
			m.warnIf(err)
			if got != nil && got.IsCompleted() {
				m.lastLog = ui.IconTrophy + " Sealed " + got.Title
			}
		}
	case "m", "enter":
		if g, ok := selected(); ok {
			_, err := res.MarkComplete(m.ctx, g.ID)
			m.lastLog = ui.IconTrophy + " Sealed " + g.Title
			m.warnIf(err)
		}
	case "d":
		if g, ok := selected(); ok {
			_, err := res.Delete(m.ctx, g.ID)
			m.lastLog = "Deleted " + g.Title
			m.warnIf(err)
			m.clampGoalCursor(res)
		}
	case "a":
		m.form = newForm("New resolution", "Title", "Category", "Target", "Unit")
		m.form.setValue(1, string(engine.DefaultResolutionCategory))
		m.form.setValue(2, strconv.Itoa(engine.DefaultResolutionTarget))
		m.form.setValue(3, engine.DefaultResolutionUnit)
		m.mode = modeAddGoal
		m.notice = nil
	case "/":
		m.form = newForm("Search resolutions", "Search")
		m.form.setValue(0, m.goalSearch)
		m.mode = modeSearch
	case "L":
		m.svc.Session().Lock()
		m.auth = nil
		m.tab = tabMomentum
		m.lastLog = ui.IconLock + " Vault locked."
	}
	return m, nil
}

func (m *Model) clampGoalCursor(res *engine.Resolutions) {
	page := res.Paginate(m.goalSearch, m.opts.PageSize, m.page)
	if len(page.Items) == 0 && m.page > 1 {
		m.page--
		page = res.Paginate(m.goalSearch, m.opts.PageSize, m.page)
	}
	if m.goalCursor >= len(page.Items) {
		m.goalCursor = len(page.Items) - 1
	}
	if m.goalCursor < 0 {
		m.goalCursor = 0
	}
}

func (m Model) submitGoal() (tea.Model, tea.Cmd) {
	res, err := m.svc.Resolutions()
	if err != nil {
		m.mode = modeBrowse
		return m.switchTab(tabVault)
	}
	cat, err := engine.ParseResolutionCategory(m.form.value(1))
	if err != nil {
		m.showError("Invalid resolution", err)
		return m, nil
	}
	var target float64
	if s := m.form.value(2); s != "" {
		target, err = strconv.ParseFloat(s, 64)
		if err != nil {
			m.showError("Invalid resolution", fmt.Errorf("target must be a number"))
			return m, nil
		}
	}
	g, err := res.Add(m.ctx, engine.AddResolutionInput{
		Title:    m.form.value(0),
		Category: cat,
		Target:   target,
		Unit:     m.form.value(3),
	})
	if err != nil && !engine.IsPersistError(err) {
		m.showError("Invalid resolution", err)
		return m, nil
	}
	m.mode = modeBrowse
	m.warnIf(err)
	if g != nil {
		m.notice = nil
		m.lastLog = ui.IconPlus + " Added " + g.Title
	}
	return m, nil
}

func (m Model) updatePIN(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.auth = nil
		m.mode = modeBrowse
		m.tab = tabMomentum
		m.notice = nil
		return m, nil
	case "backspace":
		m.auth.Backspace()
		return m, nil
	case "enter":
		return m.submitPIN()
	case "f", "?":
		if m.auth.ForgotPIN() {
			m.form = newForm("Recover access", "Birth year", "Index number")
			m.mode = modeRecovery
			m.notice = nil
		}
		return m, nil
	default:
		if len(key) == 1 && m.auth.PressDigit(rune(key[0])) && m.auth.EntryLen() == engine.PINLength {
			return m.submitPIN()
		}
		return m, nil
	}
}

func (m Model) submitPIN() (tea.Model, tea.Cmd) {
	res, err := m.auth.Submit(m.ctx)
	if res.Notice != nil {
		m.notice = res.Notice
	}
	m.warnIf(err)
	switch {
	case res.Shake:
		m.shakeSeq++
		return m, m.shakeCmd()
	case res.Unlocked:
		m.mode = modeBrowse
		m.tab = tabVault
		m.page = 1
		m.goalCursor = 0
	}
	return m, nil
}

func (m Model) updateRecovery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.auth.CancelRecovery()
		m.mode = modePIN
		m.notice = nil
		return m, nil
	case "enter":
		res, err := m.auth.SubmitRecovery(m.ctx, m.form.value(0), m.form.value(1))
		m.notice = res.Notice
		m.warnIf(err)
		if m.auth.Mode() == engine.ModeCreate {
			m.mode = modePIN
		}
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) renderPIN() string {
	if m.mode == modeRecovery {
		return ui.Heading(ui.IconLock, "Recover access") + "\n" +
			ui.Muted.Render("Answer both questions to erase the PIN.") + "\n\n" + m.form.view()
	}

	var title string
	switch m.auth.Mode() {
	case engine.ModeCreate:
		title = "Create a 4-digit PIN"
	case engine.ModeConfirm:
		title = "Confirm your PIN"
	default:
		title = "Enter PIN"
	}

	dots := make([]string, engine.PINLength)
	for i := range dots {
		if i < m.auth.EntryLen() {
			dots[i] = "●"
		} else {
			dots[i] = "○"
		}
	}
	pad := strings.Join(dots, " ")
	if m.auth.Shaking() {
		pad = "   " + ui.Bad.Render(pad)
	}

	lines := []string{
		ui.Heading(ui.IconLock, "The Vault"),
		ui.H2.Render(title),
		"",
		pad,
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderVault() string {
	res, err := m.svc.Resolutions()
	if err != nil {
		return ui.Muted.Render("The Vault is locked.")
	}
	st := res.Stats()
	page := res.Paginate(m.goalSearch, m.opts.PageSize, m.page)

	var out []string
	out = append(out, ui.H2.Render("The Vault")+"  "+
		fmt.Sprintf("%d resolutions • %d sealed • overall %s %s", st.Total, st.Sealed, ui.ProgressBar(float64(st.OverallProgress)/100, 20), ui.Percent(st.OverallProgress)))
	if m.goalSearch != "" {
		out = append(out, ui.Muted.Render(fmt.Sprintf("search:%q", m.goalSearch)))
	}
	out = append(out, "")

	if len(page.Items) == 0 {
		if st.Total == 0 {
			out = append(out, ui.Muted.Render("No resolutions yet. Press a to add one."))
		} else {
			out = append(out, ui.Muted.Render("Nothing on this page."))
		}
		return strings.Join(out, "\n")
	}
	for i, g := range page.Items {
		cursor := "  "
		if i == m.goalCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s %s %s/%s %s",
			cursor, g.Title, ui.CategoryText(string(g.Category)), ui.ProgressBar(g.Progress(), 20),
			formatAmount(g.Current), formatAmount(g.Target), g.Unit)
		if g.IsCompleted() {
			line += " " + ui.BadgeSealed
		}
		out = append(out, line)
	}
	out = append(out, "", ui.Muted.Render(fmt.Sprintf("Page %d of %d", page.Page, max(page.TotalPages, 1))))
	return strings.Join(out, "\n")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
