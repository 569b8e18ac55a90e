package tui

import (
	"strings"

	"github.com/MuhamedUsman/rmshelf/internal/session"
	"github.com/MuhamedUsman/rmshelf/internal/tui/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	folderIcon = "📁"
	docIcon    = "📄"
	// used until the first tea.WindowSizeMsg arrives
	defaultTermW, defaultTermH = 80, 24
	maxDialogW                 = 60
)

func (m MainModel) View() string {
	w, h := m.termW, m.termH
	if w <= 0 || h <= 0 {
		w, h = defaultTermW, defaultTermH
	}
	innerW := max(0, w-mainContainerStyle.GetHorizontalFrameSize())
	innerH := max(0, h-mainContainerStyle.GetVerticalFrameSize())

	title := m.renderTitle(innerW)
	status := m.renderStatus(innerW)
	helpView := m.renderHelp(innerW)
	listH := innerH - lipgloss.Height(title) - lipgloss.Height(status) - lipgloss.Height(helpView)

	view := lipgloss.JoinVertical(lipgloss.Left, title, m.renderEntries(innerW, listH), status, helpView)
	if m.st.Mode() != session.Normal {
		view = overlay.Place(lipgloss.Center, lipgloss.Center, view, m.renderInputDialog(innerW))
	}
	return mainContainerStyle.
		Width(max(0, w-mainContainerStyle.GetHorizontalBorderSize())).
		Height(max(0, h-mainContainerStyle.GetVerticalBorderSize())).
		Render(view)
}

func (m MainModel) renderTitle(w int) string {
	brand := renderGradient("rmshelf", highlightColor, yellowColor)
	loc := "Documents / (Root)"
	if !m.st.Current().IsRoot() {
		loc = "Documents / " + string(m.st.Current())
	}
	avail := max(0, w-lipgloss.Width(brand)-1-titleStyle.GetHorizontalFrameSize())
	loc = runewidth.Truncate(loc, avail, "…")
	return lipgloss.JoinHorizontal(lipgloss.Top, brand, " ", titleStyle.Foreground(highlightColor).Render(loc))
}

// renderEntries shows the slice of the listing that fits in h rows and
// keeps the cursor row inside it.
func (m MainModel) renderEntries(w, h int) string {
	entries := m.st.Entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().Height(max(h, 1)).Render(emptyListStyle.Render("No items."))
	}
	rows := max(h, 1)
	sel := m.st.Selection()
	start := 0
	if sel >= rows {
		start = sel - rows + 1
	}
	end := min(len(entries), start+rows)

	nameW := max(1, w-runewidth.StringWidth(folderIcon)-cellStyle.GetHorizontalFrameSize()*2)
	data := make([][]string, 0, end-start)
	for _, e := range entries[start:end] {
		icon := docIcon
		if e.IsFolder() {
			icon = folderIcon
		}
		data = append(data, []string{icon, runewidth.Truncate(e.Name, nameW, "…")})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Wrap(false).
		Width(w).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return cellStyle
			}
			if start+row == sel {
				return selectedCellStyle
			}
			if entries[start+row].IsFolder() {
				return folderCellStyle
			}
			return cellStyle
		})
	return lipgloss.NewStyle().Height(rows).Render(t.Render())
}

func (m MainModel) renderStatus(w int) string {
	status := m.st.Status()
	if m.quitting {
		status = "Waiting for background tasks to finish..."
	}
	prefix := ""
	if m.st.Pending() > 0 {
		prefix = m.spinner.View() + " "
	}
	status = runewidth.Truncate(status, max(0, w-lipgloss.Width(prefix)), "…")
	style := statusBarStyle
	if strings.HasPrefix(status, "Error:") {
		style = errStatusStyle
	}
	return style.Render(prefix + status)
}

func (m MainModel) renderHelp(w int) string {
	m.help.Width = w
	if m.st.Mode() != session.Normal {
		return m.help.View(m.inputKeys)
	}
	return m.help.View(m.keys)
}

func (m MainModel) renderInputDialog(w int) string {
	dialogW := min(maxDialogW, w)
	textW := max(1, dialogW-inputDialogContainerStyle.GetHorizontalFrameSize())

	header, body := "Upload", "Enter the path of the local file to upload."
	if m.st.Mode() == session.AwaitingDownloadPath {
		header, body = "Download", "Enter a destination path. A path ending in a separator is treated as a directory."
		if e, ok := m.st.Selected(); ok {
			body = "Download " + e.Name + " to:\n" + body
		}
	}
	body = wordwrap.String(body, textW)

	prompt := inputPromptStyle.Render("> ")
	// keep the end of long paths visible
	input := m.st.Input()
	if avail := textW - lipgloss.Width(prompt) - 1; runewidth.StringWidth(input) > avail {
		input = runewidth.TruncateLeft(input, runewidth.StringWidth(input)-avail+1, "…")
	}
	line := prompt + inputTextStyle.Render(input) + "█"

	content := lipgloss.JoinVertical(lipgloss.Left,
		inputDialogHeaderStyle.Render(header),
		inputDialogBodyStyle.Width(textW).Render(body),
		line,
	)
	return inputDialogContainerStyle.Width(dialogW - inputDialogContainerStyle.GetHorizontalBorderSize()).Render(content)
}
