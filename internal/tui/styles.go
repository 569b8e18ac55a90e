package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var ( // color scheme from https://github.com/morhetz/gruvbox

	fgColor               = lipgloss.AdaptiveColor{Light: "#282828", Dark: "#fbf1c7"}
	redColor              = lipgloss.AdaptiveColor{Light: "#9d0006", Dark: "#fb4934"}
	yellowColor           = lipgloss.AdaptiveColor{Light: "#b57614", Dark: "#fabd2f"}
	highlightColor        = lipgloss.AdaptiveColor{Light: "#4e562a", Dark: "#ECFD65"}
	midHighlightColor     = lipgloss.AdaptiveColor{Light: "#9DA947", Dark: "#9DA947"}
	subduedHighlightColor = lipgloss.AdaptiveColor{Light: "#ECFD65", Dark: "#4e562a"}
	grayColor             = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#444444"}

	generateGradient = func(base, target lipgloss.AdaptiveColor, steps int) []lipgloss.AdaptiveColor {
		bLight, _ := colorful.Hex(base.Light)
		bDark, _ := colorful.Hex(base.Dark)
		tLight, _ := colorful.Hex(target.Light)
		tDark, _ := colorful.Hex(target.Dark)
		gradient := make([]lipgloss.AdaptiveColor, steps)
		for i := range steps {
			factor := float64(i) / float64(max(steps, 1))
			gradient[i] = lipgloss.AdaptiveColor{
				Light: bLight.BlendLuv(tLight, factor).Hex(),
				Dark:  bDark.BlendLuv(tDark, factor).Hex(),
			}
		}
		return gradient
	}
)

// renderGradient colors every rune of s on a gradient from base to target.
func renderGradient(s string, base, target lipgloss.AdaptiveColor) string {
	runes := []rune(s)
	colors := generateGradient(base, target, len(runes))
	var sb strings.Builder
	for i, r := range runes {
		sb.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Bold(true).Render(string(r)))
	}
	return sb.String()
}

var ( // layout

	mainContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(highlightColor).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(grayColor).
			Italic(true).
			Height(1).
			Padding(0, 1).
			MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			MarginTop(1).
			Height(1).
			Italic(true).
			Foreground(highlightColor).
			Faint(true)

	errStatusStyle = statusBarStyle.
			Foreground(redColor).
			Faint(false)

	spinnerStyle = lipgloss.NewStyle().Foreground(yellowColor)

	emptyListStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			PaddingLeft(2).
			Italic(true).
			Faint(true)
)

var ( // entries table

	cellStyle = lipgloss.NewStyle().
			Foreground(midHighlightColor).
			Padding(0, 1)

	selectedCellStyle = cellStyle.
				Background(subduedHighlightColor).
				Foreground(highlightColor).
				Italic(true)

	folderCellStyle = cellStyle.Foreground(yellowColor)
)

var ( // path input dialog

	inputDialogContainerStyle = lipgloss.NewStyle().
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(highlightColor).
					Padding(1, 2)

	inputDialogHeaderStyle = lipgloss.NewStyle().
				Background(highlightColor).
				Foreground(subduedHighlightColor).
				Padding(0, 1).
				Faint(true)

	inputDialogBodyStyle = lipgloss.NewStyle().
				Italic(true).
				Padding(1, 0).
				Foreground(highlightColor)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(highlightColor).
				Faint(true)

	inputTextStyle = lipgloss.NewStyle().
			Foreground(fgColor)
)

func customHelpStyles(s help.Styles) help.Styles {
	s.FullSeparator = s.FullSeparator.Foreground(highlightColor).Faint(true)
	s.ShortSeparator = s.ShortSeparator.Foreground(highlightColor).Faint(true)
	s.ShortKey = s.ShortKey.Foreground(highlightColor).Faint(true)
	s.FullKey = s.FullKey.Foreground(highlightColor).Faint(true)
	s.FullDesc = s.FullDesc.Foreground(midHighlightColor)
	s.ShortDesc = s.ShortDesc.Foreground(midHighlightColor)
	return s
}
