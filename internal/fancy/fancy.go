// Package fancy provides pretty printing utilities and styling for CLI output
package fancy

import (
	"fmt"
	"strings"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Tree returns a new tree with common styling applied
func Tree() *tree.Tree {
	t := tree.New()
	t.EnumeratorStyle(BranchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	return t
}

// BranchNode creates a styled section header node
func BranchNode(title string, detail string) *tree.Tree {
	return tree.New().Root(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			HeaderStyle.Render(title),
			" ",
			InfoStyle.Render(detail),
		),
	)
}

// PhaseBadge renders a phase in its own color, e.g. "● GREEN".
func PhaseBadge(p phase.Phase) string {
	label := fmt.Sprintf("● %s", strings.ToUpper(p.String()))
	switch p {
	case phase.Green:
		return GreenPhaseStyle.Render(label)
	case phase.Red:
		return RedPhaseStyle.Render(label)
	default:
		return InfoStyle.Render(label)
	}
}

// HistoryTree renders a list of phase changes under a titled root.
func HistoryTree(title string, changes []phase.Change) *tree.Tree {
	t := Tree()
	t.Root(RootStyle.Render(title))
	if len(changes) == 0 {
		t.Child(InfoStyle.Render("no phase changes"))
		return t
	}
	for _, c := range changes {
		t.Child(lipgloss.JoinHorizontal(
			lipgloss.Top,
			InfoStyle.Render(c.At.Format("15:04:05.000")),
			" ",
			PhaseBadge(c.To),
			" ",
			InfoStyle.Render(fmt.Sprintf("after %s %s", c.Dwell.Round(time.Millisecond), c.From)),
		))
	}
	return t
}
