package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wordguess/internal/reward"
	"github.com/vovakirdan/wordguess/internal/score"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	clueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	widgetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("208")).
			Padding(0, 1).
			Width(toastWidth)

	pinnedToastStyle = toastStyle.
				BorderForeground(lipgloss.Color("13"))
)

const (
	toastWidth = 44
	barWidth   = 20
)

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

// renderWidgets renders the score, streak and accuracy boxes side by side.
func renderWidgets(s score.Session) string {
	acc := 0
	if s.TotalAnswered > 0 {
		acc = s.CorrectAnswers * 100 / s.TotalAnswered
	}
	streak := fmt.Sprintf("Streak %d", s.CurrentStreak)
	if s.CurrentStreak >= 2 {
		streak = warnStyle.Render(streak + " 🔥")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		widgetStyle.Render(titleStyle.Render(fmt.Sprintf("Score %d", s.CurrentScore))),
		" ",
		widgetStyle.Render(streak),
		" ",
		widgetStyle.Render(fmt.Sprintf("Best %d", s.MaxStreak)),
		" ",
		widgetStyle.Render(fmt.Sprintf("Acc %d%%", acc)),
	)
}

// renderCountdown draws the remaining time as a bar.
func renderCountdown(remaining, limit float64) string {
	if limit <= 0 {
		return dimStyle.Render("no time limit")
	}
	remaining = max(0, min(remaining, limit))
	filled := int(float64(barWidth) * remaining / limit)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	style := goodStyle
	switch {
	case remaining <= limit*0.25:
		style = badStyle
	case remaining <= limit*0.5:
		style = warnStyle
	}
	return style.Render(bar) + fmt.Sprintf(" %4.1fs", remaining)
}

// renderDelta describes the last scored answer.
func renderDelta(d score.Delta, answer string) string {
	if d.Error {
		return badStyle.Render("Scoring failed; your score is unchanged.")
	}
	switch d.Outcome {
	case score.Correct:
		var parts []string
		parts = append(parts, fmt.Sprintf("+%d", d.BaseScore))
		if d.TimeBonus > 0 {
			parts = append(parts, fmt.Sprintf("+%d speed", d.TimeBonus))
		}
		if d.StreakBonus > 0 {
			parts = append(parts, fmt.Sprintf("+%d streak", d.StreakBonus))
		}
		return goodStyle.Render("Correct! " + strings.Join(parts, " "))
	case score.Skipped:
		return warnStyle.Render(fmt.Sprintf("Skipped. It was %s.", answer))
	case score.Timeout:
		return warnStyle.Render(fmt.Sprintf("Time's up! It was %s.", answer))
	default:
		return badStyle.Render(fmt.Sprintf("Wrong. It was %s.", answer))
	}
}

// renderToast renders one reward record.
func renderToast(rec *reward.Record) string {
	var b strings.Builder
	title := fmt.Sprintf("%s %s", rec.Icon, rec.Title)
	if rec.Pinned {
		title += " 📌"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(renderEntry(rec.Data.Left))
	b.WriteString("\n")
	b.WriteString(renderEntry(rec.Data.Right))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(rec.Data.Comparison))

	if rec.Pinned {
		return pinnedToastStyle.Render(b.String())
	}
	return toastStyle.Render(b.String())
}

func renderEntry(e reward.Entry) string {
	return fmt.Sprintf("%s (%s) %s", e.Label, e.Caption, goodStyle.Render(e.Value))
}

// renderSummary renders the game-over report.
func renderSummary(s score.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final score    %d\n", s.FinalScore)
	fmt.Fprintf(&b, "Correct        %d/%d (%d%%)\n", s.CorrectAnswers, s.TotalAnswered, s.Accuracy)
	fmt.Fprintf(&b, "Best streak    %d\n", s.MaxStreak)
	fmt.Fprintf(&b, "Time           %s\n", s.Duration.Round(time.Second))
	fmt.Fprintf(&b, "Per minute     %d\n", s.ScorePerMinute)
	fmt.Fprintf(&b, "Bonuses        time %d, streak %d, special %d",
		s.Bonuses.Time, s.Bonuses.Streak, s.Bonuses.Special)
	return widgetStyle.Render(b.String())
}
