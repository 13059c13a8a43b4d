package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/locale"
	"github.com/tartampluch/go-celebrations/internal/report"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// printer renders command output; colours are dropped when w is not a terminal.
type printer struct {
	w       io.Writer
	heading lipgloss.Style
	accent  lipgloss.Style
	muted   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color(config.ColorHeading)),
		accent:  r.NewStyle().Foreground(lipgloss.Color(config.ColorAccent)),
		muted:   r.NewStyle().Foreground(lipgloss.Color(config.ColorMuted)),
	}
}

func (p *printer) title(text string) {
	fmt.Fprintln(p.w, p.heading.Render(text))
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) celebrations(tr *locale.Translator, today time.Time, birthdays, anniversaries []engine.Employee) {
	p.title(tr.Msg(config.TKeyHeadingToday, map[string]any{
		"Date": report.FormatDate(today, config.DateStyleFull),
	}))
	if len(birthdays) == 0 && len(anniversaries) == 0 {
		p.line("%s", p.muted.Render(tr.Msg(config.TKeyNothingToday, nil)))
		return
	}
	p.group(tr, engine.EventBirthday, today, birthdays)
	p.group(tr, engine.EventAnniversary, today, anniversaries)
}

func (p *printer) group(tr *locale.Translator, et engine.EventType, today time.Time, employees []engine.Employee) {
	for _, e := range employees {
		var n int
		var err error
		if et == engine.EventBirthday {
			n, err = e.Age(today)
		} else {
			n, err = e.Tenure(today)
		}
		if err != nil {
			continue
		}
		p.line("  %s  %s  %s", p.accent.Render(tr.TypeLabel(et)), e.Name, p.muted.Render(tr.Detail(et, n)))
	}
}

func (p *printer) upcoming(tr *locale.Translator, horizon int, events []engine.UpcomingEvent) {
	p.title(tr.Count(config.TKeyHeadingUpcoming, horizon, nil))
	for _, ev := range events {
		p.line("  %-10s %4dd  %-18s %s  %s",
			report.FormatDate(ev.EventDate, config.DateStyleShort),
			ev.DaysUntil,
			tr.TypeLabel(ev.Type),
			ev.EmployeeName,
			p.muted.Render(ev.Detail),
		)
	}
}

func (p *printer) month(tr *locale.Translator, view engine.MonthView) {
	first := time.Date(view.Year, view.Month, 1, 0, 0, 0, 0, time.Local)
	p.title(first.Format("January 2006"))
	p.line("%s", strings.Join(weekdayHeader, "  "))

	var row strings.Builder
	col := 0
	for ; col < view.LeadingBlanks; col++ {
		row.WriteString("    ")
	}
	for _, cell := range view.Days {
		text := fmt.Sprintf("%2d", cell.Day)
		if cell.HasEvents() {
			text = p.accent.Render(text + "*")
		} else {
			text += " "
		}
		row.WriteString(text + " ")
		col++
		if col%7 == 0 {
			p.line("%s", strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	if row.Len() > 0 {
		p.line("%s", strings.TrimRight(row.String(), " "))
	}

	for _, cell := range view.Days {
		for _, e := range cell.Birthdays {
			p.line("  %2d  %s  %s", cell.Day, tr.TypeLabel(engine.EventBirthday), e.Name)
		}
		for _, e := range cell.Anniversaries {
			p.line("  %2d  %s  %s", cell.Day, tr.TypeLabel(engine.EventAnniversary), e.Name)
		}
	}
}

func (p *printer) stats(tr *locale.Translator, s engine.Stats) {
	p.title(tr.Msg(config.TKeyHeadingStats, nil))
	rows := []struct {
		label string
		value string
	}{
		{config.MsgCLITotal, fmt.Sprint(s.Total)},
		{config.MsgCLIDepts, fmt.Sprint(s.Departments)},
		{config.MsgCLIBdToday, fmt.Sprint(s.BirthdaysToday)},
		{config.MsgCLIAnToday, fmt.Sprint(s.AnniversariesToday)},
		{config.MsgCLIBdMonth, fmt.Sprint(s.BirthdaysThisMonth)},
		{config.MsgCLIAnMonth, fmt.Sprint(s.AnniversariesThisMonth)},
		{config.MsgCLIAvgAge, s.AverageAge.StringFixed(1)},
		{config.MsgCLIAvgTen, s.AverageTenure.StringFixed(1)},
	}
	for _, r := range rows {
		p.line("  %-26s %s", r.label, p.accent.Render(r.value))
	}
}
