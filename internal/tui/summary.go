package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/multitimer/internal/timer"
)

type summaryMode int

const (
	summaryByCategory summaryMode = iota
	summaryByDay
)

type summaryModel struct {
	width  int
	height int

	mode summaryMode
	snap timer.Snapshot
	now  func() time.Time

	chart barchart.Model
	built int // history length the chart was drawn for, -1 forces a redraw
}

func newSummaryModel() summaryModel {
	return summaryModel{
		now:   time.Now,
		chart: barchart.New(60, 12),
		built: -1,
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.built = -1
	s.buildChart()
}

func (s *summaryModel) setSnapshot(snap timer.Snapshot) {
	s.snap = snap
	if s.built != len(snap.History) {
		s.buildChart()
	}
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Filter), key.Matches(keyMsg, keys.Left), key.Matches(keyMsg, keys.Right):
			if s.mode == summaryByCategory {
				s.mode = summaryByDay
			} else {
				s.mode = summaryByCategory
			}
			s.buildChart()
		}
	}
	return s, nil
}

// categoryOrder is the configured categories followed by any category seen
// only in history.
func (s summaryModel) categoryOrder() []string {
	order := append([]string(nil), s.snap.Categories...)
	for _, c := range timer.HistoryCategories(s.snap.History) {
		if !slices.Contains(order, c) {
			order = append(order, c)
		}
	}
	return order
}

func (s *summaryModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}
	s.chart = barchart.New(chartWidth, chartHeight)
	s.built = len(s.snap.History)

	var bars []barchart.BarData
	switch s.mode {
	case summaryByDay:
		bars = s.dailyBars()
	default:
		bars = s.categoryBars()
	}
	if len(bars) == 0 {
		return
	}
	s.chart.PushAll(bars)
	s.chart.Draw()
}

// categoryBars has one bar per category, valued in minutes.
func (s summaryModel) categoryBars() []barchart.BarData {
	totals := timer.SecondsByCategory(s.snap.History)
	var bars []barchart.BarData
	for _, c := range s.categoryOrder() {
		secs, ok := totals[c]
		if !ok {
			continue
		}
		bars = append(bars, barchart.BarData{
			Label: c,
			Values: []barchart.BarValue{{
				Name:  c,
				Value: float64(secs) / 60,
				Style: lipgloss.NewStyle().Foreground(categoryColor(s.snap.Categories, c)),
			}},
		})
	}
	return bars
}

// dailyBars stacks minutes per category for each of the last seven days.
func (s summaryModel) dailyBars() []barchart.BarData {
	now := s.now().Local()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	start := today.AddDate(0, 0, -6)

	perDay := make(map[string]map[string]int)
	for _, e := range s.snap.History {
		day := e.CompletedAt.Local().Format("2006-01-02")
		if perDay[day] == nil {
			perDay[day] = make(map[string]int)
		}
		perDay[day][e.Category] += e.Duration
	}

	var bars []barchart.BarData
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		var values []barchart.BarValue
		for _, c := range s.categoryOrder() {
			secs := perDay[d.Format("2006-01-02")][c]
			if secs == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  c,
				Value: float64(secs) / 60,
				Style: lipgloss.NewStyle().Foreground(categoryColor(s.snap.Categories, c)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{Label: d.Format("Mon 02"), Values: values})
	}
	return bars
}

func (s summaryModel) view() string {
	w := s.width - 4

	byCategory := inactiveTabStyle.Render("By category")
	byDay := inactiveTabStyle.Render("Last 7 days")
	if s.mode == summaryByCategory {
		byCategory = activeTabStyle.Render("By category")
	} else {
		byDay = activeTabStyle.Render("Last 7 days")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Summary"), "  ", byCategory, byDay,
		"  ", mutedStyle.Render("minutes completed"),
	)

	chartView := mutedStyle.Render("  Nothing completed yet")
	if len(s.snap.History) > 0 {
		chartView = s.chart.View()
	}

	nav := mutedStyle.Render("  f/←/→: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", s.renderLegend(), "", s.renderTable(w), "", nav,
		),
	)
}

func (s summaryModel) renderTable(w int) string {
	groups := timer.GroupByCategory(s.snap.Timers, s.snap.Categories)
	totals := timer.SecondsByCategory(s.snap.History)
	runs := make(map[string]int)
	for _, e := range s.snap.History {
		runs[e.Category]++
	}
	timers := make(map[string]timer.Group, len(groups))
	for _, g := range groups {
		timers[g.Name] = g
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %7s %8s %6s %6s %10s", "Category", "Timers", "Running", "Done", "Runs", "Time")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(max(w-6, 10), 56))))
	for _, c := range s.categoryOrder() {
		g := timers[c]
		if len(g.Timers) == 0 && runs[c] == 0 {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(categoryColor(s.snap.Categories, c)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-12s %7d %8d %6d %6d %10s",
			dot, truncate(c, 12), len(g.Timers), g.Running, g.Completed, runs[c], formatHours(totals[c]),
		))
	}
	if len(rows) == 2 {
		return mutedStyle.Render("  No timers or history")
	}
	return strings.Join(rows, "\n")
}

func (s summaryModel) renderLegend() string {
	var items []string
	for _, c := range s.categoryOrder() {
		dot := lipgloss.NewStyle().Foreground(categoryColor(s.snap.Categories, c)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, c))
	}
	return "  " + strings.Join(items, "  ")
}
