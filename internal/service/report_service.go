package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
)

const progressBarWidth = 10

// ReportService builds human-readable summaries of a session.
type ReportService struct {
	loc *time.Location
}

func NewReportService(loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{loc: loc}
}

// DailySummary renders today's goal, completions and mood.
func (s *ReportService) DailySummary(view ledger.View, now time.Time) string {
	now = now.In(s.loc)
	today := ledger.DayKey(now)

	var builder strings.Builder
	builder.WriteString("🌿 <b>Tu día</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	daily := view.Daily
	if daily.Day != today {
		daily = ledger.DailyProgress{Goal: daily.Goal, Day: today}
	}
	builder.WriteString(fmt.Sprintf("🎯 Meta diaria: <b>%d/%d</b>\n", daily.Completed, daily.Goal))
	builder.WriteString(ProgressBar(goalPercent(daily), progressBarWidth))
	builder.WriteString("\n")
	if daily.Completed >= daily.Goal {
		builder.WriteString("🏆 ¡Meta cumplida!\n")
	}

	builder.WriteString("\n✅ <b>Completadas hoy</b>\n")
	completed := completedOn(view.History, today)
	if len(completed) == 0 {
		builder.WriteString("— todavía ninguna\n")
	} else {
		for _, entry := range completed {
			builder.WriteString(formatHistoryEntry(entry, s.loc))
		}
	}

	builder.WriteString("\n💭 <b>Ánimo</b>\n")
	if view.TodayMood != nil {
		mood := model.MoodLabels[*view.TodayMood]
		builder.WriteString(fmt.Sprintf("%s %s\n", mood.Emoji, mood.Text))
	} else {
		builder.WriteString("— aún no lo registraste, usa /animo\n")
	}

	return strings.TrimSpace(builder.String())
}

// HistorySummary renders the most recent completions, newest first.
func (s *ReportService) HistorySummary(view ledger.View, limit int) string {
	var builder strings.Builder
	builder.WriteString("📜 <b>Historial</b>\n")
	count := 0
	for _, entry := range view.History {
		if entry.Progress < 100 {
			continue
		}
		if limit > 0 && count == limit {
			break
		}
		builder.WriteString(formatHistoryEntry(entry, s.loc))
		count++
	}
	if count == 0 {
		builder.WriteString("— sin actividades completadas\n")
	}
	return strings.TrimSpace(builder.String())
}

// MoodSummary renders the mood journal, newest first.
func (s *ReportService) MoodSummary(view ledger.View, limit int) string {
	var builder strings.Builder
	builder.WriteString("💭 <b>Historial de ánimo</b>\n")
	if len(view.MoodHistory) == 0 {
		builder.WriteString("— sin registros\n")
	}
	for i, entry := range view.MoodHistory {
		if limit > 0 && i == limit {
			break
		}
		if entry.MoodIndex < 0 || entry.MoodIndex >= len(model.MoodLabels) {
			continue
		}
		mood := model.MoodLabels[entry.MoodIndex]
		builder.WriteString(fmt.Sprintf("%s %s · %s\n", mood.Emoji, mood.Text, entry.CreatedAt.In(s.loc).Format("02.01.2006 15:04")))
	}
	return strings.TrimSpace(builder.String())
}

// ProgressBar draws a fixed-width bar for a percentage.
func ProgressBar(percent, width int) string {
	percent = ledger.Clamp(percent)
	filled := percent * width / 100
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled) + fmt.Sprintf(" %d%%", percent)
}

func goalPercent(daily ledger.DailyProgress) int {
	if daily.Goal <= 0 {
		return 0
	}
	return daily.Completed * 100 / daily.Goal
}

func completedOn(history []model.HistoryEntry, day string) []model.HistoryEntry {
	var out []model.HistoryEntry
	for _, entry := range history {
		if entry.Progress >= 100 && ledger.DayKey(entry.LastUpdated) == day {
			out = append(out, entry)
		}
	}
	return out
}

func formatHistoryEntry(entry model.HistoryEntry, loc *time.Location) string {
	var sb strings.Builder
	title := strings.TrimSpace(entry.ActivityTitle)
	if title == "" {
		title = "#" + entry.ActivityID
	}
	sb.WriteString(fmt.Sprintf("• %s", html.EscapeString(title)))
	if entry.CategoryName != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(entry.CategoryName)))
	}
	if entry.ActivityDuration != "" {
		sb.WriteString(fmt.Sprintf(" · %s", html.EscapeString(entry.ActivityDuration)))
	}
	sb.WriteString(fmt.Sprintf(" · %s", entry.LastUpdated.In(loc).Format("02.01 15:04")))
	sb.WriteByte('\n')
	return sb.String()
}
