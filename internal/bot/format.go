package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
	"wellness-tracker/internal/service"
)

var errBadArgs = errors.New("bad arguments")

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCatalog),
			tgbotapi.NewKeyboardButton(menuLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelMood),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func percentKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("25"),
			tgbotapi.NewKeyboardButton("50"),
			tgbotapi.NewKeyboardButton("75"),
			tgbotapi.NewKeyboardButton("100"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func moodKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(model.MoodLabels))
	for i, mood := range model.MoodLabels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mood.Emoji+" "+mood.Text, fmt.Sprintf("%s%d", cbMoodPrefix, i)))
	}
	// Five labels do not fit one row on small screens.
	return tgbotapi.NewInlineKeyboardMarkup(row[:3], row[3:])
}

func activityButtons(activity model.Activity) []tgbotapi.InlineKeyboardButton {
	star := "☆"
	if activity.Favorite {
		star = "⭐"
	}
	var row []tgbotapi.InlineKeyboardButton
	if activity.Progress < 100 {
		row = append(row,
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %s", shortTitle(activity.Title, activityTitleWidth)), cbCompletePrefix+activity.ID),
			tgbotapi.NewInlineKeyboardButtonData("📈", cbProgressPrefix+activity.ID),
		)
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✔️ %s", shortTitle(activity.Title, activityTitleWidth)), cbProgressPrefix+activity.ID))
	}
	return append(row, tgbotapi.NewInlineKeyboardButtonData(star, cbFavoritePrefix+activity.ID))
}

func formatActivity(activity model.Activity) string {
	var b strings.Builder
	icon := "▫️"
	switch {
	case activity.Progress >= 100:
		icon = "✅"
	case activity.Progress > 0:
		icon = "⏳"
	}
	b.WriteString(fmt.Sprintf("%s <b>#%s</b> %s", icon, activity.ID, escape(normalizeTitle(activity.Title))))
	if activity.Favorite {
		b.WriteString(" ⭐")
	}
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("   ⏱ %s", escape(activity.Duration)))
	if activity.Progress > 0 {
		b.WriteString(fmt.Sprintf(" · %d%%", activity.Progress))
	}
	b.WriteByte('\n')
	return b.String()
}

func progressReply(activity model.Activity, progress int, daily ledger.DailyProgress) string {
	title := activity.Title
	if title == "" {
		title = "#" + activity.ID
	}
	var b strings.Builder
	if progress >= 100 {
		b.WriteString(fmt.Sprintf("✅ «%s» completada.\n", escape(normalizeTitle(title))))
	} else {
		b.WriteString(fmt.Sprintf("⏳ «%s»: %d%%\n", escape(normalizeTitle(title)), progress))
	}
	b.WriteString(fmt.Sprintf("🎯 Meta diaria: <b>%d/%d</b>\n", daily.Completed, daily.Goal))
	percent := 0
	if daily.Goal > 0 {
		percent = daily.Completed * 100 / daily.Goal
	}
	b.WriteString(service.ProgressBar(percent, 10))
	if daily.Completed >= daily.Goal {
		b.WriteString("\n🏆 ¡Meta cumplida!")
	}
	return b.String()
}

// parseProgressArgs reads "<id> <percent>" from /progreso arguments.
func parseProgressArgs(args string) (string, int, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, errBadArgs
	}
	progress, err := parsePercent(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], progress, nil
}

// parsePercent accepts "50" or "50%". Values above 100 are left to the ledger
// to clamp; negatives and junk are refused.
func parsePercent(raw string) (int, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errBadArgs
	}
	return value, nil
}

func parseCallback(data string) (prefix, value string, ok bool) {
	for _, p := range []string{cbCompletePrefix, cbFavoritePrefix, cbProgressPrefix, cbMoodPrefix} {
		if strings.HasPrefix(data, p) {
			value = strings.TrimPrefix(data, p)
			return p, value, value != ""
		}
	}
	return "", "", false
}

func isCancelInput(text string) bool {
	text = strings.TrimSpace(strings.ToLower(text))
	return text == strings.ToLower(btnCancel) || text == "cancelar"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
