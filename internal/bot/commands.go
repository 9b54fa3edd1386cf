package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.login(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "amigo"
	}
	daily := sess.Snapshot().Daily

	text := fmt.Sprintf(
		"👋 ¡Hola, %s!\n<b>Te acompaño a cuidar tu bienestar cada día.</b>\n"+
			"🎯 Hoy llevas <b>%d/%d</b> actividades.\n\n"+
			"Comandos:\n"+
			"• /actividades — catálogo con tu progreso\n"+
			"• /completar &lt;id&gt; — marcar una actividad como hecha\n"+
			"• /hoy — resumen del día\n"+
			"• /animo — registrar cómo te sientes\n"+
			"• /ayuda — todos los comandos",
		escape(name), daily.Completed, daily.Goal,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Comandos</b>\n" +
		"• /actividades — catálogo con progreso y botones\n" +
		"• /progreso &lt;id&gt; &lt;0-100&gt; — guardar un porcentaje (por ejemplo, /progreso 101 50)\n" +
		"• /completar &lt;id&gt; — marcar como completada\n" +
		"• /favorito &lt;id&gt; — añadir o quitar de favoritos\n" +
		"• /hoy — meta diaria, completadas y ánimo\n" +
		"• /historial — últimas actividades completadas\n" +
		"• /animo — registrar tu ánimo (una vez al día)\n" +
		"• /animos — historial de ánimo\n" +
		"• /salir — cerrar sesión (vuelve con /start)\n" +
		"• /cancelar — cancelar la entrada actual"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCatalog(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.session(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	return b.sendCatalog(msg.Chat.ID, sess)
}

func (b *Bot) sendCatalog(chatID int64, sess *ledger.Session) error {
	b.sessions.Refresh(sess)
	view := sess.Snapshot()

	var builder strings.Builder
	builder.WriteString("📋 <b>Actividades</b>\n")
	builder.WriteString(fmt.Sprintf("🎯 Hoy: <b>%d/%d</b>\n\n", view.Daily.Completed, view.Daily.Goal))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, cat := range view.Catalog {
		builder.WriteString(fmt.Sprintf("%s <b>%s</b>\n", cat.Icon, escape(cat.Title)))
		for _, activity := range cat.Activities {
			builder.WriteString(formatActivity(activity))
			buttons = append(buttons, activityButtons(activity))
		}
		builder.WriteByte('\n')
	}

	return b.sendWithReplyMarkup(chatID, strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(buttons...))
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	activityID, progress, err := parseProgressArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Uso: /progreso &lt;id&gt; &lt;0-100&gt;, por ejemplo /progreso 101 50")
	}
	return b.updateProgress(ctx, msg.Chat.ID, msg.From, activityID, progress)
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	activityID := strings.TrimSpace(msg.CommandArguments())
	if activityID == "" {
		return b.sendText(msg.Chat.ID, "Indica la actividad: /completar 101")
	}
	return b.updateProgress(ctx, msg.Chat.ID, msg.From, activityID, 100)
}

func (b *Bot) handlePendingProgress(ctx context.Context, msg *tgbotapi.Message, activityID string) error {
	progress, err := parsePercent(msg.Text)
	if err != nil {
		return b.sendWithReplyMarkup(msg.Chat.ID, "Escribe un número entre 0 y 100.", percentKeyboard())
	}
	b.clearPending(msg.From.ID)
	return b.updateProgress(ctx, msg.Chat.ID, msg.From, activityID, progress)
}

func (b *Bot) updateProgress(ctx context.Context, chatID int64, from *tgbotapi.User, activityID string, progress int) error {
	sess, err := b.session(ctx, from)
	if err != nil {
		return b.sendError(chatID, err)
	}

	accepted, err := b.activities.UpdateProgress(ctx, sess, activityID, progress)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if !accepted {
		return b.sendText(chatID, "⏳ Empezó un nuevo día. Abre /hoy y vuelve a intentarlo.")
	}

	sess.Lock()
	activity, _, _ := sess.FindActivity(activityID)
	stored := sess.Progress[activityID]
	daily := sess.Daily
	sess.Unlock()
	log.Printf("[info] progress user=%d activity=%s progress=%d", from.ID, activityID, stored)

	return b.sendText(chatID, progressReply(activity, stored, daily))
}

func (b *Bot) handleFavorite(ctx context.Context, msg *tgbotapi.Message) error {
	activityID := strings.TrimSpace(msg.CommandArguments())
	if activityID == "" {
		return b.sendText(msg.Chat.ID, "Indica la actividad: /favorito 401")
	}
	return b.toggleFavorite(ctx, msg.Chat.ID, msg.From, activityID)
}

func (b *Bot) toggleFavorite(ctx context.Context, chatID int64, from *tgbotapi.User, activityID string) error {
	sess, err := b.session(ctx, from)
	if err != nil {
		return b.sendError(chatID, err)
	}
	favorite, err := b.activities.ToggleFavorite(ctx, sess, activityID)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if favorite {
		return b.sendText(chatID, "⭐ Añadida a favoritos.")
	}
	return b.sendText(chatID, "☆ Quitada de favoritos.")
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.session(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	b.sessions.Refresh(sess)
	return b.sendText(msg.Chat.ID, b.reports.DailySummary(sess.Snapshot(), time.Now()))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.session(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, b.reports.HistorySummary(sess.Snapshot(), historyLimit))
}

func (b *Bot) handleMoodPicker(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.session(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	b.sessions.Refresh(sess)
	if view := sess.Snapshot(); view.TodayMood != nil {
		mood := model.MoodLabels[*view.TodayMood]
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Hoy ya registraste: %s %s", mood.Emoji, mood.Text))
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, "💭 ¿Cómo te sientes hoy?", moodKeyboard())
}

func (b *Bot) saveMood(ctx context.Context, chatID int64, from *tgbotapi.User, moodIndex int) error {
	sess, err := b.session(ctx, from)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if err := b.moods.SaveDailyMood(ctx, sess, moodIndex); err != nil {
		return b.sendError(chatID, err)
	}
	mood := model.MoodLabels[moodIndex]
	return b.sendText(chatID, fmt.Sprintf("Gracias. Ánimo guardado: %s %s", mood.Emoji, mood.Text))
}

func (b *Bot) handleMoodHistory(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.session(ctx, msg.From)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, b.reports.MoodSummary(sess.Snapshot(), moodHistoryLimit))
}

func (b *Bot) handleLogout(ctx context.Context, msg *tgbotapi.Message) error {
	closed, err := b.logout(ctx, msg.From.ID)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	if !closed {
		return b.sendText(msg.Chat.ID, "No había una sesión abierta.")
	}
	return b.sendText(msg.Chat.ID, "👋 Sesión cerrada. Escribe /start para volver.")
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	prefix, value, ok := parseCallback(cb.Data)
	if !ok {
		b.ack(cb, "")
		return nil
	}
	log.Printf("[info] callback %s user=%d value=%s", strings.TrimSuffix(prefix, ":"), cb.From.ID, value)
	chatID := cb.Message.Chat.ID

	switch prefix {
	case cbCompletePrefix:
		b.ack(cb, "")
		return b.updateProgress(ctx, chatID, cb.From, value, 100)
	case cbFavoritePrefix:
		b.ack(cb, "")
		return b.toggleFavorite(ctx, chatID, cb.From, value)
	case cbProgressPrefix:
		b.ack(cb, "")
		b.setPending(cb.From.ID, value)
		return b.sendWithReplyMarkup(chatID, "¿Qué porcentaje llevas? Escribe un número entre 0 y 100.", percentKeyboard())
	case cbMoodPrefix:
		b.ack(cb, "")
		idx, err := strconv.Atoi(value)
		if err != nil {
			return nil
		}
		return b.saveMood(ctx, chatID, cb.From, idx)
	default:
		b.ack(cb, "")
		return nil
	}
}
