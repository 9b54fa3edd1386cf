package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
	"wellness-tracker/internal/repository"
	"wellness-tracker/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	cbFavoritePrefix = "fav:"
	cbProgressPrefix = "progress:"
	cbMoodPrefix     = "mood:"
)

const (
	btnCancel          = "↩️ Cancelar"
	menuLabelCatalog   = "📋 Actividades"
	menuLabelToday     = "🎯 Hoy"
	menuLabelMood      = "💭 Ánimo"
	menuLabelHelp      = "ℹ️ Ayuda"
	historyLimit       = 10
	moodHistoryLimit   = 14
	activityTitleWidth = 22
)

// Bot aggregates Telegram API with services.
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *repository.UserRepository
	sessions   *service.SessionManager
	activities *service.ActivityService
	moods      *service.MoodService
	reports    *service.ReportService
	// pending maps a Telegram user to the activity awaiting a typed percentage.
	pending map[int64]string
	// loggedOut holds chats that sent /salir; they need /start again.
	loggedOut map[int64]bool
	mu        sync.Mutex
}

func New(token string, users *repository.UserRepository, sessions *service.SessionManager, activities *service.ActivityService, moods *service.MoodService, reports *service.ReportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		users:      users,
		sessions:   sessions,
		activities: activities,
		moods:      moods,
		reports:    reports,
		pending:    make(map[int64]string),
		loggedOut:  make(map[int64]bool),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearPending(msg.From.ID)
		return b.sendText(msg.Chat.ID, "↩️ Cancelado.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		b.clearPending(msg.From.ID)
		return b.handleCommand(ctx, msg)
	}

	if activityID, ok := b.getPending(msg.From.ID); ok {
		return b.handlePendingProgress(ctx, msg, activityID)
	}

	return b.sendText(msg.Chat.ID, "No entendí el mensaje. Escribe /actividades para empezar o /ayuda para ver los comandos.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "ayuda", "help":
		return b.handleHelp(msg)
	case "actividades":
		return b.handleCatalog(ctx, msg)
	case "progreso":
		return b.handleProgress(ctx, msg)
	case "completar":
		return b.handleComplete(ctx, msg)
	case "favorito":
		return b.handleFavorite(ctx, msg)
	case "hoy":
		return b.handleToday(ctx, msg)
	case "historial":
		return b.handleHistory(ctx, msg)
	case "animo":
		return b.handleMoodPicker(ctx, msg)
	case "animos":
		return b.handleMoodHistory(ctx, msg)
	case "salir":
		return b.handleLogout(ctx, msg)
	case "cancelar":
		return b.sendText(msg.Chat.ID, "↩️ Cancelado.")
	default:
		return b.sendText(msg.Chat.ID, "Comando no disponible. Consulta /ayuda.")
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelCatalog):
		return true, b.handleCatalog(ctx, msg)
	case strings.ToLower(menuLabelToday):
		return true, b.handleToday(ctx, msg)
	case strings.ToLower(menuLabelMood):
		return true, b.handleMoodPicker(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

// SendDailyReports sends a summary to every chat with an open session.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	now := time.Now()
	for _, sess := range b.sessions.Active() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		b.sessions.Refresh(sess)
		view := sess.Snapshot()
		if view.User == nil || view.User.TelegramID == nil {
			continue
		}
		chatID := *view.User.TelegramID
		if err := b.sendText(chatID, b.reports.DailySummary(view, now)); err != nil {
			log.Printf("send summary to %d: %v", chatID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// session returns the open session of the sender, logging in when needed.
// Chats that logged out get ledger.ErrNoSession until they send /start.
func (b *Bot) session(ctx context.Context, from *tgbotapi.User) (*ledger.Session, error) {
	if b.isLoggedOut(from.ID) {
		return nil, ledger.ErrNoSession
	}
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return nil, err
	}
	return b.sessions.Ensure(ctx, user)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendError(chatID int64, err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownActivity):
		return b.sendText(chatID, "Actividad no encontrada. Mira los números en /actividades.")
	case errors.Is(err, service.ErrMoodAlreadyRecorded):
		return b.sendText(chatID, "Ya registraste tu ánimo hoy. Vuelve mañana 🌙")
	case errors.Is(err, service.ErrInvalidMood):
		return b.sendText(chatID, "Ese estado de ánimo no existe.")
	case errors.Is(err, ledger.ErrNoSession):
		return b.sendText(chatID, "No hay sesión activa. Escribe /start.")
	default:
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
}

func (b *Bot) ack(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

// login opens (or reloads) the sender's session and lifts a previous /salir.
func (b *Bot) login(ctx context.Context, from *tgbotapi.User) (*ledger.Session, error) {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	delete(b.loggedOut, from.ID)
	b.mu.Unlock()
	return b.sessions.Login(ctx, user)
}

// logout closes the session of a Telegram user without registering unknown
// users. It reports whether a session was open.
func (b *Bot) logout(ctx context.Context, telegramID int64) (bool, error) {
	b.mu.Lock()
	b.loggedOut[telegramID] = true
	delete(b.pending, telegramID)
	b.mu.Unlock()

	user, err := b.users.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b.sessions.Logout(user.ID), nil
}

func (b *Bot) isLoggedOut(telegramID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loggedOut[telegramID]
}

func (b *Bot) setPending(userID int64, activityID string) {
	b.mu.Lock()
	b.pending[userID] = activityID
	b.mu.Unlock()
}

func (b *Bot) getPending(userID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	activityID, ok := b.pending[userID]
	return activityID, ok
}

func (b *Bot) clearPending(userID int64) {
	b.mu.Lock()
	delete(b.pending, userID)
	b.mu.Unlock()
}
