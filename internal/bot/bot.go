// Package bot implements the Telegram surface: command handlers, inline
// keyboard flows, and message sending.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scholar_bot/internal/catalog"
	"scholar_bot/internal/config"
	"scholar_bot/internal/fetcher"
	"scholar_bot/internal/model"
	"scholar_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram bot that handles user commands and sends reminders.
type Bot struct {
	api      telegramAPI
	store    storage.Storage
	catalog  *catalog.Catalog
	opps     *catalog.Opportunities
	fetcher  *fetcher.Fetcher
	cfg      *config.Config
	sessions *sessionStore
	log      *slog.Logger
	now      func() time.Time
}

// New creates a Bot with the given Telegram token, storage, and data
// snapshots.
func New(token string, store storage.Storage, cat *catalog.Catalog, opps *catalog.Opportunities, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:      api,
		store:    store,
		catalog:  cat,
		opps:     opps,
		fetcher:  fetcher.New(http.DefaultClient),
		cfg:      cfg,
		sessions: newSessionStore(),
		log:      log,
		now:      time.Now,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			if update.Message.IsCommand() {
				b.handleCommand(ctx, update.Message)
				continue
			}
			b.handleText(ctx, update.Message)
		}
	}
}

// SendMessage sends a text message to the given chat, splitting long text
// into chunks.
func (b *Bot) SendMessage(chatID int64, text string) {
	for _, chunk := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("send message", "chat_id", chatID, "error", err)
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send keyboard message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := msg.CommandArguments()
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "all":
		b.handleAll(chatID)
	case "search":
		b.handleSearch(chatID)
	case "find":
		b.handleFind(chatID, args)
	case "subscribe":
		b.handleSubscribe(ctx, chatID, args)
	case "unsubscribe":
		b.handleUnsubscribe(ctx, chatID, args)
	case "reminders":
		b.handleReminders(ctx, chatID)
	case "profile":
		b.handleProfile(ctx, chatID)
	case "setprofile":
		b.handleSetProfile(chatID)
	case "recommend":
		b.handleRecommend(ctx, chatID)
	case "checklist":
		b.handleChecklist(ctx, chatID)
	case "check":
		b.handleCheck(ctx, chatID, args)
	case "opportunities":
		b.handleOpportunities(chatID)
	case "internships":
		b.handleOpportunityType(chatID, model.OpportunityInternship)
	case "research":
		b.handleOpportunityType(chatID, model.OpportunityResearch)
	case "competitions":
		b.handleOpportunityType(chatID, model.OpportunityCompetition)
	case "fellowships":
		b.handleOpportunityType(chatID, model.OpportunityFellowship)
	case "summer":
		b.handleOpportunityType(chatID, model.OpportunitySummerSchool)
	case "exchange":
		b.handleOpportunityType(chatID, model.OpportunityExchange)
	case "news":
		b.handleNews(ctx, chatID)
	case "cancel":
		b.handleCancel(chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
