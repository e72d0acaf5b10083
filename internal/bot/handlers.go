package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scholar_bot/internal/deadline"
	"scholar_bot/internal/filter"
	"scholar_bot/internal/match"
	"scholar_bot/internal/model"
	"scholar_bot/internal/recommend"
	"scholar_bot/internal/storage"
)

// newsLimit caps how many feed items /news renders.
const newsLimit = 5

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, fmt.Sprintf(`🎓 Welcome to ScholarBot!

Find scholarships and never miss a deadline.

📊 %d scholarships in the catalog.

Quick start:
1. /search — guided scholarship search
2. /all — list every entry
3. /subscribe <number> — deadline reminders

Use /help for the full command reference.`, b.catalog.Len()))
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Search:
/search — guided search (level → field → region)
/find <text> — look up a scholarship by name
/all — list all scholarships
/news — latest scholarship news

Opportunities:
/opportunities — browse by category
/internships, /research, /competitions,
/fellowships, /summer, /exchange — jump straight to a category

Reminders:
/subscribe <number> — get deadline reminders for an entry
/unsubscribe <number> — stop reminders
/reminders — your subscriptions with days left

Profile:
/setprofile — set up your profile
/profile — view your profile
/recommend — personalized picks

Tracking:
/checklist — application checklist
/check <number> — toggle a checklist item

/cancel — abandon the current flow`)
}

func (b *Bot) handleAll(chatID int64) {
	b.reply(chatID, FormatCatalogList(b.catalog.Entries()))
}

func (b *Bot) handleSearch(chatID int64) {
	b.sessions.drop(chatID)
	b.replyWithKeyboard(chatID, "🔍 Scholarship search\n\nWhat level are you looking for?", levelKeyboard("level_"))
}

func (b *Bot) handleFind(chatID int64, args string) {
	query := strings.TrimSpace(args)
	if query == "" {
		b.reply(chatID, "Usage: /find <scholarship name>")
		return
	}

	entries := b.catalog.Entries()
	names := make([]string, len(entries))
	for i, s := range entries {
		names[i] = s.Name
	}

	idx := match.Best(names, query, match.DefaultThreshold)
	if idx < 0 {
		b.reply(chatID, fmt.Sprintf("❌ Nothing close to %q. Try /all to browse the catalog.", query))
		return
	}

	b.reply(chatID, FormatEntry(entries[idx])+fmt.Sprintf("💡 Remind me: /subscribe %d", idx+1))
}

func (b *Bot) handleSubscribe(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		b.reply(chatID, "Usage: /subscribe <number>\nUse the number from the /all list.")
		return
	}

	idx, err := ParseEntryNumber(args, b.catalog.Len())
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	err = b.store.Subscribe(ctx, chatID, idx)
	if errors.Is(err, storage.ErrAlreadySubscribed) {
		b.reply(chatID, "You're already subscribed to this scholarship.")
		return
	}
	if err != nil {
		b.log.Error("subscribe", "chat_id", chatID, "index", idx, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	s, _ := b.catalog.Get(idx)
	b.reply(chatID, fmt.Sprintf("✅ Subscribed to deadline reminders for:\n%s\nDeadline: %s\n\nSee all: /reminders", s.Name, s.Deadline))
}

func (b *Bot) handleUnsubscribe(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		b.reply(chatID, "Usage: /unsubscribe <number>")
		return
	}

	idx, err := ParseEntryNumber(args, b.catalog.Len())
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	removed, err := b.store.Unsubscribe(ctx, chatID, idx)
	if err != nil {
		b.log.Error("unsubscribe", "chat_id", chatID, "index", idx, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if !removed {
		b.reply(chatID, "You weren't subscribed to that scholarship.")
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Unsubscribed from scholarship #%d.\n\nSee remaining: /reminders", idx+1))
}

func (b *Bot) handleReminders(ctx context.Context, chatID int64) {
	indexes, err := b.store.ListSubscriptions(ctx, chatID)
	if err != nil {
		b.log.Error("list subscriptions", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	entries := b.catalog.Entries()
	// The scheduler scans in UTC; keeping /reminders on the same clock means
	// a day count shown here never disagrees with a reminder sent minutes
	// later.
	now := b.now().UTC()
	daysLeft := make(map[int]int)
	for _, idx := range indexes {
		if idx < 0 || idx >= len(entries) {
			continue
		}
		if due, ok := deadline.Normalize(entries[idx].Deadline, now); ok {
			daysLeft[idx] = deadline.DaysUntil(due, now)
		}
	}

	b.reply(chatID, FormatReminderList(entries, indexes, daysLeft))
}

func (b *Bot) handleOpportunities(chatID int64) {
	text := fmt.Sprintf("🌍 Opportunities Database\n\n📊 %d opportunities across %d categories.\n\nPick a category:",
		b.opps.Len(), len(model.OpportunityTypes))
	b.replyWithKeyboard(chatID, text, opportunityKeyboard())
}

func (b *Bot) handleOpportunityType(chatID int64, tp model.OpportunityType) {
	b.reply(chatID, FormatOpportunityList(tp, b.opps.ByType(tp)))
}

func (b *Bot) handleProfile(ctx context.Context, chatID int64) {
	p, err := b.store.GetProfile(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, "👤 No profile set up yet.\n\nUse /setprofile to create one and get personalized recommendations.")
		return
	}
	if err != nil {
		b.log.Error("get profile", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	b.reply(chatID, FormatProfile(p))
}

func (b *Bot) handleSetProfile(chatID int64) {
	b.sessions.put(chatID, &session{Stage: stageProfileName})
	b.reply(chatID, "👤 Let's set up your profile!\n\nWhat's your name?")
}

func (b *Bot) handleRecommend(ctx context.Context, chatID int64) {
	p, err := b.store.GetProfile(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, "⭐ Please set up your profile first!\nUse /setprofile")
		return
	}
	if err != nil {
		b.log.Error("get profile", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	ranked := recommend.Top(*p, b.catalog.Entries())
	b.reply(chatID, FormatRecommendations(p.Name, ranked))
}

func (b *Bot) handleChecklist(ctx context.Context, chatID int64) {
	state, err := b.store.ChecklistState(ctx, chatID)
	if err != nil {
		b.log.Error("checklist state", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	b.reply(chatID, FormatChecklist(state))
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64, args string) {
	idx, err := ParseEntryNumber(args, len(model.ChecklistItems))
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /check <number>\nNumber must be between 1 and %d.", len(model.ChecklistItems)))
		return
	}

	checked, err := b.store.ToggleChecklistItem(ctx, chatID, idx)
	if err != nil {
		b.log.Error("toggle checklist", "chat_id", chatID, "index", idx, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	verb := "unchecked"
	icon := "⬜"
	if checked {
		verb = "checked"
		icon = "✅"
	}
	b.reply(chatID, fmt.Sprintf("%s %s %s!\n\nSee full list: /checklist", icon, model.ChecklistItems[idx], verb))
}

func (b *Bot) handleNews(ctx context.Context, chatID int64) {
	if b.cfg.NewsFeedURL == "" {
		b.reply(chatID, "News feed is not configured.")
		return
	}

	items, err := b.fetcher.Fetch(ctx, b.cfg.NewsFeedURL, newsLimit)
	if err != nil {
		b.log.Error("fetch news", "error", err)
		b.reply(chatID, "Failed to fetch news, please try again later.")
		return
	}
	b.reply(chatID, FormatNews(items))
}

func (b *Bot) handleCancel(chatID int64) {
	b.sessions.drop(chatID)
	b.reply(chatID, "Cancelled. Use /start to begin again.")
}

// handleText consumes free-text answers while a profile conversation is in
// progress; anything else gets the generic hint.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	s := b.sessions.get(chatID)
	if s == nil || text == "" {
		b.reply(chatID, "👋 Hey! I'm ScholarBot.\n\nUse /start to get going or /help for all commands.")
		return
	}

	switch s.Stage {
	case stageProfileName:
		s.Profile.Name = text
		s.Stage = stageProfileCountry
		b.reply(chatID, "🌍 What country are you from?")
	case stageProfileCountry:
		s.Profile.Country = text
		s.Stage = stageProfileLevel
		b.replyWithKeyboard(chatID, "📚 What education level are you seeking?", levelKeyboard("plvl_"))
	case stageProfileGPA:
		s.Profile.GPA = text
		s.Stage = stageProfileField
		b.replyWithKeyboard(chatID, "🎯 What's your field of interest?", fieldKeyboard("pfield_"))
	case stageProfileCareer:
		s.Profile.CareerGoals = text
		s.Stage = stageProfileFinancial
		b.replyWithKeyboard(chatID, "💰 Do you need scholarship funding?", yesNoKeyboard("pfin_"))
	default:
		b.reply(chatID, "Please answer with one of the buttons above, or /cancel.")
	}
}

func levelKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range model.Levels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title(string(l)), prefix+string(l)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func fieldKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range model.Fields {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title(f), prefix+f),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func regionKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range filter.Regions() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(r, prefix+r),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func opportunityKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, tp := range model.OpportunityTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tp.Label(), "opp_"+string(tp)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func yesNoKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes", prefix+"yes"),
			tgbotapi.NewInlineKeyboardButtonData("No", prefix+"no"),
		),
	)
}
