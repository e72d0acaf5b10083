package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scholar_bot/internal/filter"
	"scholar_bot/internal/model"
)

// handleCallback routes inline keyboard presses. The data payload carries a
// prefix naming the flow and stage, e.g. "level_masters" or "pfin_yes".
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Debug("ack callback", "error", err)
	}
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, "level_"):
		b.searchLevelChosen(chatID, strings.TrimPrefix(data, "level_"))
	case strings.HasPrefix(data, "field_"):
		b.searchFieldChosen(chatID, strings.TrimPrefix(data, "field_"))
	case strings.HasPrefix(data, "region_"):
		b.searchRegionChosen(chatID, strings.TrimPrefix(data, "region_"))
	case strings.HasPrefix(data, "plvl_"):
		b.profileLevelChosen(chatID, strings.TrimPrefix(data, "plvl_"))
	case strings.HasPrefix(data, "pfield_"):
		b.profileFieldChosen(chatID, strings.TrimPrefix(data, "pfield_"))
	case strings.HasPrefix(data, "pfin_"):
		b.profileFinancialChosen(ctx, chatID, strings.TrimPrefix(data, "pfin_"))
	case strings.HasPrefix(data, "opp_"):
		b.handleOpportunityType(chatID, model.OpportunityType(strings.TrimPrefix(data, "opp_")))
	default:
		b.log.Debug("unknown callback", "data", data, "chat_id", chatID)
	}
}

func (b *Bot) searchLevelChosen(chatID int64, level string) {
	b.sessions.put(chatID, &session{
		Stage: stageSearchField,
		Query: filter.Query{Level: level},
	})
	b.replyWithKeyboard(chatID, fmt.Sprintf("Level: %s\n\nWhat field are you interested in?", title(level)), fieldKeyboard("field_"))
}

func (b *Bot) searchFieldChosen(chatID int64, field string) {
	s := b.sessions.get(chatID)
	if s == nil || s.Stage != stageSearchField {
		b.reply(chatID, "That search has expired. Start over with /search.")
		return
	}
	s.Query.Field = field
	s.Stage = stageSearchRegion
	b.replyWithKeyboard(chatID, fmt.Sprintf("Field: %s\n\nWhich region?", title(field)), regionKeyboard("region_"))
}

func (b *Bot) searchRegionChosen(chatID int64, region string) {
	s := b.sessions.get(chatID)
	if s == nil || s.Stage != stageSearchRegion {
		b.reply(chatID, "That search has expired. Start over with /search.")
		return
	}
	s.Query.Region = region
	q := s.Query
	b.sessions.drop(chatID)

	indexes := filter.Apply(b.catalog.Entries(), q)
	b.reply(chatID, FormatSearchResults(b.catalog.Entries(), indexes, q.Level, q.Field, q.Region))
}

func (b *Bot) profileLevelChosen(chatID int64, level string) {
	s := b.sessions.get(chatID)
	if s == nil || s.Stage != stageProfileLevel {
		b.reply(chatID, "That setup has expired. Start over with /setprofile.")
		return
	}
	s.Profile.Level = level
	s.Stage = stageProfileGPA
	b.reply(chatID, "📊 What's your GPA? (e.g. 3.8/4.0)")
}

func (b *Bot) profileFieldChosen(chatID int64, field string) {
	s := b.sessions.get(chatID)
	if s == nil || s.Stage != stageProfileField {
		b.reply(chatID, "That setup has expired. Start over with /setprofile.")
		return
	}
	s.Profile.Field = field
	s.Stage = stageProfileCareer
	b.reply(chatID, "🚀 What are your career goals?")
}

func (b *Bot) profileFinancialChosen(ctx context.Context, chatID int64, answer string) {
	s := b.sessions.get(chatID)
	if s == nil || s.Stage != stageProfileFinancial {
		b.reply(chatID, "That setup has expired. Start over with /setprofile.")
		return
	}
	s.Profile.FinancialNeed = answer == "yes"
	s.Profile.UserID = chatID
	p := s.Profile
	b.sessions.drop(chatID)

	if err := b.store.SaveProfile(ctx, &p); err != nil {
		b.log.Error("save profile", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong saving your profile, please try /setprofile again.")
		return
	}

	b.reply(chatID, fmt.Sprintf("✅ Profile saved, %s!\n\n%s\nGet personalized picks with /recommend.", p.Name, FormatProfile(&p)))
}
