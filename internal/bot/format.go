package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"scholar_bot/internal/fetcher"
	"scholar_bot/internal/model"
	"scholar_bot/internal/recommend"
)

// chunkSize is the largest message the bot will send in one piece; longer
// text is split at newline boundaries.
const chunkSize = 3500

// FormatReminder renders one deadline reminder. The catalog index is shown
// as the 1-based number users see in /all.
func FormatReminder(s model.Scholarship, index, daysLeft int, emoji string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Deadline reminder!\n\n", emoji)
	fmt.Fprintf(&b, "📌 %s\n", s.Name)
	fmt.Fprintf(&b, "📅 Deadline: %s\n", s.Deadline)
	fmt.Fprintf(&b, "⏰ %d day(s) left!\n", daysLeft)
	if s.Link != "" {
		fmt.Fprintf(&b, "\n🔗 %s\n", s.Link)
	}
	fmt.Fprintf(&b, "\nManage: /reminders (entry #%d)", index+1)
	return b.String()
}

// FormatEntry renders one scholarship in full.
func FormatEntry(s model.Scholarship) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 %s\n", s.Name)
	fmt.Fprintf(&b, "🏫 %s\n", s.University)
	fmt.Fprintf(&b, "🌍 %s | 💰 %s\n", s.Country, s.Funding)
	fmt.Fprintf(&b, "📅 Deadline: %s\n", s.Deadline)
	if s.Description != "" {
		fmt.Fprintf(&b, "ℹ️ %s\n", s.Description)
	}
	if s.Link != "" {
		fmt.Fprintf(&b, "🔗 %s\n", s.Link)
	}
	return b.String()
}

// FormatCatalogList renders the numbered one-line-per-entry catalog listing.
func FormatCatalogList(entries []model.Scholarship) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 All %d scholarships:\n\n", len(entries))
	for i, s := range entries {
		fmt.Fprintf(&b, "%d. %s (%s) — %s\n", i+1, s.Name, s.Country, s.Funding)
	}
	b.WriteString("\n💡 Use /subscribe <number> to get deadline reminders.\nUse /search to filter.")
	return b.String()
}

// FormatSearchResults renders the outcome of a completed guided search.
func FormatSearchResults(entries []model.Scholarship, indexes []int, level, field, region string) string {
	if len(indexes) == 0 {
		return "❌ No exact matches found. Try broadening your search with /search."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🎓 Found %d scholarship(s) for %s in %s (%s):\n\n",
		len(indexes), title(level), title(field), region)
	for _, i := range indexes {
		b.WriteString(FormatEntry(entries[i]))
		fmt.Fprintf(&b, "💡 Remind me: /subscribe %d\n\n", i+1)
	}
	b.WriteString("Search again: /search")
	return b.String()
}

// FormatReminderList renders a user's subscriptions with days-left
// annotations. daysLeft holds an annotation per subscription index; entries
// without a concrete deadline are absent.
func FormatReminderList(entries []model.Scholarship, indexes []int, daysLeft map[int]int) string {
	if len(indexes) == 0 {
		return "⏰ You have no subscriptions yet.\n\nUse /subscribe <number> (number from the /all list) to get deadline reminders."
	}
	var b strings.Builder
	b.WriteString("⏰ Your deadline reminders:\n\n")
	for _, idx := range indexes {
		if idx < 0 || idx >= len(entries) {
			continue
		}
		s := entries[idx]
		note := ""
		if days, ok := daysLeft[idx]; ok {
			switch {
			case days > 0:
				note = fmt.Sprintf(" (%d days left)", days)
			case days == 0:
				note = " (TODAY!)"
			default:
				note = " (passed)"
			}
		}
		fmt.Fprintf(&b, "%d. %s — %s%s\n", idx+1, s.Name, s.Deadline, note)
	}
	b.WriteString("\n💡 Unsubscribe: /unsubscribe <number>")
	return b.String()
}

// FormatProfile renders a stored profile.
func FormatProfile(p *model.UserProfile) string {
	need := "no"
	if p.FinancialNeed {
		need = "yes"
	}
	var b strings.Builder
	b.WriteString("👤 Your profile:\n\n")
	fmt.Fprintf(&b, "📛 Name: %s\n", orNotSet(p.Name))
	fmt.Fprintf(&b, "🌍 Country: %s\n", orNotSet(p.Country))
	fmt.Fprintf(&b, "📚 Level: %s\n", orNotSet(p.Level))
	fmt.Fprintf(&b, "📊 GPA: %s\n", orNotSet(p.GPA))
	fmt.Fprintf(&b, "🎯 Field: %s\n", orNotSet(p.Field))
	fmt.Fprintf(&b, "🚀 Career goals: %s\n", orNotSet(p.CareerGoals))
	fmt.Fprintf(&b, "💰 Financial need: %s\n", need)
	b.WriteString("\nUpdate: /setprofile | Picks: /recommend")
	return b.String()
}

// FormatRecommendations renders the scorer's top picks.
func FormatRecommendations(name string, ranked []recommend.Ranked) string {
	if len(ranked) == 0 {
		return "⭐ No strong scholarship matches. Try broadening your profile with /setprofile."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⭐ Top %d scholarships for %s:\n\n", len(ranked), name)
	for _, r := range ranked {
		fmt.Fprintf(&b, "📌 %s\n", r.Entry.Name)
		fmt.Fprintf(&b, "   %s | %s | %s\n", r.Entry.Country, r.Entry.Funding, r.Entry.Deadline)
		fmt.Fprintf(&b, "   💡 Remind me: /subscribe %d\n\n", r.Index+1)
	}
	b.WriteString("Update profile: /setprofile")
	return b.String()
}

// FormatChecklist renders the application checklist with per-user state.
func FormatChecklist(state map[int]bool) string {
	var b strings.Builder
	b.WriteString("✅ Application checklist:\n\n")
	for i, item := range model.ChecklistItems {
		icon := "⬜"
		if state[i] {
			icon = "✅"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, icon, item)
	}
	b.WriteString("\n💡 Toggle an item: /check <number>")
	return b.String()
}

// FormatOpportunityList renders every opportunity of one category.
func FormatOpportunityList(tp model.OpportunityType, items []model.Opportunity) string {
	label := tp.Label()
	if len(items) == 0 {
		return fmt.Sprintf("No %s found.", label)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d found):\n\n", label, len(items))
	for _, o := range items {
		fmt.Fprintf(&b, "📌 %s\n", o.Name)
		fmt.Fprintf(&b, "🏢 %s | 🌍 %s\n", o.Organization, o.Country)
		fmt.Fprintf(&b, "🎯 %s | 📚 %s\n", orAny(o.Field), orAny(o.Level))
		fmt.Fprintf(&b, "💰 %s\n", o.Funding)
		fmt.Fprintf(&b, "📅 %s\n", o.Deadline)
		if o.Description != "" {
			fmt.Fprintf(&b, "ℹ️ %s\n", o.Description)
		}
		if o.Link != "" {
			fmt.Fprintf(&b, "🔗 %s\n", o.Link)
		}
		b.WriteString("\n")
	}
	b.WriteString("Browse more: /opportunities")
	return b.String()
}

// FormatNews renders the scholarship-news feed items.
func FormatNews(items []fetcher.Item) string {
	if len(items) == 0 {
		return "No news right now. Try again later."
	}
	var b strings.Builder
	b.WriteString("📰 Scholarship news:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "• %s\n", it.Title)
		if it.Description != "" {
			fmt.Fprintf(&b, "  %s\n", it.Description)
		}
		if it.Link != "" {
			fmt.Fprintf(&b, "  %s\n", it.Link)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// splitMessage breaks text into chunks of at most chunkSize characters,
// preferring newline boundaries.
func splitMessage(text string) []string {
	var chunks []string
	for text != "" {
		if len(text) <= chunkSize {
			chunks = append(chunks, text)
			break
		}
		idx := strings.LastIndex(text[:chunkSize], "\n")
		if idx <= 0 {
			// No newline in the window; cut on a rune boundary so a
			// multi-byte character is never split across chunks.
			idx = chunkSize
			for !utf8.RuneStart(text[idx]) {
				idx--
			}
		}
		chunks = append(chunks, text[:idx])
		text = strings.TrimLeft(text[idx:], "\n")
	}
	return chunks
}

func orAny(s string) string {
	if s == "" {
		return "Any"
	}
	return title(s)
}

func orNotSet(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

// title capitalizes the first letter of each space-separated word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
