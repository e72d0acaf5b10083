package bot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scholar_bot/internal/catalog"
	"scholar_bot/internal/config"
	"scholar_bot/internal/fetcher"
	"scholar_bot/internal/model"
	"scholar_bot/internal/storage"
)

// --- mocks ---

type sentMsg struct {
	ChatID int64
	Text   string
}

type mockAPI struct {
	mu   sync.Mutex
	sent []sentMsg
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.mu.Lock()
		m.sent = append(m.sent, sentMsg{ChatID: msg.ChatID, Text: msg.Text})
		m.mu.Unlock()
	}
	return tgbotapi.Message{}, nil
}

func (m *mockAPI) Request(_ tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (m *mockAPI) StopReceivingUpdates() {}

func (m *mockAPI) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

func (m *mockAPI) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type mockHTTPClient struct {
	body string
	err  error
}

func (m *mockHTTPClient) Do(_ *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

// --- helpers ---

var botEntries = []model.Scholarship{
	{
		Name:     "Chevening Scholarship",
		Country:  "UK",
		Levels:   []string{"masters"},
		Fields:   []string{"any"},
		Funding:  "Full funding",
		Deadline: "November 7, 2026",
		Link:     "https://www.chevening.org",
	},
	{
		Name:     "ETH Excellence Scholarship",
		Country:  "Switzerland",
		Levels:   []string{"masters"},
		Fields:   []string{"computer science"},
		Funding:  "Full funding",
		Deadline: "December 15, 2026",
	},
	{
		Name:     "Fulbright Foreign Student Program",
		Country:  "USA",
		Levels:   []string{"masters"},
		Fields:   []string{"any"},
		Funding:  "Full funding",
		Deadline: "Varies by country",
	},
}

var botOpportunities = []model.Opportunity{
	{
		Name:         "Google Summer of Code",
		Organization: "Google",
		Country:      "Remote",
		Level:        "undergraduate",
		Field:        "computer science",
		Funding:      "Stipend",
		Deadline:     "April 2 each year",
		Link:         "https://summerofcode.withgoogle.com",
		Type:         model.OpportunityInternship,
	},
	{
		Name:         "DAAD RISE Germany",
		Organization: "DAAD",
		Country:      "Germany",
		Funding:      "Monthly stipend",
		Deadline:     "December 15 each year",
		Type:         model.OpportunityResearch,
	},
}

func newTestBot(t *testing.T, httpBody string) (*Bot, *mockAPI, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	api := &mockAPI{}
	b := &Bot{
		api:      api,
		store:    store,
		catalog:  catalog.New(botEntries),
		opps:     catalog.NewOpportunities(botOpportunities),
		fetcher:  fetcher.New(&mockHTTPClient{body: httpBody}),
		cfg:      &config.Config{},
		sessions: newSessionStore(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	return b, api, store
}

func callback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-id",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

// --- tests ---

func TestHandleSubscribe(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	b.handleSubscribe(ctx, 100, "1")
	if got := api.lastText(); !strings.Contains(got, "Subscribed") || !strings.Contains(got, "Chevening") {
		t.Errorf("unexpected reply: %q", got)
	}

	// Same entry again.
	b.handleSubscribe(ctx, 100, "1")
	if got := api.lastText(); !strings.Contains(got, "already subscribed") {
		t.Errorf("duplicate reply: %q", got)
	}

	indexes, err := store.ListSubscriptions(ctx, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(indexes) != 1 || indexes[0] != 0 {
		t.Errorf("subscriptions = %v, want [0]", indexes)
	}
}

func TestHandleSubscribeBadInput(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	tests := []struct {
		args string
		want string
	}{
		{"", "Usage"},
		{"abc", "invalid number"},
		{"0", "between 1 and 3"},
		{"4", "between 1 and 3"},
	}
	for _, tt := range tests {
		api.reset()
		b.handleSubscribe(ctx, 100, tt.args)
		if got := api.lastText(); !strings.Contains(got, tt.want) {
			t.Errorf("args %q: reply %q missing %q", tt.args, got, tt.want)
		}
	}
}

func TestHandleUnsubscribe(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	if err := store.Subscribe(ctx, 100, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b.handleUnsubscribe(ctx, 100, "2")
	if got := api.lastText(); !strings.Contains(got, "Unsubscribed") {
		t.Errorf("unexpected reply: %q", got)
	}

	b.handleUnsubscribe(ctx, 100, "2")
	if got := api.lastText(); !strings.Contains(got, "weren't subscribed") {
		t.Errorf("missing-pair reply: %q", got)
	}
}

func TestHandleReminders(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	b.handleReminders(ctx, 100)
	if got := api.lastText(); !strings.Contains(got, "no subscriptions") {
		t.Errorf("empty reply: %q", got)
	}

	// One concrete deadline, one indeterminate.
	for _, idx := range []int{0, 2} {
		if err := store.Subscribe(ctx, 100, idx); err != nil {
			t.Fatalf("seed %d: %v", idx, err)
		}
	}

	b.handleReminders(ctx, 100)
	got := api.lastText()
	if !strings.Contains(got, "Chevening Scholarship") || !strings.Contains(got, "days left") {
		t.Errorf("reply missing dated entry: %q", got)
	}
	// Indeterminate deadline listed without an annotation.
	if !strings.Contains(got, "Varies by country") || strings.Contains(got, "Varies by country (") {
		t.Errorf("indeterminate entry malformed: %q", got)
	}
}

// Day counts in /reminders must come from the same UTC clock the reminder
// scheduler scans with. A recurring deadline queried around the year boundary
// on a behind-UTC host is the case where a local clock disagrees: the local
// year is still the old one, so the next occurrence lands in the past.
func TestHandleRemindersUsesUTC(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	b.catalog = catalog.New([]model.Scholarship{{
		Name:     "New Year Grant",
		Country:  "UK",
		Levels:   []string{"masters"},
		Fields:   []string{"any"},
		Deadline: "January 1 each year",
	}})
	// 02:00 UTC on Jan 1, seen from five hours behind: locally it is still
	// Dec 31 of the previous year.
	b.now = func() time.Time {
		return time.Date(2027, time.January, 1, 2, 0, 0, 0, time.UTC).
			In(time.FixedZone("UTC-5", -5*3600))
	}

	if err := store.Subscribe(ctx, 100, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b.handleReminders(ctx, 100)
	got := api.lastText()
	if !strings.Contains(got, "days left") {
		t.Errorf("reply missing days-left annotation: %q", got)
	}
	if strings.Contains(got, "(passed)") {
		t.Errorf("deadline wrongly shown as passed: %q", got)
	}
}

func TestHandleOpportunities(t *testing.T) {
	b, api, _ := newTestBot(t, "")

	b.handleOpportunities(100)
	got := api.lastText()
	if !strings.Contains(got, "Opportunities Database") || !strings.Contains(got, "2 opportunities across 6 categories") {
		t.Errorf("menu reply: %q", got)
	}
}

func TestHandleOpportunityType(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	// Category button press.
	b.handleCallback(ctx, callback(100, "opp_internship"))
	got := api.lastText()
	if !strings.Contains(got, "💼 Internships (1 found)") {
		t.Errorf("listing header: %q", got)
	}
	if !strings.Contains(got, "Google Summer of Code") || !strings.Contains(got, "Google | 🌍 Remote") {
		t.Errorf("listing body: %q", got)
	}
	if strings.Contains(got, "DAAD") {
		t.Errorf("other category leaked: %q", got)
	}

	// Shortcut command path hits the same renderer.
	b.handleOpportunityType(100, model.OpportunityResearch)
	if got := api.lastText(); !strings.Contains(got, "DAAD RISE Germany") {
		t.Errorf("shortcut reply: %q", got)
	}

	// Empty category.
	b.handleOpportunityType(100, model.OpportunityExchange)
	if got := api.lastText(); got != "No 🌍 Exchange Programs found." {
		t.Errorf("empty category reply: %q", got)
	}
}

func TestHandleFind(t *testing.T) {
	b, api, _ := newTestBot(t, "")

	b.handleFind(100, "chevning scholarship")
	if got := api.lastText(); !strings.Contains(got, "Chevening Scholarship") {
		t.Errorf("fuzzy find reply: %q", got)
	}

	b.handleFind(100, "zzzzzz")
	if got := api.lastText(); !strings.Contains(got, "Nothing close") {
		t.Errorf("no-match reply: %q", got)
	}

	b.handleFind(100, "")
	if got := api.lastText(); !strings.Contains(got, "Usage") {
		t.Errorf("usage reply: %q", got)
	}
}

func TestGuidedSearchFlow(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	b.handleSearch(100)
	if got := api.lastText(); !strings.Contains(got, "level") {
		t.Errorf("search prompt: %q", got)
	}

	b.handleCallback(ctx, callback(100, "level_masters"))
	if got := api.lastText(); !strings.Contains(got, "field") {
		t.Errorf("field prompt: %q", got)
	}

	b.handleCallback(ctx, callback(100, "field_computer science"))
	if got := api.lastText(); !strings.Contains(got, "region") {
		t.Errorf("region prompt: %q", got)
	}

	b.handleCallback(ctx, callback(100, "region_Europe"))
	got := api.lastText()
	// Masters + CS in Europe: Chevening (any field, UK) and ETH.
	if !strings.Contains(got, "Chevening Scholarship") || !strings.Contains(got, "ETH Excellence") {
		t.Errorf("results missing entries: %q", got)
	}
	if strings.Contains(got, "Fulbright") {
		t.Errorf("USA entry leaked into Europe results: %q", got)
	}

	// The flow is done; a second region press hits an expired session.
	b.handleCallback(ctx, callback(100, "region_Asia"))
	if got := api.lastText(); !strings.Contains(got, "expired") {
		t.Errorf("expired reply: %q", got)
	}
}

func TestGuidedSearchNoResults(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	b.handleSearch(100)
	b.handleCallback(ctx, callback(100, "level_undergraduate"))
	b.handleCallback(ctx, callback(100, "field_mathematics"))
	b.handleCallback(ctx, callback(100, "region_Africa"))

	if got := api.lastText(); !strings.Contains(got, "No exact matches") {
		t.Errorf("empty-result reply: %q", got)
	}
}

func TestProfileConversation(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	textMsg := func(text string) *tgbotapi.Message {
		return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 100}}
	}

	b.handleSetProfile(100)
	b.handleText(ctx, textMsg("Dana"))
	b.handleText(ctx, textMsg("Germany"))
	b.handleCallback(ctx, callback(100, "plvl_masters"))
	b.handleText(ctx, textMsg("3.8/4.0"))
	b.handleCallback(ctx, callback(100, "pfield_computer science"))
	b.handleText(ctx, textMsg("ML research"))
	b.handleCallback(ctx, callback(100, "pfin_yes"))

	if got := api.lastText(); !strings.Contains(got, "Profile saved, Dana") {
		t.Errorf("save reply: %q", got)
	}

	p, err := store.GetProfile(ctx, 100)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	want := model.UserProfile{
		UserID:        100,
		Name:          "Dana",
		Country:       "Germany",
		Level:         "masters",
		GPA:           "3.8/4.0",
		Field:         "computer science",
		CareerGoals:   "ML research",
		FinancialNeed: true,
	}
	if *p != want {
		t.Errorf("profile = %+v, want %+v", *p, want)
	}

	// The session is gone; stray text falls back to the hint.
	b.handleText(ctx, textMsg("anything"))
	if got := api.lastText(); !strings.Contains(got, "/start") {
		t.Errorf("fallback reply: %q", got)
	}
}

func TestHandleRecommend(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t, "")

	b.handleRecommend(ctx, 100)
	if got := api.lastText(); !strings.Contains(got, "/setprofile") {
		t.Errorf("no-profile reply: %q", got)
	}

	p := model.UserProfile{
		UserID: 100, Name: "Dana", Country: "Germany",
		Level: "masters", Field: "computer science", FinancialNeed: true,
	}
	if err := store.SaveProfile(ctx, &p); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	b.handleRecommend(ctx, 100)
	got := api.lastText()
	if !strings.Contains(got, "Top") || !strings.Contains(got, "Dana") {
		t.Errorf("recommend header: %q", got)
	}
	if !strings.Contains(got, "ETH Excellence") {
		t.Errorf("top pick missing: %q", got)
	}
}

func TestHandleChecklist(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	b.handleChecklist(ctx, 100)
	if got := api.lastText(); strings.Contains(got, "✅ "+model.ChecklistItems[0]) {
		t.Errorf("fresh checklist should be unchecked: %q", got)
	}

	b.handleCheck(ctx, 100, "1")
	if got := api.lastText(); !strings.Contains(got, "checked") {
		t.Errorf("check reply: %q", got)
	}

	b.handleCheck(ctx, 100, "1")
	if got := api.lastText(); !strings.Contains(got, "unchecked") {
		t.Errorf("uncheck reply: %q", got)
	}

	b.handleCheck(ctx, 100, "99")
	if got := api.lastText(); !strings.Contains(got, "Usage") {
		t.Errorf("out-of-range reply: %q", got)
	}
}

func TestHandleNews(t *testing.T) {
	ctx := context.Background()
	feedXML := `<?xml version="1.0"?><rss version="2.0"><channel><title>News</title>
<item><title>Chevening Applications Now Open</title><link>https://news.example.com/1</link></item>
</channel></rss>`

	b, api, _ := newTestBot(t, feedXML)

	// Not configured.
	b.handleNews(ctx, 100)
	if got := api.lastText(); !strings.Contains(got, "not configured") {
		t.Errorf("unconfigured reply: %q", got)
	}

	b.cfg = &config.Config{NewsFeedURL: "https://news.example.com/rss"}
	b.handleNews(ctx, 100)
	if got := api.lastText(); !strings.Contains(got, "Chevening Applications Now Open") {
		t.Errorf("news reply: %q", got)
	}
}

func TestHandleCancel(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t, "")

	b.handleSearch(100)
	b.handleCallback(ctx, callback(100, "level_masters"))
	b.handleCancel(100)
	if got := api.lastText(); !strings.Contains(got, "Cancelled") {
		t.Errorf("cancel reply: %q", got)
	}

	// The abandoned flow must not resume.
	b.handleCallback(ctx, callback(100, "field_any"))
	if got := api.lastText(); !strings.Contains(got, "expired") {
		t.Errorf("post-cancel reply: %q", got)
	}
}

func TestHandleStartAndAll(t *testing.T) {
	b, api, _ := newTestBot(t, "")

	b.handleStart(100)
	if got := api.lastText(); !strings.Contains(got, "3 scholarships") {
		t.Errorf("start reply: %q", got)
	}

	b.handleAll(100)
	got := api.lastText()
	for i, s := range botEntries {
		if !strings.Contains(got, s.Name) {
			t.Errorf("catalog list missing entry %d (%s): %q", i, s.Name, got)
		}
	}
}
