package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"food-suggester/internal/choice"
	"food-suggester/internal/clipper"
	"food-suggester/internal/config"
	"food-suggester/internal/metrics"
	"food-suggester/internal/planner"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	sessionTTL    = 10 * time.Minute
	updateTimeout = 30 * time.Second
)

// Planner is the slice of the meal planner the bot drives.
type Planner interface {
	SuggestFor(ctx context.Context, date time.Time) (planner.Suggestions, error)
	DayPlan(ctx context.Context, date time.Time) (planner.DayPlan, error)
	Finalize(ctx context.Context, sel planner.Selection) (planner.Finalized, error)
	AddRecipe(ctx context.Context, name string) (recipe.Recipe, error)
	ListRecipes(ctx context.Context) ([]recipe.Numbered, error)
	ListChoices(ctx context.Context) ([]choice.Choice, error)
}

// NameClipper resolves a recipe link to a recipe name.
type NameClipper interface {
	RecipeName(ctx context.Context, url string) (string, error)
}

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot wraps the Telegram API, the Planner and the Clipper.
type Bot struct {
	api      sender
	planner  Planner
	clipper  NameClipper
	sessions *SessionRepository
	health   func(ctx context.Context) metrics.Health
	allowed  map[int64]struct{}
	log      *zap.Logger
	now      func() time.Time

	// inflight tracks updates still being processed after the webhook
	// has answered.
	inflight sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	p Planner,
	clip NameClipper,
	sessions *SessionRepository,
	health func(ctx context.Context) metrics.Health,
	log *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", zap.String("response", resp.Description))

	return newBot(api, p, clip, sessions, health, cfg.TelegramAllowedUserIDs, log), nil
}

func newBot(api sender, p Planner, clip NameClipper, sessions *SessionRepository, health func(ctx context.Context) metrics.Health, allowedIDs []int64, log *zap.Logger) *Bot {
	allowed := make(map[int64]struct{}, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = struct{}{}
	}
	return &Bot{
		api:      api,
		planner:  p,
		clipper:  clip,
		sessions: sessions,
		health:   health,
		allowed:  allowed,
		log:      log,
		now:      time.Now,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook", b.handleWebhook)
	mux.HandleFunc("GET /health", b.handleHealth)
}

// RunJanitor removes expired sessions every interval until ctx is done.
func (b *Bot) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := b.sessions.CleanupExpired(ctx, b.now())
			if err != nil {
				b.log.Warn("session cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				b.log.Debug("expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}

func (b *Bot) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := b.health(r.Context())
	status := http.StatusOK
	if !h.Healthy() {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(h)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("error parsing update", zap.Error(err))
		http.Error(w, "invalid update", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	from := senderOf(update)
	if from == nil {
		return
	}
	if !b.isAllowed(from.ID) {
		b.log.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		return
	}

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()
		b.processUpdate(ctx, update)
	}()
}

// Wait blocks until every accepted update has been processed. Call it after
// the HTTP server stopped accepting requests and before closing the store.
func (b *Bot) Wait() {
	b.inflight.Wait()
}

func senderOf(update tgbotapi.Update) *tgbotapi.User {
	switch {
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From
	case update.Message != nil:
		return update.Message.From
	}
	return nil
}

func (b *Bot) isAllowed(userID int64) bool {
	_, ok := b.allowed[userID]
	return ok
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil && update.Message.From != nil {
		b.processMessage(ctx, update.Message)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		b.clearSession(ctx, userID)
		switch msg.Command() {
		case "choose":
			b.sendSuggestions(ctx, chatID)
		case "finalize":
			b.handleFinalizeCommand(ctx, chatID, msg.CommandArguments())
		case "add":
			if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
				b.addRecipe(ctx, chatID, 0, args)
			} else {
				b.promptRecipeName(ctx, chatID, userID)
			}
		case "recipes":
			b.sendCatalog(ctx, chatID)
		case "status":
			b.reply(chatID, formatHealth(b.health(ctx)))
		case "cancel":
			b.reply(chatID, "Cancelled.")
		default:
			b.sendHelp(chatID)
		}
		return
	}

	switch text {
	case navChoose:
		b.clearSession(ctx, userID)
		b.sendSuggestions(ctx, chatID)
		return
	case navAdd:
		b.promptRecipeName(ctx, chatID, userID)
		return
	case navRecipes:
		b.clearSession(ctx, userID)
		b.sendCatalog(ctx, chatID)
		return
	}

	session, err := b.sessions.GetActive(ctx, userID, b.now())
	if err != nil {
		b.log.Error("failed to load session", zap.String("user_id", userID), zap.Error(err))
	}
	if session != nil && session.State == StateAwaitingRecipeName {
		data, err := session.GetContextData()
		if err != nil {
			b.log.Warn("unreadable session context", zap.Int64("session_id", session.ID), zap.Error(err))
			data = SessionContextData{ChatID: chatID}
		}
		// the prompt belongs to the chat it was sent in
		if data.ChatID == chatID {
			if err := b.sessions.Delete(ctx, session.ID); err != nil {
				b.log.Warn("failed to delete session", zap.Int64("session_id", session.ID), zap.Error(err))
			}
			b.addRecipe(ctx, chatID, data.PromptMessageID, text)
			return
		}
	}

	if clipper.IsURL(text) {
		b.addRecipe(ctx, chatID, 0, text)
		return
	}

	b.sendHelp(chatID)
}

func (b *Bot) clearSession(ctx context.Context, userID string) {
	if err := b.sessions.Clear(ctx, userID); err != nil {
		b.log.Warn("failed to clear sessions", zap.String("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) sendHelp(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = navigationKeyboard()
	b.send(msg)
}

func (b *Bot) sendSuggestions(ctx context.Context, chatID int64) {
	date := shared.DateOf(b.now())

	suggestions, err := b.planner.SuggestFor(ctx, date)
	if err != nil {
		b.log.Error("failed to load suggestions", zap.Error(err))
		b.reply(chatID, "❌ Error loading suggestions: "+html.EscapeString(err.Error()))
		return
	}
	plan, err := b.planner.DayPlan(ctx, date)
	if err != nil {
		b.log.Error("failed to load day plan", zap.Error(err))
		b.reply(chatID, "❌ Error loading chosen foods: "+html.EscapeString(err.Error()))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatSuggestions(suggestions, plan))
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard, ok := suggestionKeyboard(suggestions.Items); ok {
		msg.ReplyMarkup = keyboard
	}
	b.send(msg)
}

func (b *Bot) handleFinalizeCommand(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(chatID, "Usage: /finalize &lt;number&gt; &lt;Morning|Evening&gt;")
		return
	}

	number, err := strconv.Atoi(fields[0])
	if err != nil {
		b.reply(chatID, formatFinalizeError(planner.ErrInvalidSelection))
		return
	}
	slot, err := choice.ParseSlot(fields[1])
	if err != nil {
		b.reply(chatID, formatFinalizeError(err))
		return
	}

	b.finalize(ctx, chatID, planner.Selection{Number: number, Slot: slot, Date: shared.DateOf(b.now())})
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}

	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID

	slot, position, name, ok := decodeFinalize(query.Data)
	if !ok {
		b.log.Warn("unknown callback data", zap.String("data", query.Data))
		return
	}

	b.finalize(ctx, chatID, planner.Selection{
		Number:       position,
		Slot:         slot,
		Date:         shared.DateOf(b.now()),
		ExpectedName: name,
	})
}

func (b *Bot) finalize(ctx context.Context, chatID int64, sel planner.Selection) {
	res, err := b.planner.Finalize(ctx, sel)
	if err != nil {
		b.log.Info("finalize rejected", zap.Int("number", sel.Number), zap.Error(err))
		b.reply(chatID, formatFinalizeError(err))
		return
	}
	b.reply(chatID, formatFinalized(res))
}

func (b *Bot) promptRecipeName(ctx context.Context, chatID int64, userID string) {
	msg := tgbotapi.NewMessage(chatID, "📝 Send me the recipe name or a link to the recipe.")
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("failed to send prompt", zap.Error(err))
		return
	}

	_, err = b.sessions.Start(ctx, userID, StateAwaitingRecipeName, SessionContextData{
		ChatID:          chatID,
		PromptMessageID: sent.MessageID,
	}, sessionTTL, b.now())
	if err != nil {
		b.log.Error("failed to start session", zap.String("user_id", userID), zap.Error(err))
		b.reply(chatID, "❌ Something went wrong. Use /add &lt;name&gt; instead.")
	}
}

// addRecipe stores input as a recipe, resolving links through the clipper.
// A non-zero replyTo threads the answer under that message.
func (b *Bot) addRecipe(ctx context.Context, chatID int64, replyTo int, input string) {
	name := input
	if clipper.IsURL(input) {
		clipped, err := b.clipper.RecipeName(ctx, input)
		if err != nil {
			b.log.Warn("failed to clip recipe name", zap.String("url", input), zap.Error(err))
			b.replyTo(chatID, replyTo, "❌ Error adding recipe: "+html.EscapeString(err.Error()))
			return
		}
		name = clipped
	}

	rec, err := b.planner.AddRecipe(ctx, name)
	if err != nil {
		b.replyTo(chatID, replyTo, "❌ Error adding recipe: "+html.EscapeString(err.Error()))
		return
	}
	b.replyTo(chatID, replyTo, fmt.Sprintf("✅ Recipe '%s' added successfully!", html.EscapeString(rec.Name)))
}

func (b *Bot) sendCatalog(ctx context.Context, chatID int64) {
	recipes, err := b.planner.ListRecipes(ctx)
	if err != nil {
		b.log.Error("failed to list recipes", zap.Error(err))
		b.reply(chatID, "❌ Error loading recipes.")
		return
	}
	choices, err := b.planner.ListChoices(ctx)
	if err != nil {
		b.log.Error("failed to list choices", zap.Error(err))
		b.reply(chatID, "❌ Error loading chosen foods.")
		return
	}
	b.reply(chatID, formatCatalog(recipes, choices))
}

func (b *Bot) reply(chatID int64, text string) {
	b.replyTo(chatID, 0, text)
}

func (b *Bot) replyTo(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = messageID
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}
