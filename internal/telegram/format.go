package telegram

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"food-suggester/internal/choice"
	"food-suggester/internal/metrics"
	"food-suggester/internal/planner"
	"food-suggester/internal/recipe"
	"food-suggester/internal/shared"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	navChoose  = "Choose Food"
	navAdd     = "Add Recipe"
	navRecipes = "View all recipes"

	// Telegram rejects callback data longer than this.
	maxCallbackData = 64
	// Keeps the inline keyboard well under Telegram's button limit.
	maxKeyboardRows = 40
)

const helpText = `<b>The Food Suggester</b>

/choose - today's suggestions and chosen foods
/finalize &lt;number&gt; &lt;Morning|Evening&gt; - log a recipe by its number
/add &lt;name or link&gt; - add a recipe
/recipes - all recipes and everything chosen so far
/status - bot health
/cancel - stop waiting for a recipe name`

func navigationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(navChoose),
			tgbotapi.NewKeyboardButton(navAdd),
			tgbotapi.NewKeyboardButton(navRecipes),
		),
	)
}

func formatSuggestions(s planner.Suggestions, plan planner.DayPlan) string {
	var sb strings.Builder
	date := shared.FormatDate(s.Date)

	fmt.Fprintf(&sb, "🍽 <b>Chosen foods for %s:</b>\n", date)
	writeList(&sb, s.ChosenToday, "Nothing chosen yet.")

	sb.WriteString("\n💡 <b>Recipe suggestions for today:</b>\n")
	if len(s.Items) == 0 {
		sb.WriteString("<i>No suggestions.</i>\n")
	}
	for _, item := range s.Items {
		fmt.Fprintf(&sb, "%d. %s\n", item.Position, html.EscapeString(item.Name))
	}

	sb.WriteString("\n🌅 <b>Morning Foods:</b>\n")
	writeList(&sb, plan.Morning, "No morning foods selected.")
	sb.WriteString("\n🌙 <b>Evening Foods:</b>\n")
	writeList(&sb, plan.Evening, "No evening foods selected.")

	return sb.String()
}

func writeList(sb *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "<i>%s</i>\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "• %s\n", html.EscapeString(item))
	}
}

// suggestionKeyboard offers one Morning and one Evening button per suggestion.
func suggestionKeyboard(items []planner.Suggestion) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, item := range items {
		if i == maxKeyboardRows {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌅 "+item.Name, encodeFinalize(choice.Morning, item.Position, item.Name)),
			tgbotapi.NewInlineKeyboardButtonData("🌙 "+item.Name, encodeFinalize(choice.Evening, item.Position, item.Name)),
		))
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// encodeFinalize packs a finalize button as fin|<M|E>|<position>|<name>.
// The name is dropped when it does not fit.
func encodeFinalize(slot choice.Slot, position int, name string) string {
	data := fmt.Sprintf("fin|%c|%d", slot[0], position)
	if withName := data + "|" + name; len(withName) <= maxCallbackData {
		return withName
	}
	return data
}

func decodeFinalize(data string) (slot choice.Slot, position int, name string, ok bool) {
	parts := strings.SplitN(data, "|", 4)
	if len(parts) < 3 || parts[0] != "fin" {
		return "", 0, "", false
	}

	switch parts[1] {
	case "M":
		slot = choice.Morning
	case "E":
		slot = choice.Evening
	default:
		return "", 0, "", false
	}

	position, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, "", false
	}
	if len(parts) == 4 {
		name = parts[3]
	}
	return slot, position, name, true
}

func formatFinalized(res planner.Finalized) string {
	return fmt.Sprintf("✅ '%s' finalized for %s!", html.EscapeString(res.RecipeName), strings.ToLower(string(res.Slot)))
}

func formatFinalizeError(err error) string {
	switch {
	case errors.Is(err, planner.ErrInvalidSelection):
		return "❌ Invalid recipe choice."
	case errors.Is(err, planner.ErrStaleSelection):
		return "⚠️ The recipe list changed since it was shown. Please use /choose again."
	case errors.Is(err, choice.ErrInvalidSlot):
		return "❌ Please choose Morning or Evening."
	default:
		return "❌ Error finalizing recipe: " + html.EscapeString(err.Error())
	}
}

func formatCatalog(recipes []recipe.Numbered, choices []choice.Choice) string {
	var sb strings.Builder

	sb.WriteString("📖 <b>All Recipes:</b>\n")
	if len(recipes) == 0 {
		sb.WriteString("<i>No recipes yet.</i>\n")
	}
	for _, r := range recipes {
		fmt.Fprintf(&sb, "%d. %s\n", r.Position, html.EscapeString(r.Name))
	}

	sb.WriteString("\n🗂 <b>All chosen food info:</b>\n")
	if len(choices) == 0 {
		sb.WriteString("<i>Nothing chosen yet.</i>\n")
		return sb.String()
	}
	sb.WriteString("<pre>")
	for _, c := range choices {
		fmt.Fprintf(&sb, "%-4d %-10s %-7s %s\n", c.ID, shared.FormatDate(c.ChosenDate), c.ChosenTime, html.EscapeString(c.RecipeName))
	}
	sb.WriteString("</pre>")
	return sb.String()
}

func formatHealth(h metrics.Health) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Health Report</b>\n\n")
	fmt.Fprintf(&sb, "• Status: %s\n", html.EscapeString(h.Status))
	fmt.Fprintf(&sb, "• Database: %s\n", html.EscapeString(h.Database))
	fmt.Fprintf(&sb, "• Uptime: %s\n", h.Uptime)
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", h.AllocMB, h.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", h.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", h.DataDiskSize)
	return sb.String()
}
