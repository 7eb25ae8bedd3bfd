package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

// TelegramNotifier pushes new deals to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *utils.Logger
}

// NewTelegramNotifier connects the bot. Token and chat ID both have to be
// configured; an empty token means Telegram delivery is simply off.
func NewTelegramNotifier(token string, chatID int64, logger *utils.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram: token and chat ID required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	bot.Debug = false

	logger.Info("[telegram] Authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// Send delivers one message listing every new deal.
func (t *TelegramNotifier) Send(deals []*models.Deal) error {
	if len(deals) == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, renderTelegramHTML(deals))
	msg.ParseMode = "HTML"

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("[telegram] HTML message failed (%v), retrying as plain text", err)
		msg.ParseMode = ""
		msg.Text = renderPlainText(deals)
		if _, err2 := t.bot.Send(msg); err2 != nil {
			return fmt.Errorf("telegram: send: %w", err2)
		}
	}

	t.logger.Info("[telegram] Sent %d deals", len(deals))
	return nil
}

func renderTelegramHTML(deals []*models.Deal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛒 <b>%d Double-Savings Deals Found!</b>\n", len(deals)))
	b.WriteString(fmt.Sprintf("💰 Total potential savings: <b>$%.2f</b>\n\n", totalSavings(deals)))

	for i, d := range deals {
		b.WriteString(fmt.Sprintf("<b>%d. %s</b>\n", i+1, escapeHTML(d.ProductName)))
		b.WriteString(fmt.Sprintf("Was $%.2f → Sale $%.2f → Final <b>$%.2f</b>\n",
			d.OriginalPrice, d.SalePrice, d.FinalPrice))
		b.WriteString(fmt.Sprintf("💰 Save $%.2f (%.0f%% off)\n", d.Savings, d.SavingsPercent))
		b.WriteString(fmt.Sprintf("🎫 %s\n", escapeHTML(d.CouponDescription)))
		if d.ExpiryDate != "" && d.ExpiryDate != "Unknown" {
			b.WriteString(fmt.Sprintf("⏰ Expires %s\n", escapeHTML(d.ExpiryDate)))
		}
		b.WriteString("\n")
	}

	b.WriteString("📱 Remember to clip the coupons in the store app before checkout.")
	return b.String()
}

func renderPlainText(deals []*models.Deal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d double-savings deals found (total $%.2f):\n\n",
		len(deals), totalSavings(deals)))
	for i, d := range deals {
		b.WriteString(fmt.Sprintf("%d. %s — was $%.2f, final $%.2f, save $%.2f (%.0f%%)\n",
			i+1, d.ProductName, d.OriginalPrice, d.FinalPrice, d.Savings, d.SavingsPercent))
	}
	return b.String()
}

func totalSavings(deals []*models.Deal) float64 {
	var total float64
	for _, d := range deals {
		total += d.Savings
	}
	return total
}

// escapeHTML escapes the characters Telegram's HTML parse mode rejects.
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
