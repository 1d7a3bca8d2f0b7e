package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
)

const (
	commandsText = "Commands:\n" +
		"/status - Check your current streak\n" +
		"/reset - Forget your API key and settings\n" +
		"/help - Show this list"

	startText = "🎯 Welcome to MonkeyType Streak Tracker! 🎯\n\n" +
		"To get started, I need your MonkeyType API key.\n\n" +
		"📝 How to get it:\n" +
		"1. Go to monkeytype.com and log in\n" +
		"2. Open Settings → Account\n" +
		"3. Generate and copy an Ape Key\n\n" +
		"Please send your API key now (or /cancel):"

	validatingText   = "🔍 Validating your API key..."
	emptyKeyText     = "Please paste your API key as a plain text message."
	invalidKeyText   = "❌ MonkeyType rejected this API key. Please check it and send it again:"
	unavailableText  = "❌ Could not reach MonkeyType right now. Please send your API key again in a moment:"
	invalidOffset    = "❌ Invalid offset. Please pick one of the buttons below."
	notRegisteredTxt = "❌ You're not registered yet. Use /start to begin!"
	fetchFailedText  = "❌ Unable to fetch your MonkeyType data. Please try again later."
	resetText        = "🔄 Your data has been removed. Use /start to register again."
	cancelledText    = "Registration cancelled. Use /start whenever you're ready."
	nothingToCancel  = "Nothing to cancel."
	fallbackText     = "🤔 I'm not sure what you mean. Try /start or /status"
	internalErrText  = "Something went wrong on my side. Please try again later."
)

func welcomeBackText(u *domain.User) string {
	return fmt.Sprintf("Welcome back, %s! Your streak tracking is active 🎯\n"+
		"Reminders go out around %s UTC.\n\n%s",
		u.DisplayName, domain.FormatHour(u.TargetHour()), commandsText)
}

func askOffsetText(name string) string {
	return fmt.Sprintf("✅ Found your MonkeyType profile.\nUsername: %s\n\n"+
		"🕐 Now pick your streak hour offset.\n\n"+
		"It sets when your \"new day\" starts, relative to midnight UTC:\n"+
		"• 0 = midnight UTC\n"+
		"• +3 = 03:00 UTC\n"+
		"• -8 = 16:00 UTC\n\n"+
		"Your daily reminder is sent at that hour.", name)
}

func registeredText(u *domain.User) string {
	return fmt.Sprintf("🎉 You're all set!\n\n"+
		"⚙️ Configuration:\n"+
		"• MonkeyType user: %s\n"+
		"• Offset: %+d hours from UTC\n"+
		"• Daily reminder around %s UTC\n\n"+
		"🔥 Expect a nudge every day like:\n"+
		"\"New day new me or new day new record?\" 🚀\n\n%s",
		u.DisplayName, u.OffsetHours, domain.FormatHour(u.TargetHour()), commandsText)
}

func statusText(u *domain.User, streak int) string {
	last := "Never"
	if u.LastReminderDate != nil {
		last = u.LastReminderDate.String()
	}
	return fmt.Sprintf("📊 Your MonkeyType status:\n"+
		"• Username: %s\n"+
		"• Current streak: %d days 🔥\n"+
		"• Offset: %+d hours (reminder at %s UTC)\n"+
		"• Last reminder: %s",
		u.DisplayName, streak, u.OffsetHours, domain.FormatHour(u.TargetHour()), last)
}

// offsetKeyboard lays the 24 offset labels out three per row.
func offsetKeyboard() tgbotapi.ReplyKeyboardMarkup {
	labels := domain.OffsetLabels()
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(labels); i += 3 {
		row := tgbotapi.NewKeyboardButtonRow()
		for _, l := range labels[i:min(i+3, len(labels))] {
			row = append(row, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	return kb
}
