package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnExpiring  = "Expiring soon"
	btnGrocery   = "Grocery list"
	btnDashboard = "Dashboard"
	btnTop       = "Top items"
	btnAsk       = "Ask SHELI"
	btnExport    = "Export xlsx"
)

func navKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"),
		),
	)
}

func groceryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Buy all", "buy:all"),
		),
	)
}

func askKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍲 Suggest a recipe", "ask:recipe"),
			tgbotapi.NewInlineKeyboardButtonData("🥫 Recipe ideas", "ask:ideas"),
		),
		navKeyboard().InlineKeyboard[0],
	)
}

// mainReplyKeyboard нижняя панель для залогиненного пользователя
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnExpiring), tgbotapi.NewKeyboardButton(btnGrocery)},
			{tgbotapi.NewKeyboardButton(btnDashboard), tgbotapi.NewKeyboardButton(btnTop)},
			{tgbotapi.NewKeyboardButton(btnAsk), tgbotapi.NewKeyboardButton(btnExport)},
		},
	}
}
