package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// forget удаляет сообщение (например, с паролем); ошибки не критичны.
func (b *Bot) forget(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete message failed", "err", err)
	}
}

// typing показывает «печатает…»; ответ Telegram — голый true, поэтому Request, а не Send.
func (b *Bot) typing(chatID int64) error {
	_, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	if err != nil {
		b.log.Debug("chat action failed", "err", err)
	}
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// parseDays: пусто — def, иначе неотрицательное целое.
func parseDays(arg string, def int) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return def, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("days must be a whole number ≥ 0, got %q", arg)
	}
	return n, nil
}

type useArgs struct {
	food    string
	brand   string
	qty     float64
	trashed bool
}

var errUseFormat = errors.New("format: <food> | <brand> | <qty> [trash]")

// parseUseArgs разбирает "Milk | Acme | 2 trash"; бренд может быть пустым.
func parseUseArgs(s string) (useArgs, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return useArgs{}, errUseFormat
	}
	a := useArgs{
		food:  strings.TrimSpace(parts[0]),
		brand: strings.TrimSpace(parts[1]),
	}
	if a.food == "" {
		return useArgs{}, errUseFormat
	}
	tail := strings.Fields(parts[2])
	if len(tail) == 0 || len(tail) > 2 {
		return useArgs{}, errUseFormat
	}
	qty, err := strconv.ParseFloat(strings.ReplaceAll(tail[0], ",", "."), 64)
	if err != nil {
		return useArgs{}, fmt.Errorf("quantity %q is not a number", tail[0])
	}
	a.qty = qty
	if len(tail) == 2 {
		switch strings.ToLower(tail[1]) {
		case "trash", "trashed":
			a.trashed = true
		default:
			return useArgs{}, errUseFormat
		}
	}
	return a, nil
}

// parseIndexes — номера позиций списка (с 1) через пробел или запятую; пусто — все.
// Повторы отбрасываются, порядок сохраняется.
func parseIndexes(arg string, n int) ([]int, error) {
	fields := strings.FieldsFunc(arg, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	seen := map[int]bool{}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("item %q is not in the list (1..%d)", f, n)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i-1)
	}
	return out, nil
}

func fmtQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
