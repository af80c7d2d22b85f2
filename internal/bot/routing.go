package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/shelf-timer/internal/advisor"
	"github.com/Spok95/shelf-timer/internal/dialog"
	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/report"
)

const defaultDays = 7

const helpText = `/login <username> <password> — sign in
/logout — sign out and drop local changes
/expiring [days] — items expiring soon (default 7)
/grocery [days] — restock suggestions
/buy [n …] — add suggested items to the ledger
/use <food> | <brand> | <qty> [trash] — record usage
/dashboard — sustainability dashboard
/top — most wasted and most used items
/recipe, /ideas, /ask <question> — pantry assistant
/export — dashboard as xlsx`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		sess := b.states.Get(chatID)
		if sess.LoggedIn() {
			b.reply(chatID, b.greeting(sess.Username)+"\n\n"+helpText)
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "🥫 Welcome to Shelf Life!\nSign in with /login <username> <password>.\n\n"+helpText))
		return

	case "login":
		b.forget(chatID, msg.MessageID)
		fields := strings.Fields(args)
		if len(fields) != 2 {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /login <username> <password>"))
			return
		}
		u, err := b.users.Authenticate(fields[0], fields[1])
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Invalid username or password."))
			return
		}
		b.states.Set(dialog.Session{ChatID: chatID, Username: u.Username, State: dialog.StateIdle})
		b.log.Info("bot login", "user", u.Username, "chat", chatID)
		b.reply(chatID, b.greeting(u.Username))
		return

	case "logout":
		b.states.Reset(chatID)
		m := tgbotapi.NewMessage(chatID, "Logged out. Local changes were discarded.")
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(m)
		return
	}

	sess, ok := b.session(chatID)
	if !ok {
		return
	}
	b.states.SetState(chatID, dialog.StateIdle)

	switch msg.Command() {
	case "expiring":
		b.showExpiring(ctx, chatID, sess, args)
	case "grocery":
		b.showGrocery(ctx, chatID, sess, args)
	case "buy":
		b.buy(ctx, chatID, sess, args)
	case "use":
		if args == "" {
			b.states.SetState(chatID, dialog.StateAwaitUse)
			m := tgbotapi.NewMessage(chatID, "Send the item as: <food> | <brand> | <qty> [trash]")
			m.ReplyMarkup = navKeyboard()
			b.send(m)
			return
		}
		b.use(ctx, chatID, sess, args)
	case "dashboard":
		b.showDashboard(ctx, chatID, sess)
	case "top":
		b.showTop(ctx, chatID, sess)
	case "recipe":
		b.ask(ctx, chatID, sess, advisor.KindSuggestRecipe, "")
	case "ideas":
		b.ask(ctx, chatID, sess, advisor.KindRecipeIdeas, "")
	case "ask":
		if args == "" {
			b.states.SetState(chatID, dialog.StateAwaitQuestion)
			m := tgbotapi.NewMessage(chatID, "What would you like to ask SHELI?")
			m.ReplyMarkup = askKeyboard()
			b.send(m)
			return
		}
		b.ask(ctx, chatID, sess, advisor.KindQuestion, args)
	case "export":
		b.export(ctx, chatID, sess)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. /help lists what I can do."))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	sess, ok := b.session(chatID)
	if !ok {
		return
	}

	switch sess.State {
	case dialog.StateAwaitQuestion:
		b.states.SetState(chatID, dialog.StateIdle)
		b.ask(ctx, chatID, sess, advisor.KindQuestion, text)
		return
	case dialog.StateAwaitUse:
		b.states.SetState(chatID, dialog.StateIdle)
		b.use(ctx, chatID, sess, text)
		return
	}

	switch text {
	case btnExpiring:
		b.showExpiring(ctx, chatID, sess, "")
	case btnGrocery:
		b.showGrocery(ctx, chatID, sess, "")
	case btnDashboard:
		b.showDashboard(ctx, chatID, sess)
	case btnTop:
		b.showTop(ctx, chatID, sess)
	case btnAsk:
		b.states.SetState(chatID, dialog.StateAwaitQuestion)
		m := tgbotapi.NewMessage(chatID, "What would you like to ask SHELI?")
		m.ReplyMarkup = askKeyboard()
		b.send(m)
	case btnExport:
		b.export(ctx, chatID, sess)
	default:
		b.reply(chatID, "Use the buttons below or /help.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	if cb.Data == "nav:cancel" {
		b.states.SetState(chatID, dialog.StateIdle)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Cancelled.")
		_ = b.answerCallback(cb, "Cancelled", false)
		return
	}

	sess := b.states.Get(chatID)
	if !sess.LoggedIn() {
		_ = b.answerCallback(cb, "Please log in first", true)
		return
	}
	_ = b.answerCallback(cb, "", false)

	switch cb.Data {
	case "buy:all":
		b.editTextAndClear(chatID, cb.Message.MessageID, cb.Message.Text)
		b.buy(ctx, chatID, sess, "")
	case "ask:recipe":
		b.states.SetState(chatID, dialog.StateIdle)
		b.editTextAndClear(chatID, cb.Message.MessageID, "🍲 Cooking up a recipe…")
		b.ask(ctx, chatID, sess, advisor.KindSuggestRecipe, "")
	case "ask:ideas":
		b.states.SetState(chatID, dialog.StateIdle)
		b.editTextAndClear(chatID, cb.Message.MessageID, "🥫 Looking for ideas…")
		b.ask(ctx, chatID, sess, advisor.KindRecipeIdeas, "")
	default:
		b.log.Warn("unknown callback", "data", cb.Data)
	}
}

func (b *Bot) showExpiring(ctx context.Context, chatID int64, sess dialog.Session, arg string) {
	days, err := parseDays(arg, defaultDays)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	b.reply(chatID, formatExpiring(analytics.ExpiringWithin(l, sess.Username, days, b.today()), days))
}

func (b *Bot) showGrocery(ctx context.Context, chatID int64, sess dialog.Session, arg string) {
	days, err := parseDays(arg, defaultDays)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	recs := analytics.Recommend(l, sess.Username, days, b.today())
	sess.Grocery = recs
	sess.State = dialog.StateIdle
	b.states.Set(sess)

	m := tgbotapi.NewMessage(chatID, formatGrocery(recs, days))
	if len(recs) > 0 {
		m.ReplyMarkup = groceryKeyboard()
	}
	b.send(m)
}

// buy дописывает выбранные рекомендации в реестр с датой покупки «сегодня».
func (b *Bot) buy(ctx context.Context, chatID int64, sess dialog.Session, arg string) {
	if len(sess.Grocery) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No grocery list yet, run /grocery first."))
		return
	}
	idx, err := parseIndexes(arg, len(sess.Grocery))
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	shop := b.today()
	var added []string
	for _, i := range idx {
		rec := sess.Grocery[i]
		p := rec.Purchase(l, sess.Username, shop)
		if err := b.store.Append(ctx, p); err != nil {
			b.log.Error("append purchase failed", "user", sess.Username, "food", p.FoodName, "err", err)
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Saved %d item(s), then failed on %s. Try again later.", len(added), rec.FoodName)))
			return
		}
		added = append(added, fmt.Sprintf("%s × %d", rec.FoodName, rec.Quantity))
	}
	b.reply(chatID, "✅ Added to your pantry:\n"+strings.Join(added, "\n"))
}

// use — локальное списание: новая версия строки живёт в сессии чата.
func (b *Bot) use(ctx context.Context, chatID int64, sess dialog.Session, arg string) {
	a, err := parseUseArgs(arg)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	next, row, err := l.Subtract(sess.Username, a.food, a.brand, a.qty, a.trashed)
	switch {
	case errors.Is(err, pantry.ErrItemNotFound):
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("No %q from %q in your pantry.", a.food, a.brand)))
		return
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	b.states.Keep(chatID, row)

	total, unit := next.Available(sess.Username, a.food, a.brand)
	verb := "Used"
	if a.trashed {
		verb = "Trashed"
	}
	b.reply(chatID, fmt.Sprintf("%s %s %s. Left: %s %s.", verb, fmtQty(a.qty), a.food, fmtQty(total), unit))
}

func (b *Bot) showDashboard(ctx context.Context, chatID int64, sess dialog.Session) {
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	d := analytics.BuildDashboard(l, sess.Username, b.today(), b.factor)
	b.reply(chatID, formatDashboard(b.users.DisplayName(sess.Username), d))
}

func (b *Bot) showTop(ctx context.Context, chatID int64, sess dialog.Session) {
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	ref := b.today()
	text := formatTop("🗑️ Most wasted", analytics.TopItems(l, sess.Username, analytics.ModeWaste, ref)) +
		"\n" + formatTop("✅ Most used", analytics.TopItems(l, sess.Username, analytics.ModeUsed, ref))
	b.reply(chatID, text)
}

func (b *Bot) ask(ctx context.Context, chatID int64, sess dialog.Session, kind advisor.Kind, question string) {
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	items := advisor.PantryItems(l, sess.Username, b.today())
	prompt := advisor.BuildPrompt(b.users.DisplayName(sess.Username), items, kind, question)

	_ = b.typing(chatID)
	answer, err := b.advisor.Ask(ctx, prompt)
	switch {
	case errors.Is(err, advisor.ErrNotConfigured):
		b.send(tgbotapi.NewMessage(chatID, "The assistant is not configured on this server."))
		return
	case err != nil:
		b.log.Error("advisor failed", "user", sess.Username, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "The assistant is unavailable right now, try again later."))
		return
	}
	b.reply(chatID, answer)
}

func (b *Bot) export(ctx context.Context, chatID int64, sess dialog.Session) {
	l, ok := b.view(ctx, chatID, sess)
	if !ok {
		return
	}
	ref := b.today()
	now := time.Now().In(b.loc)
	data, err := report.Build(report.Input{
		User:        sess.Username,
		DisplayName: b.users.DisplayName(sess.Username),
		Generated:   now,
		Dashboard:   analytics.BuildDashboard(l, sess.Username, ref, b.factor),
		Expiring:    analytics.ExpiringWithin(l, sess.Username, defaultDays, ref),
		Grocery:     analytics.Recommend(l, sess.Username, defaultDays, ref),
	})
	if err != nil {
		b.log.Error("report build failed", "user", sess.Username, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not build the report."))
		return
	}
	b.sendDocument(chatID, report.FileName(sess.Username, now), data, "Your pantry dashboard")
}
