package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/shelf-timer/internal/advisor"
	"github.com/Spok95/shelf-timer/internal/dialog"
	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/domain/users"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	log     *slog.Logger
	users   *users.Table
	states  *dialog.Store
	store   ledger.Store
	advisor *advisor.Client
	loc     *time.Location
	factor  float64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	usersTable *users.Table, states *dialog.Store,
	store ledger.Store, adv *advisor.Client,
	loc *time.Location, co2Factor float64) *Bot {

	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		api: api, log: log, users: usersTable, states: states,
		store: store, advisor: adv, loc: loc, factor: co2Factor,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

func (b *Bot) today() time.Time { return analytics.Today(b.loc) }

// session — сессия залогиненного чата; иначе просим войти.
func (b *Bot) session(chatID int64) (dialog.Session, bool) {
	sess := b.states.Get(chatID)
	if !sess.LoggedIn() {
		b.send(tgbotapi.NewMessage(chatID, "Please log in first: /login <username> <password>"))
		return sess, false
	}
	return sess, true
}

// view — свежий реестр с локальными правками этого чата.
func (b *Bot) view(ctx context.Context, chatID int64, sess dialog.Session) (pantry.Ledger, bool) {
	l, err := b.store.Load(ctx)
	if err != nil {
		b.log.Error("ledger load failed", "user", sess.Username, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not read the pantry ledger, try again later."))
		return pantry.Ledger{}, false
	}
	return sess.View(l), true
}

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = mainReplyKeyboard()
	b.send(m)
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	b.send(doc)
}

func (b *Bot) greeting(username string) string {
	return fmt.Sprintf("Hi, %s! What would you like to do?", b.users.DisplayName(username))
}
