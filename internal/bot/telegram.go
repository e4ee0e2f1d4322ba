package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Barneybot002/monad-testbot/internal/config"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// Telegram adapts the Telegram Bot API to the Transport interface.
type Telegram struct {
	api *tgbotapi.BotAPI
	log *config.Logger
}

// NewTelegram connects to the Telegram Bot API with the given token.
func NewTelegram(token string, debug bool, log *config.Logger) (*Telegram, error) {
	if token == "" {
		return nil, boterr.ErrTransportToken
	}
	if log == nil {
		log = config.NullLogger()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrTransportToken, err, "connecting to Telegram")
	}
	api.Debug = debug

	log.Info("connected to Telegram as @%s", api.Self.UserName)
	return &Telegram{api: api, log: log}, nil
}

func toInlineKeyboard(keyboard Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SendMessage sends text with an optional inline keyboard. The Bot API
// client does not take a context; cancellation applies between calls.
func (t *Telegram) SendMessage(_ context.Context, chatID int64, text string, keyboard Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if len(keyboard) > 0 {
		msg.ReplyMarkup = toInlineKeyboard(keyboard)
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, boterr.WrapAs(boterr.ErrNetwork, err, "sending message")
	}
	return sent.MessageID, nil
}

// EditMessage replaces a message's text and keyboard in place.
func (t *Telegram) EditMessage(_ context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.DisableWebPagePreview = true
	if len(keyboard) > 0 {
		markup := toInlineKeyboard(keyboard)
		edit.ReplyMarkup = &markup
	}

	if _, err := t.api.Send(edit); err != nil {
		return boterr.WrapAs(boterr.ErrNetwork, err, "editing message %d", messageID)
	}
	return nil
}

// DeleteMessage removes a message from the chat.
func (t *Telegram) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return boterr.WrapAs(boterr.ErrNetwork, err, "deleting message %d", messageID)
	}
	return nil
}

// AnswerCallback acknowledges a button press.
func (t *Telegram) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return boterr.WrapAs(boterr.ErrNetwork, err, "answering callback")
	}
	return nil
}

// Updates starts long polling and returns the normalized event stream.
// The channel closes when ctx is canceled.
func (t *Telegram) Updates(ctx context.Context) (<-chan Update, error) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	raw := t.api.GetUpdatesChan(cfg)
	out := make(chan Update)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return
			case upd, ok := <-raw:
				if !ok {
					return
				}
				if converted, ok := convertUpdate(upd); ok {
					out <- converted
				}
			}
		}
	}()

	return out, nil
}

// convertUpdate maps a raw Telegram update onto the transport-neutral
// event shape. Joins, edits, and other noise are dropped.
func convertUpdate(upd tgbotapi.Update) (Update, bool) {
	if cq := upd.CallbackQuery; cq != nil && cq.Message != nil {
		return Update{
			UserID:     cq.From.ID,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			Callback:   cq.Data,
			CallbackID: cq.ID,
		}, true
	}

	if m := upd.Message; m != nil && m.From != nil {
		out := Update{
			UserID:    m.From.ID,
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
		}
		if m.IsCommand() {
			out.Command = m.Command()
			out.Text = m.CommandArguments()
		} else {
			out.Text = m.Text
		}
		return out, true
	}

	return Update{}, false
}
