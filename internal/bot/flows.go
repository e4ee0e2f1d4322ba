package bot

import (
	"context"
	"strings"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/session"
	"github.com/Barneybot002/monad-testbot/internal/wallet"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

func (d *Dispatcher) handleText(ctx context.Context, up Update) {
	text := strings.TrimSpace(up.Text)
	if text == "" {
		return
	}

	if chain.IsAddress(text) {
		d.handleAddress(ctx, up, text)
		return
	}

	sess := d.sessions.Get(up.UserID)
	switch sess.State {
	case session.StateImportPrivateKey:
		d.handleImportPrivateKey(ctx, up, text)
	case session.StateImportMnemonic:
		d.handleImportMnemonic(ctx, up, text)
	case session.StateBuyCustomAmount:
		d.handleBuyCustomAmount(ctx, up, sess, text)
	case session.StateSellCustomAmount:
		d.handleSellCustomAmount(ctx, up, sess, text)
	default:
		d.reply(ctx, up.ChatID, "I didn't understand that. Paste a token address to trade, or see /help.", nil)
	}
}

// handleAddress routes address-pattern free text. A wallet is required
// regardless of session state; an unrelated in-progress flow is
// superseded by the new address, not merged with it.
func (d *Dispatcher) handleAddress(ctx context.Context, up Update, address string) {
	w, ok := d.walletFor(ctx, up)
	if !ok {
		return
	}

	sess := d.sessions.Get(up.UserID)
	switch sess.State {
	case session.StateBuyToken:
		d.enterBuyAmount(ctx, up, address)
	case session.StateSellToken:
		d.enterSellAmount(ctx, up, w, address)
	default:
		if sess.Active() {
			d.sessions.Clear(up.UserID)
		}
		d.presentToken(ctx, up.ChatID, w, address, 0)
	}
}

// presentToken sends (or edits into place) the read-only token card
// with buy/sell buttons. It never touches the session.
func (d *Dispatcher) presentToken(ctx context.Context, chatID int64, w *wallet.Wallet, address string, editMessageID int) {
	info, err := d.engine.TokenInfo(ctx, address)
	if err != nil {
		d.replyErr(ctx, chatID, err)
		return
	}

	nativeBalance, err := d.balances.NativeBalance(ctx, w.Address)
	if err != nil {
		d.replyErr(ctx, chatID, err)
		return
	}
	tokenBalance, err := d.balances.TokenBalance(ctx, w.Address, address)
	if err != nil {
		d.replyErr(ctx, chatID, err)
		return
	}

	text := tokenCard(info, nativeBalance, tokenBalance, d.nativeSymbol, d.nativeDecimals)
	keyboard := tokenCardKeyboard(address)

	if editMessageID > 0 {
		if err := d.transport.EditMessage(ctx, chatID, editMessageID, text, keyboard); err != nil {
			d.log.Error("editing token card in chat %d: %v", chatID, err)
		}
		return
	}
	d.reply(ctx, chatID, text, keyboard)
}

// enterBuyAmount resolves the token and advances to the amount step. A
// lookup failure leaves the session where it was so the user can retry.
func (d *Dispatcher) enterBuyAmount(ctx context.Context, up Update, address string) {
	info, err := d.engine.TokenInfo(ctx, address)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	d.sessions.Set(up.UserID, session.Session{
		State:        session.StateBuyAmount,
		TokenAddress: address,
		Token:        info,
	})
	d.reply(ctx, up.ChatID, buyAmountText(info, d.nativeSymbol),
		buyAmountKeyboard(d.buyAmounts, d.nativeSymbol))
}

// enterSellAmount resolves the token and snapshots the holder's balance;
// percentage amounts are computed against the snapshot, not re-queried.
func (d *Dispatcher) enterSellAmount(ctx context.Context, up Update, w *wallet.Wallet, address string) {
	info, err := d.engine.TokenInfo(ctx, address)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	snapshot, err := d.balances.TokenBalance(ctx, w.Address, address)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}
	if snapshot.Sign() <= 0 {
		d.sessions.Clear(up.UserID)
		d.reply(ctx, up.ChatID, "You don't hold any "+info.Symbol+".", nil)
		return
	}

	d.sessions.Set(up.UserID, session.Session{
		State:        session.StateSellAmount,
		TokenAddress: address,
		Token:        info,
		TokenBalance: snapshot,
	})
	d.reply(ctx, up.ChatID, sellAmountText(info, snapshot), sellAmountKeyboard())
}

// handleImportPrivateKey consumes a key message. The message is deleted
// from the chat either way so the secret does not linger.
func (d *Dispatcher) handleImportPrivateKey(ctx context.Context, up Update, text string) {
	defer d.scrubMessage(ctx, up)

	w, err := wallet.ImportPrivateKey(d.owner(up.UserID), text)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	d.wallets.Put(w)
	if err := d.wallets.Persist(); err != nil {
		d.log.Error("persisting wallet store: %v", err)
	}
	d.sessions.Clear(up.UserID)
	d.reply(ctx, up.ChatID, walletReadyText(w), nil)
}

func (d *Dispatcher) handleImportMnemonic(ctx context.Context, up Update, text string) {
	defer d.scrubMessage(ctx, up)

	w, err := wallet.ImportMnemonic(d.owner(up.UserID), text)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	d.wallets.Put(w)
	if err := d.wallets.Persist(); err != nil {
		d.log.Error("persisting wallet store: %v", err)
	}
	d.sessions.Clear(up.UserID)
	d.reply(ctx, up.ChatID, walletReadyText(w), nil)
}

func (d *Dispatcher) scrubMessage(ctx context.Context, up Update) {
	if up.MessageID == 0 {
		return
	}
	if err := d.transport.DeleteMessage(ctx, up.ChatID, up.MessageID); err != nil {
		d.log.Debug("deleting secret message %d in chat %d: %v", up.MessageID, up.ChatID, err)
	}
}

// handleBuyCustomAmount validates a typed native amount against the
// current balance, checked freshly rather than from any snapshot.
func (d *Dispatcher) handleBuyCustomAmount(ctx context.Context, up Update, sess session.Session, text string) {
	wei, err := chain.ParsePositiveDecimalAmount(text, d.nativeDecimals)
	if err != nil {
		d.reply(ctx, up.ChatID, boterr.UserMessage(err)+" Try again, e.g. 0.5.", nil)
		return
	}

	w, ok := d.walletFor(ctx, up)
	if !ok {
		return
	}
	balance, err := d.balances.NativeBalance(ctx, w.Address)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}
	if wei.Cmp(balance) > 0 {
		d.reply(ctx, up.ChatID, boterr.UserMessage(boterr.ErrInsufficientBalance)+
			" You have "+chain.FormatDecimalAmount(balance, d.nativeDecimals)+" "+d.nativeSymbol+".", nil)
		return
	}

	sess.State = session.StateBuyAmount
	sess.PendingAmount = text
	d.sessions.Set(up.UserID, sess)
	prompt := withEstimate(confirmBuyText(sess.Token, text, d.nativeSymbol), d.estimateBuyOut(ctx, sess))
	d.reply(ctx, up.ChatID, prompt, confirmKeyboard(cbConfirmBuy))
}

// handleSellCustomAmount validates a typed token amount against the
// balance snapshot captured at flow entry.
func (d *Dispatcher) handleSellCustomAmount(ctx context.Context, up Update, sess session.Session, text string) {
	amount, err := chain.ParsePositiveDecimalAmount(text, int(sess.Token.Decimals))
	if err != nil {
		d.reply(ctx, up.ChatID, boterr.UserMessage(err)+" Try again, e.g. 100.", nil)
		return
	}
	if amount.Cmp(sess.TokenBalance) > 0 {
		d.reply(ctx, up.ChatID, boterr.UserMessage(boterr.ErrInsufficientBalance)+
			" You hold "+chain.FormatDecimalAmount(sess.TokenBalance, int(sess.Token.Decimals))+" "+sess.Token.Symbol+".", nil)
		return
	}

	sess.State = session.StateSellAmount
	sess.PendingAmount = text
	d.sessions.Set(up.UserID, sess)
	prompt := withEstimate(confirmSellText(sess.Token, text), d.estimateSellOut(ctx, sess))
	d.reply(ctx, up.ChatID, prompt, confirmKeyboard(cbConfirmSell))
}
