package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/session"
)

func (d *Dispatcher) handleCallback(ctx context.Context, up Update) {
	if up.CallbackID != "" {
		if err := d.transport.AnswerCallback(ctx, up.CallbackID); err != nil {
			d.log.Debug("answering callback %s: %v", up.CallbackID, err)
		}
	}

	data := up.Callback
	d.log.Debug("callback %q from user %d (state=%s)", data, up.UserID, d.sessions.Get(up.UserID).State)

	switch {
	case data == cbCancel:
		// Immediate and unconditional; a no-op when nothing is active.
		d.sessions.Clear(up.UserID)
		d.reply(ctx, up.ChatID, "Cancelled.", nil)

	case data == cbWalletCreate:
		d.createWallet(ctx, up)

	case data == cbWalletImportKey:
		d.sessions.Set(up.UserID, session.Session{State: session.StateImportPrivateKey})
		d.reply(ctx, up.ChatID, "Send your private key. The message will be deleted right after.", nil)

	case data == cbWalletImportMnemonic:
		d.sessions.Set(up.UserID, session.Session{State: session.StateImportMnemonic})
		d.reply(ctx, up.ChatID, "Send your 12 or 24 word recovery phrase. The message will be deleted right after.", nil)

	case data == cbWalletDelete:
		d.stageWalletDelete(ctx, up)

	case data == cbConfirmWalletDelete:
		d.deleteWallet(ctx, up)

	case strings.HasPrefix(data, cbBuyPrefix):
		if _, ok := d.walletFor(ctx, up); ok {
			d.enterBuyAmount(ctx, up, strings.TrimPrefix(data, cbBuyPrefix))
		}

	case strings.HasPrefix(data, cbSellPrefix):
		if w, ok := d.walletFor(ctx, up); ok {
			d.enterSellAmount(ctx, up, w, strings.TrimPrefix(data, cbSellPrefix))
		}

	case strings.HasPrefix(data, cbRefreshPrefix):
		if w, ok := d.walletFor(ctx, up); ok {
			d.presentToken(ctx, up.ChatID, w, strings.TrimPrefix(data, cbRefreshPrefix), up.MessageID)
		}

	case strings.HasPrefix(data, cbBuyAmtPrefix):
		d.handleBuyAmountChoice(ctx, up, strings.TrimPrefix(data, cbBuyAmtPrefix))

	case strings.HasPrefix(data, cbSellPctPrefix):
		d.handleSellAmountChoice(ctx, up, strings.TrimPrefix(data, cbSellPctPrefix))

	case data == cbConfirmBuy:
		d.confirmBuy(ctx, up)

	case data == cbConfirmSell:
		d.confirmSell(ctx, up)

	default:
		d.log.Debug("dropping unknown callback %q from user %d", data, up.UserID)
	}
}

// handleBuyAmountChoice stages a fixed amount or branches to custom
// input. A press arriving outside BUY_AMOUNT is a stale button from an
// earlier flow and is dropped without a user-visible error.
func (d *Dispatcher) handleBuyAmountChoice(ctx context.Context, up Update, choice string) {
	sess := d.sessions.Get(up.UserID)
	if sess.State != session.StateBuyAmount {
		d.log.Debug("dropping stale buy amount press from user %d (state=%s)", up.UserID, sess.State)
		return
	}

	if choice == amtCustom {
		sess.State = session.StateBuyCustomAmount
		d.sessions.Set(up.UserID, sess)
		d.reply(ctx, up.ChatID, "Type the amount of "+d.nativeSymbol+" to spend.", Keyboard{Row(cancelButton)})
		return
	}

	// Fixed choices go straight to confirmation; the state stays
	// BUY_AMOUNT, doubling as awaiting-confirmation.
	sess.PendingAmount = choice
	d.sessions.Set(up.UserID, sess)
	text := withEstimate(confirmBuyText(sess.Token, choice, d.nativeSymbol), d.estimateBuyOut(ctx, sess))
	d.reply(ctx, up.ChatID, text, confirmKeyboard(cbConfirmBuy))
}

func (d *Dispatcher) handleSellAmountChoice(ctx context.Context, up Update, choice string) {
	sess := d.sessions.Get(up.UserID)
	if sess.State != session.StateSellAmount {
		d.log.Debug("dropping stale sell amount press from user %d (state=%s)", up.UserID, sess.State)
		return
	}

	if choice == amtCustom {
		sess.State = session.StateSellCustomAmount
		d.sessions.Set(up.UserID, sess)
		d.reply(ctx, up.ChatID, "Type the amount of "+sess.Token.Symbol+" to sell.", Keyboard{Row(cancelButton)})
		return
	}

	pct, err := strconv.Atoi(choice)
	if err != nil || pct <= 0 || pct > 100 {
		d.log.Debug("dropping malformed sell percentage %q from user %d", choice, up.UserID)
		return
	}

	amount := chain.PercentOf(sess.TokenBalance, int(sess.Token.Decimals), pct)
	// A dust balance can truncate to zero; never stage a sell of nothing.
	if _, err := chain.ParsePositiveDecimalAmount(amount, int(sess.Token.Decimals)); err != nil {
		d.reply(ctx, up.ChatID, fmt.Sprintf("%d%% of your %s balance is too small to sell.", pct, sess.Token.Symbol), nil)
		return
	}
	sess.PendingAmount = amount
	d.sessions.Set(up.UserID, sess)
	text := withEstimate(confirmSellText(sess.Token, amount), d.estimateSellOut(ctx, sess))
	d.reply(ctx, up.ChatID, text, confirmKeyboard(cbConfirmSell))
}

// beginConfirm claims the user's single confirmation slot. A second
// press while a swap is executing returns false and is dropped.
func (d *Dispatcher) beginConfirm(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.confirming[userID] {
		return false
	}
	d.confirming[userID] = true
	return true
}

func (d *Dispatcher) endConfirm(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.confirming, userID)
}

// confirmBuy executes exactly one swap using the staged amount. The
// session is cleared whether the engine succeeds or fails; a failed
// swap requires restarting the flow, never a blind retry.
func (d *Dispatcher) confirmBuy(ctx context.Context, up Update) {
	sess := d.sessions.Get(up.UserID)
	if sess.State != session.StateBuyAmount || sess.PendingAmount == "" {
		d.log.Debug("dropping stale buy confirmation from user %d (state=%s)", up.UserID, sess.State)
		return
	}
	if !d.beginConfirm(up.UserID) {
		d.log.Debug("dropping duplicate buy confirmation from user %d", up.UserID)
		return
	}
	defer d.endConfirm(up.UserID)

	w, ok := d.walletFor(ctx, up)
	if !ok {
		d.sessions.Clear(up.UserID)
		return
	}

	wei, err := chain.ParsePositiveDecimalAmount(sess.PendingAmount, d.nativeDecimals)
	if err != nil {
		d.sessions.Clear(up.UserID)
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	receipt, err := d.engine.ExecuteBuy(ctx, w.PrivateKey, sess.TokenAddress, wei)
	d.sessions.Clear(up.UserID)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	d.reply(ctx, up.ChatID, swapSentText("Buy", receipt, d.explorer), nil)
	d.sendPositionUpdate(ctx, up.ChatID, w.Address, sess)
}

// sendPositionUpdate is the sequenced follow-up after a buy: fetch the
// new token balance and report the position as a second step of the
// same handler, not a detached timer.
func (d *Dispatcher) sendPositionUpdate(ctx context.Context, chatID int64, address string, sess session.Session) {
	balance, err := d.balances.TokenBalance(ctx, address, sess.TokenAddress)
	if err != nil {
		d.log.Debug("position follow-up for %s failed: %v", sess.TokenAddress, err)
		return
	}
	d.reply(ctx, chatID, positionText(sess.Token, balance), nil)
}

func (d *Dispatcher) confirmSell(ctx context.Context, up Update) {
	sess := d.sessions.Get(up.UserID)
	if sess.State != session.StateSellAmount || sess.PendingAmount == "" {
		d.log.Debug("dropping stale sell confirmation from user %d (state=%s)", up.UserID, sess.State)
		return
	}
	if !d.beginConfirm(up.UserID) {
		d.log.Debug("dropping duplicate sell confirmation from user %d", up.UserID)
		return
	}
	defer d.endConfirm(up.UserID)

	w, ok := d.walletFor(ctx, up)
	if !ok {
		d.sessions.Clear(up.UserID)
		return
	}

	amount, err := chain.ParsePositiveDecimalAmount(sess.PendingAmount, int(sess.Token.Decimals))
	if err != nil {
		d.sessions.Clear(up.UserID)
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	receipt, err := d.engine.ExecuteSell(ctx, w.PrivateKey, sess.TokenAddress, amount)
	d.sessions.Clear(up.UserID)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}

	d.reply(ctx, up.ChatID, swapSentText("Sell", receipt, d.explorer), nil)
}
