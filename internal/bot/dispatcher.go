// Package bot routes inbound chat events through the per-user
// conversation state machine and into the wallet and swap
// collaborators. No error ever crosses a user boundary: every failure
// degrades to a chat message.
package bot

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/config"
	"github.com/Barneybot002/monad-testbot/internal/session"
	"github.com/Barneybot002/monad-testbot/internal/swap"
	"github.com/Barneybot002/monad-testbot/internal/wallet"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// BalanceSource answers balance queries. Satisfied by chain.Client and
// mocked in tests.
type BalanceSource interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error)
}

// Dispatcher owns the event loop. Stores are injected, never ambient.
type Dispatcher struct {
	wallets   *wallet.Store
	sessions  *session.Store
	engine    swap.Engine
	balances  BalanceSource
	transport Transport
	log       *config.Logger

	nativeSymbol   string
	nativeDecimals int
	explorer       string
	buyAmounts     []string

	// confirming tracks users with a swap in flight so a double-tap on
	// Confirm cannot execute twice.
	mu         sync.Mutex
	confirming map[int64]bool
}

// New creates a dispatcher over the given collaborators.
func New(wallets *wallet.Store, sessions *session.Store, engine swap.Engine, balances BalanceSource, transport Transport, cfg *config.Config, log *config.Logger) *Dispatcher {
	if log == nil {
		log = config.NullLogger()
	}
	return &Dispatcher{
		wallets:        wallets,
		sessions:       sessions,
		engine:         engine,
		balances:       balances,
		transport:      transport,
		log:            log,
		nativeSymbol:   cfg.Network.NativeSymbol,
		nativeDecimals: cfg.Network.NativeDecimals,
		explorer:       cfg.Network.Explorer,
		buyAmounts:     cfg.Trading.FixedBuyAmounts,
		confirming:     make(map[int64]bool),
	}
}

// Run consumes the transport's update stream until ctx is canceled.
// Each update is handled on its own goroutine; distinct users never
// contend and a slow collaborator call blocks only its own flow.
func (d *Dispatcher) Run(ctx context.Context) error {
	updates, err := d.transport.Updates(ctx)
	if err != nil {
		return fmt.Errorf("opening update stream: %w", err)
	}

	var wg sync.WaitGroup
	for up := range updates {
		wg.Add(1)
		go func(up Update) {
			defer wg.Done()
			d.HandleUpdate(ctx, up)
		}(up)
	}
	wg.Wait()
	return ctx.Err()
}

// HandleUpdate processes one inbound event. It never returns an error;
// failures are rendered to the user and logged.
func (d *Dispatcher) HandleUpdate(ctx context.Context, up Update) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("panic handling update from user %d: %v", up.UserID, r)
		}
	}()

	switch {
	case up.IsCallback():
		d.handleCallback(ctx, up)
	case up.IsCommand():
		d.handleCommand(ctx, up)
	default:
		d.handleText(ctx, up)
	}
}

func (d *Dispatcher) owner(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// walletFor returns the sender's wallet, messaging the no-wallet
// precondition failure when absent.
func (d *Dispatcher) walletFor(ctx context.Context, up Update) (*wallet.Wallet, bool) {
	w, ok := d.wallets.Get(d.owner(up.UserID))
	if !ok {
		d.reply(ctx, up.ChatID, boterr.UserMessage(boterr.ErrNoWallet), nil)
		return nil, false
	}
	return w, true
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, keyboard Keyboard) {
	if _, err := d.transport.SendMessage(ctx, chatID, text, keyboard); err != nil {
		d.log.Error("sending message to chat %d: %v", chatID, err)
	}
}

func (d *Dispatcher) replyErr(ctx context.Context, chatID int64, err error) {
	d.reply(ctx, chatID, boterr.UserMessage(err), nil)
}

func (d *Dispatcher) handleCommand(ctx context.Context, up Update) {
	userID := up.UserID
	owner := d.owner(userID)
	d.log.Debug("command /%s from user %d (state=%s)", up.Command, userID, d.sessions.Get(userID).State)

	switch up.Command {
	case "start":
		_, hasWallet := d.wallets.Get(owner)
		d.reply(ctx, up.ChatID, welcomeText(d.nativeSymbol, hasWallet), nil)

	case "help":
		d.reply(ctx, up.ChatID, helpText(), nil)

	case "wallet":
		w, _ := d.wallets.Get(owner)
		d.sessions.Set(userID, session.Session{State: session.StateWalletMenu})
		d.reply(ctx, up.ChatID, walletMenuText(w), walletMenuKeyboard(w != nil))

	case "create":
		d.createWallet(ctx, up)

	case "mywallet":
		if w, ok := d.walletFor(ctx, up); ok {
			d.reply(ctx, up.ChatID, fmt.Sprintf("Your wallet address:\n%s", w.Address), nil)
		}

	case "balance":
		w, ok := d.walletFor(ctx, up)
		if !ok {
			return
		}
		balance, err := d.balances.NativeBalance(ctx, w.Address)
		if err != nil {
			d.replyErr(ctx, up.ChatID, err)
			return
		}
		d.reply(ctx, up.ChatID, fmt.Sprintf("Balance: %s %s",
			chain.FormatDecimalAmount(balance, d.nativeDecimals), d.nativeSymbol), nil)

	case "buy":
		d.startBuyFlow(ctx, up)

	case "sell":
		d.startSellFlow(ctx, up)

	default:
		text := fmt.Sprintf("Unknown command /%s.", up.Command)
		if s := suggestCommand(up.Command); s != "" {
			text = fmt.Sprintf("Unknown command /%s. Did you mean /%s?", up.Command, s)
		}
		d.reply(ctx, up.ChatID, text, nil)
	}
}

func (d *Dispatcher) createWallet(ctx context.Context, up Update) {
	owner := d.owner(up.UserID)

	w, err := wallet.Create(owner)
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

func (d *Dispatcher) stageWalletDelete(ctx context.Context, up Update) {
	if d.sessions.Get(up.UserID).State != session.StateWalletMenu {
		d.log.Debug("dropping stale wallet delete press from user %d", up.UserID)
		return
	}
	w, ok := d.wallets.Get(d.owner(up.UserID))
	if !ok {
		d.sessions.Clear(up.UserID)
		d.reply(ctx, up.ChatID, "You don't have a wallet to delete.", nil)
		return
	}
	d.reply(ctx, up.ChatID, confirmDeleteText(w), confirmKeyboard(cbConfirmWalletDelete))
}

func (d *Dispatcher) deleteWallet(ctx context.Context, up Update) {
	if d.sessions.Get(up.UserID).State != session.StateWalletMenu {
		d.log.Debug("dropping stale wallet delete confirmation from user %d", up.UserID)
		return
	}
	d.sessions.Clear(up.UserID)

	if !d.wallets.Delete(d.owner(up.UserID)) {
		d.reply(ctx, up.ChatID, "You don't have a wallet to delete.", nil)
		return
	}
	if err := d.wallets.Persist(); err != nil {
		d.log.Error("persisting wallet store: %v", err)
	}
	d.reply(ctx, up.ChatID, "Wallet deleted. Use /wallet when you want a new one.", nil)
}

// startBuyFlow checks the native balance before prompting for a token,
// so a user with nothing to spend does not walk a dead-end flow.
func (d *Dispatcher) startBuyFlow(ctx context.Context, up Update) {
	w, ok := d.walletFor(ctx, up)
	if !ok {
		return
	}

	balance, err := d.balances.NativeBalance(ctx, w.Address)
	if err != nil {
		d.replyErr(ctx, up.ChatID, err)
		return
	}
	if balance.Sign() <= 0 {
		d.reply(ctx, up.ChatID, fmt.Sprintf("You have no %s to spend. Fund your wallet first:\n%s",
			d.nativeSymbol, w.Address), nil)
		return
	}

	d.sessions.Set(up.UserID, session.Session{State: session.StateBuyToken})
	d.reply(ctx, up.ChatID, "Paste the address of the token you want to buy.",
		Keyboard{Row(cancelButton)})
}

// estimateBuyOut quotes the staged native amount into tokens,
// best-effort. An empty string means no estimate could be made; the
// confirmation does not depend on it.
func (d *Dispatcher) estimateBuyOut(ctx context.Context, sess session.Session) string {
	wei, err := chain.ParsePositiveDecimalAmount(sess.PendingAmount, d.nativeDecimals)
	if err != nil {
		return ""
	}
	out, err := d.engine.QuoteBuy(ctx, sess.TokenAddress, wei)
	if err != nil {
		d.log.Debug("buy quote for %s failed: %v", sess.TokenAddress, err)
		return ""
	}
	return chain.FormatDecimalAmount(out, int(sess.Token.Decimals)) + " " + sess.Token.Symbol
}

// estimateSellOut quotes the staged token amount into native currency,
// best-effort.
func (d *Dispatcher) estimateSellOut(ctx context.Context, sess session.Session) string {
	amount, err := chain.ParsePositiveDecimalAmount(sess.PendingAmount, int(sess.Token.Decimals))
	if err != nil {
		return ""
	}
	out, err := d.engine.QuoteSell(ctx, sess.TokenAddress, amount)
	if err != nil {
		d.log.Debug("sell quote for %s failed: %v", sess.TokenAddress, err)
		return ""
	}
	return chain.FormatDecimalAmount(out, d.nativeDecimals) + " " + d.nativeSymbol
}

func (d *Dispatcher) startSellFlow(ctx context.Context, up Update) {
	if _, ok := d.walletFor(ctx, up); !ok {
		return
	}
	d.sessions.Set(up.UserID, session.Session{State: session.StateSellToken})
	d.reply(ctx, up.ChatID, "Paste the address of the token you want to sell.",
		Keyboard{Row(cancelButton)})
}
