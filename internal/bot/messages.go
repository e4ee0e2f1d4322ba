package bot

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/swap"
	"github.com/Barneybot002/monad-testbot/internal/wallet"
)

// Callback data tokens. Parametrized tokens carry the target after the
// colon, e.g. "buy:0x...".
const (
	cbCancel               = "cancel"
	cbWalletCreate         = "wallet_create"
	cbWalletImportKey      = "wallet_import_key"
	cbWalletImportMnemonic = "wallet_import_mnemonic"
	cbWalletDelete         = "wallet_delete"
	cbConfirmWalletDelete  = "confirm_wallet_delete"
	cbConfirmBuy           = "confirm_buy"
	cbConfirmSell          = "confirm_sell"

	cbBuyPrefix     = "buy:"
	cbSellPrefix    = "sell:"
	cbRefreshPrefix = "refresh:"
	cbBuyAmtPrefix  = "buyamt:"
	cbSellPctPrefix = "sellpct:"

	amtCustom = "custom"
)

var cancelButton = Button{Label: "Cancel", Data: cbCancel}

func welcomeText(symbol string, hasWallet bool) string {
	var b strings.Builder
	b.WriteString("Welcome to the Monad testnet trading bot.\n\n")
	if hasWallet {
		b.WriteString("Your wallet is ready. Paste a token address to trade, or use /buy and /sell.\n")
	} else {
		fmt.Fprintf(&b, "You trade %s for any ERC-20 token straight from chat.\n", symbol)
		b.WriteString("Start with /wallet to create or import a wallet.\n")
	}
	b.WriteString("\nSee /help for all commands.")
	return b.String()
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"/start - welcome and status",
		"/wallet - create or import a wallet",
		"/create - create a fresh wallet right away",
		"/mywallet - show your wallet address",
		"/balance - show your native balance",
		"/buy - buy a token",
		"/sell - sell a token",
		"",
		"You can also paste a token address at any time to see it with buy/sell buttons.",
	}, "\n")
}

func walletMenuKeyboard(hasWallet bool) Keyboard {
	kb := Keyboard{
		Row(Button{Label: "Create new wallet", Data: cbWalletCreate}),
		Row(Button{Label: "Import private key", Data: cbWalletImportKey}),
		Row(Button{Label: "Import mnemonic", Data: cbWalletImportMnemonic}),
	}
	if hasWallet {
		kb = append(kb, Row(Button{Label: "Delete wallet", Data: cbWalletDelete}))
	}
	return append(kb, Row(cancelButton))
}

func walletMenuText(w *wallet.Wallet) string {
	if w == nil {
		return "No wallet yet. Create a new one or import an existing one:"
	}
	return fmt.Sprintf("Current wallet:\n%s\n\nCreating or importing replaces it. Keep the old key if you still need it.", w.Address)
}

func confirmDeleteText(w *wallet.Wallet) string {
	return fmt.Sprintf("Delete wallet %s?\nThis removes the key from this bot only. Funds on chain are untouched, but without the key they are unreachable.", w.Address)
}

func walletReadyText(w *wallet.Wallet) string {
	var b strings.Builder
	b.WriteString("Wallet ready.\n\n")
	fmt.Fprintf(&b, "Address:\n%s\n", w.Address)
	if w.Mnemonic != "" {
		fmt.Fprintf(&b, "\nRecovery phrase:\n%s\n\nWrite it down and delete this message.", w.Mnemonic)
	}
	return b.String()
}

// tokenCard renders the read-only token presentation shown for an
// ad-hoc address lookup.
func tokenCard(info *swap.TokenInfo, nativeBalance, tokenBalance *big.Int, nativeSymbol string, nativeDecimals int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n%s\n\n", info.Name, info.Symbol, info.Address)
	fmt.Fprintf(&b, "Your %s balance: %s\n", nativeSymbol, chain.FormatDecimalAmount(nativeBalance, nativeDecimals))
	fmt.Fprintf(&b, "Your %s balance: %s\n", info.Symbol, chain.FormatDecimalAmount(tokenBalance, int(info.Decimals)))
	return b.String()
}

func tokenCardKeyboard(tokenAddress string) Keyboard {
	return Keyboard{
		Row(
			Button{Label: "Buy", Data: cbBuyPrefix + tokenAddress},
			Button{Label: "Sell", Data: cbSellPrefix + tokenAddress},
		),
		Row(
			Button{Label: "Refresh", Data: cbRefreshPrefix + tokenAddress},
			cancelButton,
		),
	}
}

func buyAmountText(info *swap.TokenInfo, nativeSymbol string) string {
	return fmt.Sprintf("Buying %s (%s).\nHow much %s do you want to spend?", info.Name, info.Symbol, nativeSymbol)
}

func buyAmountKeyboard(amounts []string, nativeSymbol string) Keyboard {
	row := make([]Button, 0, len(amounts))
	for _, a := range amounts {
		row = append(row, Button{
			Label: fmt.Sprintf("%s %s", a, nativeSymbol),
			Data:  cbBuyAmtPrefix + a,
		})
	}
	kb := Keyboard{}
	// Two amounts per row keeps labels readable on small screens.
	for len(row) > 2 {
		kb = append(kb, row[:2])
		row = row[2:]
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, Row(
		Button{Label: "Custom", Data: cbBuyAmtPrefix + amtCustom},
		cancelButton,
	))
	return kb
}

func sellAmountText(info *swap.TokenInfo, snapshot *big.Int) string {
	return fmt.Sprintf("Selling %s (%s).\nYou hold %s %s. How much do you want to sell?",
		info.Name, info.Symbol,
		chain.FormatDecimalAmount(snapshot, int(info.Decimals)), info.Symbol)
}

func sellAmountKeyboard() Keyboard {
	return Keyboard{
		Row(
			Button{Label: "25%", Data: cbSellPctPrefix + "25"},
			Button{Label: "50%", Data: cbSellPctPrefix + "50"},
		),
		Row(
			Button{Label: "75%", Data: cbSellPctPrefix + "75"},
			Button{Label: "100%", Data: cbSellPctPrefix + "100"},
		),
		Row(
			Button{Label: "Custom", Data: cbSellPctPrefix + amtCustom},
			cancelButton,
		),
	}
}

func confirmBuyText(info *swap.TokenInfo, amount, nativeSymbol string) string {
	return fmt.Sprintf("Buy %s (%s) for %s %s?", info.Name, info.Symbol, amount, nativeSymbol)
}

func confirmSellText(info *swap.TokenInfo, amount string) string {
	return fmt.Sprintf("Sell %s %s (%s)?", amount, info.Symbol, info.Name)
}

// withEstimate appends a best-effort quote line to a confirmation
// prompt; an empty estimate leaves the prompt untouched.
func withEstimate(text, estimate string) string {
	if estimate == "" {
		return text
	}
	return text + "\nYou'll receive about " + estimate + "."
}

func confirmKeyboard(confirmData string) Keyboard {
	return Keyboard{
		Row(
			Button{Label: "Confirm", Data: confirmData},
			cancelButton,
		),
	}
}

func swapSentText(verb string, receipt *swap.Receipt, explorer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s transaction sent.\n\n%s", verb, receipt.TxHash)
	if explorer != "" {
		fmt.Fprintf(&b, "\n%s/tx/%s", strings.TrimRight(explorer, "/"), receipt.TxHash)
	}
	return b.String()
}

func positionText(info *swap.TokenInfo, balance *big.Int) string {
	return fmt.Sprintf("Position update: you now hold %s %s.",
		chain.FormatDecimalAmount(balance, int(info.Decimals)), info.Symbol)
}

// suggestCommand finds the closest known command for a typo, empty if
// nothing is close enough.
func suggestCommand(input string) string {
	known := []string{"start", "help", "wallet", "create", "mywallet", "balance", "buy", "sell"}
	best := ""
	bestDist := 3
	for _, cmd := range known {
		if d := levenshtein.ComputeDistance(strings.ToLower(input), cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}
