// Package session tracks per-user conversational state. Each user has
// at most one session; starting a new flow replaces whatever the user
// was doing before.
package session

import (
	"math/big"
	"sync"
	"time"

	"github.com/Barneybot002/monad-testbot/internal/swap"
)

// State identifies what input the bot expects from a user next.
type State int

const (
	// StateNone means no flow is active; only commands are meaningful.
	StateNone State = iota

	// StateWalletMenu shows the create/import choices.
	StateWalletMenu

	// StateImportPrivateKey awaits a raw private key message.
	StateImportPrivateKey

	// StateImportMnemonic awaits a mnemonic phrase message.
	StateImportMnemonic

	// StateBuyToken awaits a token address to buy.
	StateBuyToken

	// StateBuyAmount awaits an amount choice from the buy keyboard.
	StateBuyAmount

	// StateBuyCustomAmount awaits a typed native amount.
	StateBuyCustomAmount

	// StateSellToken awaits a token address to sell.
	StateSellToken

	// StateSellAmount awaits a percentage choice from the sell keyboard.
	StateSellAmount

	// StateSellCustomAmount awaits a typed token amount.
	StateSellCustomAmount
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateWalletMenu:
		return "wallet_menu"
	case StateImportPrivateKey:
		return "import_private_key"
	case StateImportMnemonic:
		return "import_mnemonic"
	case StateBuyToken:
		return "buy_token"
	case StateBuyAmount:
		return "buy_amount"
	case StateBuyCustomAmount:
		return "buy_custom_amount"
	case StateSellToken:
		return "sell_token"
	case StateSellAmount:
		return "sell_amount"
	case StateSellCustomAmount:
		return "sell_custom_amount"
	default:
		return "unknown"
	}
}

// Session holds the data a flow accumulates between messages.
type Session struct {
	State State

	// Token under trade, set once the token step resolves.
	TokenAddress string
	Token        *swap.TokenInfo

	// TokenBalance is the snapshot taken when the sell flow resolved
	// the token; percentage amounts are computed against it.
	TokenBalance *big.Int

	// PendingAmount carries the chosen amount between the amount step
	// and execution, as the user entered or selected it.
	PendingAmount string

	UpdatedAt time.Time
}

// Active reports whether a flow is in progress.
func (s Session) Active() bool {
	return s.State != StateNone
}

// Store is an in-memory session store keyed by user ID. Sessions are
// held and returned by value so callers never share mutable state.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns the user's session, or an idle zero session if none.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Set stores the user's session, stamping the update time.
func (s *Store) Set(userID int64, sess Session) {
	sess.UpdatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear removes the user's session, returning them to idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
