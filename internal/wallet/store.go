package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Barneybot002/monad-testbot/internal/botcrypto"
	"github.com/Barneybot002/monad-testbot/internal/config"
	"github.com/Barneybot002/monad-testbot/internal/fileutil"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

const (
	// storeFilePermissions is the permission mode for the store file.
	storeFilePermissions = 0o600

	// storeDirPermissions is the permission mode for the store directory.
	storeDirPermissions = 0o750
)

// Store is the process-wide mapping from user identity to wallet
// credentials. The in-memory copy is authoritative for the process
// lifetime; Persist flushes it to an age-encrypted file best-effort.
type Store struct {
	mu         sync.RWMutex
	wallets    map[string]*Wallet
	path       string
	passphrase *botcrypto.SecureBytes
	log        *config.Logger
}

// NewStore creates a store backed by the given file. The passphrase is
// held in an mlocked buffer for the store's lifetime; Close releases
// it. Call Load before serving traffic to pick up previously persisted
// wallets.
func NewStore(path, passphrase string, log *config.Logger) *Store {
	if log == nil {
		log = config.NullLogger()
	}
	return &Store{
		wallets:    make(map[string]*Wallet),
		path:       path,
		passphrase: botcrypto.NewSecureBytes([]byte(passphrase)),
		log:        log,
	}
}

// Close zeros the held passphrase. The store refuses Load and Persist
// afterwards.
func (s *Store) Close() {
	s.passphrase.Destroy()
}

// Load reads the persisted store file. A missing file is a valid empty
// store; a present but undecryptable file is an error, since silently
// starting empty would orphan user funds.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ciphertext, err := os.ReadFile(s.path) // #nosec G304 -- path from validated config
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return boterr.Wrap(err, "reading wallet store")
	}

	if s.passphrase.Len() == 0 {
		return boterr.New("STORE_CLOSED", "wallet store is closed")
	}
	plaintext, err := botcrypto.Decrypt(ciphertext, string(s.passphrase.Bytes()))
	if err != nil {
		return boterr.WrapAs(boterr.ErrStoreCorrupted, err, "decrypting wallet store")
	}
	defer botcrypto.ZeroBytes(plaintext)

	wallets := make(map[string]*Wallet)
	if err := json.Unmarshal(plaintext, &wallets); err != nil {
		return boterr.WrapAs(boterr.ErrStoreCorrupted, err, "parsing wallet store")
	}

	s.wallets = wallets
	s.log.Info("wallet store loaded: %d wallet(s)", len(wallets))
	return nil
}

// Get returns the wallet for owner, if any.
func (s *Store) Get(owner string) (*Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[owner]
	return w, ok
}

// Put stores a wallet, overwriting any existing wallet for the owner.
func (s *Store) Put(w *Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.Owner] = w
}

// Delete removes the wallet for owner. Returns whether one existed.
func (s *Store) Delete(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wallets[owner]
	delete(s.wallets, owner)
	return ok
}

// Count returns the number of stored wallets.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wallets)
}

// Persist flushes the store to disk. Failures are logged and returned,
// but callers treat them as best-effort: the in-memory copy remains
// authoritative for the process lifetime.
func (s *Store) Persist() error {
	s.mu.RLock()
	data, err := json.Marshal(s.wallets)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("marshaling wallet store: %v", err)
		return err
	}
	defer botcrypto.ZeroBytes(data)

	if s.passphrase.Len() == 0 {
		err := boterr.New("STORE_CLOSED", "wallet store is closed")
		s.log.Error("encrypting wallet store: %v", err)
		return err
	}
	ciphertext, err := botcrypto.Encrypt(data, string(s.passphrase.Bytes()))
	if err != nil {
		s.log.Error("encrypting wallet store: %v", err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirPermissions); err != nil {
		s.log.Error("creating wallet store directory: %v", err)
		return err
	}

	if err := fileutil.WriteAtomic(s.path, ciphertext, storeFilePermissions); err != nil {
		s.log.Error("writing wallet store: %v", err)
		return err
	}

	return nil
}
