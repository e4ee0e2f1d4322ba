// Package wallet provides per-user wallet management: key generation,
// private key and BIP39 mnemonic import, and the persistent owner-keyed
// store backing the bot.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"

	"github.com/Barneybot002/monad-testbot/internal/botcrypto"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// DerivationPath is the BIP44 path used for mnemonic wallets,
// m/44'/60'/0'/0/0, matching what common EVM wallets derive by default.
const DerivationPath = "m/44'/60'/0'/0/0"

// Wallet identifies one user's credential on the Monad testnet.
type Wallet struct {
	// Owner is the opaque user identity the wallet belongs to.
	Owner string `json:"owner"`

	// Address is the 0x-prefixed checksummed account address.
	Address string `json:"address"`

	// PrivateKey is the hex-encoded signing key, without 0x prefix.
	PrivateKey string `json:"private_key"`

	// Mnemonic is the recovery phrase, present only when the wallet was
	// generated or imported via mnemonic.
	Mnemonic string `json:"mnemonic,omitempty"`

	// CreatedAt is the wallet creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Key parses the wallet's private key into an ECDSA key.
func (w *Wallet) Key() (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(w.PrivateKey)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrInvalidPrivateKey, err, "parsing stored key")
	}
	return key, nil
}

// Create generates a wallet for owner from a fresh 12-word mnemonic.
func Create(owner string) (*Wallet, error) {
	mnemonic, err := GenerateMnemonic(12)
	if err != nil {
		return nil, boterr.Wrap(err, "generating mnemonic")
	}

	w, err := ImportMnemonic(owner, mnemonic)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ImportPrivateKey builds a wallet from a hex private key. A 0x prefix
// and surrounding whitespace are tolerated.
func ImportPrivateKey(owner, keyHex string) (*Wallet, error) {
	keyHex = strings.TrimSpace(keyHex)
	keyHex = strings.TrimPrefix(keyHex, "0x")

	raw, err := hex.DecodeString(keyHex)
	if err != nil || len(raw) != 32 {
		return nil, boterr.ErrInvalidPrivateKey
	}
	defer botcrypto.ZeroBytes(raw)

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, boterr.ErrInvalidPrivateKey
	}

	return &Wallet{
		Owner:      owner,
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: keyHex,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ImportMnemonic builds a wallet from a BIP39 phrase, deriving the key
// along m/44'/60'/0'/0/0. The input is normalized first, so pasted
// numbered lists and mixed case are accepted.
func ImportMnemonic(owner, mnemonic string) (*Wallet, error) {
	normalized := NormalizeMnemonicInput(mnemonic)
	if err := ValidateMnemonic(normalized); err != nil {
		return nil, err
	}

	seed, err := MnemonicToSeed(normalized, "")
	if err != nil {
		return nil, err
	}
	defer botcrypto.ZeroBytes(seed)

	keyBytes, err := deriveKey(seed)
	if err != nil {
		return nil, boterr.Wrap(err, "deriving key")
	}
	defer botcrypto.ZeroBytes(keyBytes)

	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrInvalidMnemonic, err, "derived key rejected")
	}

	return &Wallet{
		Owner:      owner,
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(keyBytes),
		Mnemonic:   normalized,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// deriveKey walks m/44'/60'/0'/0/0 from the seed.
func deriveKey(seed []byte) ([]byte, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild,
		0,
		0,
	}

	key := master
	for _, index := range path {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, 32)
	copy(out, key.Key)
	return out, nil
}
