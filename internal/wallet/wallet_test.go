package wallet_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/wallet"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func TestCreate(t *testing.T) {
	t.Parallel()

	w, err := wallet.Create("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", w.Owner)
	assert.Regexp(t, addressRegex, w.Address)
	assert.Len(t, w.PrivateKey, 64)
	assert.NotEmpty(t, w.Mnemonic)
	assert.False(t, w.CreatedAt.IsZero())

	// The stored key must parse back.
	key, err := w.Key()
	require.NoError(t, err)
	assert.NotNil(t, key)
}

func TestImportPrivateKey(t *testing.T) {
	t.Parallel()

	// Well-known test vector: hardhat account #0.
	const keyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	const wantAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	tests := []struct {
		name  string
		input string
	}{
		{"bare hex", keyHex},
		{"0x prefix", "0x" + keyHex},
		{"surrounding whitespace", "  " + keyHex + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := wallet.ImportPrivateKey("user-1", tt.input)
			require.NoError(t, err)
			assert.Equal(t, wantAddr, w.Address)
			assert.Equal(t, keyHex, w.PrivateKey)
			assert.Empty(t, w.Mnemonic)
		})
	}
}

func TestImportPrivateKey_Invalid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"zzzz",
		"0x1234",                               // too short
		"ac0974bec39a17e36ba4a6b4d238ff944bac", // truncated
	}

	for _, input := range inputs {
		_, err := wallet.ImportPrivateKey("user-1", input)
		assert.ErrorIs(t, err, boterr.ErrInvalidPrivateKey, "input %q", input)
	}
}

func TestImportMnemonic(t *testing.T) {
	t.Parallel()

	// Standard BIP39 test phrase; m/44'/60'/0'/0/0 gives a fixed address.
	const phrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	const wantAddr = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

	w, err := wallet.ImportMnemonic("user-1", phrase)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, w.Address)
	assert.Equal(t, phrase, w.Mnemonic)
}

func TestImportMnemonic_NormalizesInput(t *testing.T) {
	t.Parallel()

	const messy = "1. Abandon 2. abandon 3. abandon 4. abandon 5. abandon 6. abandon 7. abandon 8. abandon 9. abandon 10. abandon 11. abandon 12. about"

	w, err := wallet.ImportMnemonic("user-1", messy)
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", w.Address)
}

func TestImportMnemonic_Invalid(t *testing.T) {
	t.Parallel()

	_, err := wallet.ImportMnemonic("user-1", "not a real phrase at all")
	assert.ErrorIs(t, err, boterr.ErrInvalidMnemonic)
}

func TestCreateThenReimportMnemonic_SameAddress(t *testing.T) {
	t.Parallel()

	created, err := wallet.Create("user-1")
	require.NoError(t, err)

	reimported, err := wallet.ImportMnemonic("user-2", created.Mnemonic)
	require.NoError(t, err)
	assert.Equal(t, created.Address, reimported.Address)
	assert.Equal(t, created.PrivateKey, reimported.PrivateKey)
}
