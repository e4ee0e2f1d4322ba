package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

var (
	// whitespaceRegex matches one or more whitespace characters.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numberedListRegex matches numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bulletListRegex matches bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a new BIP39 mnemonic phrase.
// wordCount must be 12 (128 bits entropy) or 24 (256 bits entropy).
func GenerateMnemonic(wordCount int) (string, error) {
	var bitSize int
	switch wordCount {
	case 12:
		bitSize = 128
	case 24:
		bitSize = 256
	default:
		return "", boterr.New("INVALID_WORD_COUNT", "word count must be 12 or 24")
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks a phrase against BIP39: word count, word
// validity, and checksum. When words are misspelled, the returned error
// carries did-you-mean suggestions built from the BIP39 word list.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return boterr.ErrInvalidMnemonic
	}

	normalized := NormalizeMnemonicInput(mnemonic)

	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return boterr.WithSuggestion(boterr.ErrInvalidMnemonic,
			"a recovery phrase has 12 or 24 words, got "+strconv.Itoa(len(words)))
	}

	if !bip39.IsMnemonicValid(normalized) {
		if hints := FormatTypoSuggestions(DetectTypos(normalized)); hints != "" {
			return boterr.WithSuggestion(boterr.ErrInvalidMnemonic, hints)
		}
		return boterr.ErrInvalidMnemonic
	}

	return nil
}

// NormalizeMnemonicInput cleans pasted mnemonic text: lowercases,
// strips numbered-list and bullet prefixes, converts commas to spaces,
// and collapses whitespace.
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// MnemonicToSeed converts a validated phrase to a 64-byte seed. The
// caller should zero the seed after use.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	normalized := NormalizeMnemonicInput(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(normalized, passphrase)
	if err != nil {
		return nil, boterr.ErrInvalidMnemonic
	}
	return seed, nil
}

// IsValidWord checks if a word is in the BIP39 English word list.
func IsValidWord(word string) bool {
	_, ok := bip39.GetWordIndex(strings.ToLower(word))
	return ok
}

// MaxTypoDistance is the maximum Levenshtein distance to consider a
// suggestion; anything further is too different to be a typo.
const MaxTypoDistance = 2

// TypoInfo describes a misspelled mnemonic word and its closest match.
type TypoInfo struct {
	// Index is the word position in the phrase (0-based).
	Index int
	// Word is the original (possibly misspelled) word.
	Word string
	// Suggestion is the closest BIP39 word, or empty if none is close.
	Suggestion string
	// Distance is the Levenshtein distance to the suggestion.
	Distance int
}

// SuggestWord finds the closest BIP39 word to the input.
// Returns empty string if nothing is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
		if dist == 0 {
			return word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a phrase for words outside the BIP39 list and
// suggests corrections.
func DetectTypos(mnemonic string) []TypoInfo {
	if mnemonic == "" {
		return nil
	}

	words := strings.Fields(NormalizeMnemonicInput(mnemonic))
	var typos []TypoInfo

	for i, word := range words {
		if IsValidWord(word) {
			continue
		}
		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}

	return typos
}

// FormatTypoSuggestions renders typo info as chat-ready text.
func FormatTypoSuggestions(typos []TypoInfo) string {
	if len(typos) == 0 {
		return ""
	}

	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		// Word position is 1-indexed for humans.
		b.WriteString("word ")
		b.WriteString(strconv.Itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a BIP39 word")
		}
	}
	return b.String()
}
