package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMaxSequenceLength matches the window the pretrained
	// bert-base checkpoints were tuned for.
	DefaultMaxSequenceLength = 128

	// Words longer than this are mapped straight to [UNK] instead of
	// being decomposed, the same cutoff the reference BertTokenizer uses.
	maxWordChars = 100
)

// Encoding is one tokenized sequence padded to the tokenizer's max
// sequence length. Field names follow the convention training scripts
// expect, so an Encoding can be written out as a dataset row as is.
type Encoding struct {
	InputIDs      []int64 `json:"input_ids"`
	AttentionMask []int64 `json:"attention_mask"`
	TokenTypeIDs  []int64 `json:"token_type_ids"`
}

// WordPiece is a BERT style WordPiece tokenizer. It lowercases, strips
// accents, spaces out CJK ideographs, splits on punctuation and then
// greedily matches the longest known subword. Safe for concurrent use.
type WordPiece struct {
	vocab  *Vocab
	maxLen int
}

// NewWordPiece wraps a vocabulary. maxSeqLen caps every encoding
// including the [CLS] and [SEP] markers; values too small to frame a
// sentence pair fall back to DefaultMaxSequenceLength.
func NewWordPiece(v *Vocab, maxSeqLen int) *WordPiece {
	if maxSeqLen < 3 {
		maxSeqLen = DefaultMaxSequenceLength
	}
	return &WordPiece{vocab: v, maxLen: maxSeqLen}
}

// Encode tokenizes a single sentence into [CLS] tokens [SEP], truncated
// and padded to the max sequence length.
func (t *WordPiece) Encode(text string) Encoding {
	tokens := t.Tokens(text)
	if max := t.maxLen - 2; len(tokens) > max {
		tokens = tokens[:max]
	}

	enc := t.newEncoding()
	enc.InputIDs[0] = t.vocab.clsID
	enc.AttentionMask[0] = 1
	for i, tok := range tokens {
		enc.InputIDs[i+1] = t.vocab.ID(tok)
		enc.AttentionMask[i+1] = 1
	}
	enc.InputIDs[len(tokens)+1] = t.vocab.sepID
	enc.AttentionMask[len(tokens)+1] = 1
	return enc
}

// EncodePair tokenizes a sentence pair into [CLS] a [SEP] b [SEP] with
// token type IDs marking the second segment. When the pair does not fit
// the max sequence length, tokens are dropped from the longer side first.
func (t *WordPiece) EncodePair(a, b string) Encoding {
	ta := t.Tokens(a)
	tb := t.Tokens(b)
	maxTokens := t.maxLen - 3
	for len(ta)+len(tb) > maxTokens {
		if len(ta) >= len(tb) {
			ta = ta[:len(ta)-1]
		} else {
			tb = tb[:len(tb)-1]
		}
	}

	enc := t.newEncoding()
	pos := 0
	put := func(id, typeID int64) {
		enc.InputIDs[pos] = id
		enc.AttentionMask[pos] = 1
		enc.TokenTypeIDs[pos] = typeID
		pos++
	}
	put(t.vocab.clsID, 0)
	for _, tok := range ta {
		put(t.vocab.ID(tok), 0)
	}
	put(t.vocab.sepID, 0)
	for _, tok := range tb {
		put(t.vocab.ID(tok), 1)
	}
	put(t.vocab.sepID, 1)
	return enc
}

// Tokens runs the full normalization and WordPiece pipeline, returning
// subword tokens without any special markers.
func (t *WordPiece) Tokens(text string) []string {
	var out []string
	for _, word := range t.basicTokenize(text) {
		out = append(out, t.subwords(word)...)
	}
	return out
}

func (t *WordPiece) newEncoding() Encoding {
	enc := Encoding{
		InputIDs:      make([]int64, t.maxLen),
		AttentionMask: make([]int64, t.maxLen),
		TokenTypeIDs:  make([]int64, t.maxLen),
	}
	// bert vocabularies keep [PAD] at 0, but do not rely on it
	if t.vocab.padID != 0 {
		for i := range enc.InputIDs {
			enc.InputIDs[i] = t.vocab.padID
		}
	}
	return enc
}

// basicTokenize mirrors BERT's BasicTokenizer: drop control characters,
// space out CJK ideographs, lowercase, strip accents, then split on
// whitespace and punctuation.
func (t *WordPiece) basicTokenize(text string) []string {
	text = cleanText(text)
	text = spaceOutCJK(text)
	text = strings.ToLower(text)
	text = stripAccents(text)

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitOnPunctuation(word)...)
	}
	return tokens
}

// subwords decomposes one word by greedy longest match, prefixing
// continuations with ##. Words with no full decomposition become [UNK].
func (t *WordPiece) subwords(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) > maxWordChars {
		return []string{unkToken}
	}

	var subs []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.Contains(sub) {
				subs = append(subs, sub)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{unkToken}
		}
		start = end
	}
	return subs
}

// cleanText drops control characters and folds all whitespace to spaces.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0 || r == 0xFFFD || isControl(r) {
			continue
		}
		if isWhitespace(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripAccents removes combining marks after NFD normalization.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// spaceOutCJK pads CJK ideographs with spaces so each becomes its own
// basic token.
func spaceOutCJK(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if isCJK(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitOnPunctuation splits a word at each punctuation character, keeping
// the punctuation as separate tokens.
func splitOnPunctuation(word string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range word {
		if isPunctuation(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Character classes below mirror the reference BERT implementation.

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isPunctuation(r rune) bool {
	// ASCII characters outside letters and digits count as punctuation
	// even when unicode classifies them otherwise, $ and ^ included.
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isCJK(r rune) bool {
	// CJK Unified Ideographs plus the extension blocks.
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
