package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Special tokens every BERT style vocabulary must carry.
const (
	padToken = "[PAD]"
	unkToken = "[UNK]"
	clsToken = "[CLS]"
	sepToken = "[SEP]"
)

// Vocab is a WordPiece vocabulary loaded from a vocab.txt file. Token IDs
// are line numbers, starting at 0. A loaded vocabulary is immutable and
// safe for concurrent use.
type Vocab struct {
	tokenToID   map[string]int64
	idToToken   []string
	fingerprint string

	padID int64
	unkID int64
	clsID int64
	sepID int64
}

// LoadVocab reads a vocab.txt file where each line holds one token and the
// line number is the token ID.
func LoadVocab(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()
	return ReadVocab(f)
}

// ReadVocab loads a vocabulary from r. The fingerprint is an xxhash of the
// raw content, so two sources with the same tokens in the same order get
// the same fingerprint and any edit to the vocabulary changes it.
func ReadVocab(r io.Reader) (*Vocab, error) {
	digest := xxhash.New()

	var tokens []string
	tokenToID := make(map[string]int64, 32000)

	scanner := bufio.NewScanner(io.TeeReader(r, digest))
	for scanner.Scan() {
		tok := scanner.Text()
		tokenToID[tok] = int64(len(tokens))
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vocab: empty vocabulary")
	}

	v := &Vocab{
		tokenToID:   tokenToID,
		idToToken:   tokens,
		fingerprint: fmt.Sprintf("%016x", digest.Sum64()),
	}

	specials := []struct {
		token string
		dest  *int64
	}{
		{padToken, &v.padID},
		{unkToken, &v.unkID},
		{clsToken, &v.clsID},
		{sepToken, &v.sepID},
	}
	for _, s := range specials {
		id, ok := tokenToID[s.token]
		if !ok {
			return nil, fmt.Errorf("vocab: missing special token %s", s.token)
		}
		*s.dest = id
	}

	return v, nil
}

// ID returns the token ID, falling back to the [UNK] ID for tokens outside
// the vocabulary.
func (v *Vocab) ID(token string) int64 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return v.unkID
}

// Token returns the token text for an ID, or [UNK] for out of range IDs.
func (v *Vocab) Token(id int64) string {
	if id < 0 || id >= int64(len(v.idToToken)) {
		return unkToken
	}
	return v.idToToken[id]
}

// Contains reports whether token is in the vocabulary.
func (v *Vocab) Contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// Size returns the number of tokens in the vocabulary.
func (v *Vocab) Size() int {
	return len(v.idToToken)
}

// Fingerprint returns the vocabulary content hash as 16 hex digits.
func (v *Vocab) Fingerprint() string {
	return v.fingerprint
}

// PadID returns the [PAD] token ID.
func (v *Vocab) PadID() int64 {
	return v.padID
}
