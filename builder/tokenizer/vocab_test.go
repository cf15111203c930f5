package tokenizer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tunehub.io/tunehub-server/builder/tokenizer"
)

// testVocabTokens is a miniature WordPiece vocabulary. IDs are line
// numbers, so [PAD] is 0 and the first real word is 5.
var testVocabTokens = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
	"the", "quick", "brown", "fox", "jump",
	"##s", "##ing", "over", "lazy", "dog",
	"un", "##aff", "##able", "cafe", "hello",
	"world", ",", ".", "!", "你", "好",
	"a", "##a",
}

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0644)
	require.NoError(t, err)
	return path
}

func loadTestVocab(t *testing.T) *tokenizer.Vocab {
	t.Helper()
	v, err := tokenizer.LoadVocab(writeVocab(t, testVocabTokens))
	require.NoError(t, err)
	return v
}

func TestLoadVocab(t *testing.T) {
	v := loadTestVocab(t)

	require.Equal(t, len(testVocabTokens), v.Size())
	require.Equal(t, int64(0), v.PadID())
	require.Equal(t, int64(8), v.ID("fox"))
	require.Equal(t, int64(10), v.ID("##s"))
	require.Equal(t, "fox", v.Token(8))
	require.True(t, v.Contains("##able"))
	require.False(t, v.Contains("zebra"))

	// unknown tokens and out of range IDs both resolve to [UNK]
	require.Equal(t, int64(1), v.ID("zebra"))
	require.Equal(t, "[UNK]", v.Token(999))
	require.Equal(t, "[UNK]", v.Token(-1))
}

func TestLoadVocabMissingSpecial(t *testing.T) {
	path := writeVocab(t, []string{"[PAD]", "[UNK]", "[CLS]", "the", "fox"})
	_, err := tokenizer.LoadVocab(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing special token [SEP]")
}

func TestLoadVocabEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err := tokenizer.LoadVocab(path)
	require.Error(t, err)
}

func TestLoadVocabNoFile(t *testing.T) {
	_, err := tokenizer.LoadVocab(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestVocabFingerprint(t *testing.T) {
	v := loadTestVocab(t)
	require.Len(t, v.Fingerprint(), 16)

	// same content at a different path keeps the fingerprint
	again, err := tokenizer.LoadVocab(writeVocab(t, testVocabTokens))
	require.NoError(t, err)
	require.Equal(t, v.Fingerprint(), again.Fingerprint())

	// any change to the vocabulary content changes it
	grown, err := tokenizer.LoadVocab(writeVocab(t, append(append([]string{}, testVocabTokens...), "zebra")))
	require.NoError(t, err)
	require.NotEqual(t, v.Fingerprint(), grown.Fingerprint())
}
