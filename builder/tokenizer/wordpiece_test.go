package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tunehub.io/tunehub-server/builder/tokenizer"
)

func TestWordPieceEncode(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 0)

	cases := []struct {
		name string
		text string
		ids  []int64
	}{
		{"plain words", "the quick brown fox", []int64{2, 5, 6, 7, 8, 3}},
		{"subword continuation", "jumps", []int64{2, 9, 10, 3}},
		{"greedy longest match", "unaffable", []int64{2, 15, 16, 17, 3}},
		{"unknown word", "zyzzyva", []int64{2, 1, 3}},
		{"empty text", "", []int64{2, 3}},
		{"case folding and accents", "CAFÉ", []int64{2, 18, 3}},
		{"cjk split per ideograph", "你好", []int64{2, 24, 25, 3}},
		{"punctuation separated", "hello, world!", []int64{2, 19, 21, 20, 23, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := tok.Encode(tc.text)
			require.Len(t, enc.InputIDs, tokenizer.DefaultMaxSequenceLength)
			require.Len(t, enc.AttentionMask, tokenizer.DefaultMaxSequenceLength)
			require.Len(t, enc.TokenTypeIDs, tokenizer.DefaultMaxSequenceLength)

			require.Equal(t, tc.ids, enc.InputIDs[:len(tc.ids)])
			for i := range enc.InputIDs {
				if i < len(tc.ids) {
					require.Equal(t, int64(1), enc.AttentionMask[i])
				} else {
					require.Equal(t, int64(0), enc.AttentionMask[i])
					require.Equal(t, int64(0), enc.InputIDs[i])
				}
				require.Equal(t, int64(0), enc.TokenTypeIDs[i])
			}
		})
	}
}

func TestWordPieceEncodeTruncation(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 16)

	enc := tok.Encode(strings.Repeat("fox ", 30))
	require.Len(t, enc.InputIDs, 16)
	require.Equal(t, int64(2), enc.InputIDs[0])
	require.Equal(t, int64(3), enc.InputIDs[15])
	for i, m := range enc.AttentionMask {
		require.Equal(t, int64(1), m, "position %d", i)
	}
}

func TestWordPieceEncodeLongWord(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 0)

	// 100 chars still decomposes, 101 falls back to [UNK]
	enc := tok.Encode(strings.Repeat("a", 100))
	require.Equal(t, int64(26), enc.InputIDs[1])
	require.Equal(t, int64(27), enc.InputIDs[2])

	enc = tok.Encode(strings.Repeat("a", 101))
	require.Equal(t, []int64{2, 1, 3}, enc.InputIDs[:3])
}

func TestWordPieceEncodePair(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 0)

	enc := tok.EncodePair("the quick", "brown fox")
	wantIDs := []int64{2, 5, 6, 3, 7, 8, 3}
	wantTypes := []int64{0, 0, 0, 0, 1, 1, 1}
	require.Equal(t, wantIDs, enc.InputIDs[:len(wantIDs)])
	require.Equal(t, wantTypes, enc.TokenTypeIDs[:len(wantTypes)])
	for i := range enc.InputIDs {
		if i < len(wantIDs) {
			require.Equal(t, int64(1), enc.AttentionMask[i])
		} else {
			require.Equal(t, int64(0), enc.AttentionMask[i])
			require.Equal(t, int64(0), enc.TokenTypeIDs[i])
		}
	}
}

func TestWordPieceEncodePairTruncation(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 8)

	// five tokens against two; the longer side loses tokens first
	enc := tok.EncodePair("the quick brown fox dog", "lazy dog")
	require.Equal(t, []int64{2, 5, 6, 7, 3, 13, 14, 3}, enc.InputIDs)
	require.Equal(t, []int64{0, 0, 0, 0, 0, 1, 1, 1}, enc.TokenTypeIDs)
	for _, m := range enc.AttentionMask {
		require.Equal(t, int64(1), m)
	}
}

func TestWordPieceTokens(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 0)

	require.Equal(t,
		[]string{"un", "##aff", "##able", "jump", "##ing"},
		tok.Tokens("unaffable jumping"))
	require.Empty(t, tok.Tokens("   \t\n"))
}

func TestWordPieceDeterministic(t *testing.T) {
	tok := tokenizer.NewWordPiece(loadTestVocab(t), 0)

	text := "the quick brown fox jumps over the lazy dog, 你好!"
	first := tok.Encode(text)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, tok.Encode(text))
	}
}
