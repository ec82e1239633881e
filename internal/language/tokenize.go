// Package language holds the process-wide sentence and word tokenizers.
//
// The punkt english model is decoded on first use and shared afterwards;
// Load is safe to call from any number of goroutines and any number of times.
package language

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/tokenize"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Tokenizer pairs the punkt sentence splitter with the Treebank word
// tokenizer. Obtain it with Load.
type Tokenizer struct {
	sent *sentences.DefaultSentenceTokenizer
	word *tokenize.TreebankWordTokenizer
}

// quotes folds typographic quotes to ASCII so Treebank's contraction rules
// apply to text decoded from word-processor PDFs.
var quotes = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u201C", "\"", "\u201D", "\"")

var (
	loadOnce sync.Once
	shared   *Tokenizer
	loadErr  error
)

// Load returns the shared tokenizer, building it on the first call.
func Load() (*Tokenizer, error) {
	loadOnce.Do(func() {
		st, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			loadErr = fmt.Errorf("language: load punkt model: %w", err)
			return
		}
		shared = &Tokenizer{sent: st, word: tokenize.NewTreebankWordTokenizer()}
	})
	return shared, loadErr
}

// Sentences splits text into trimmed, non-empty sentences in document order.
func (t *Tokenizer) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, s := range t.sent.Tokenize(text) {
		if v := strings.TrimSpace(s.Text); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Words tokenizes text sentence by sentence with the Treebank rules, so
// punctuation ends up in tokens of its own and sentence-final periods are
// split off every sentence, not only the last one.
func (t *Tokenizer) Words(text string) []string {
	var out []string
	for _, s := range t.Sentences(text) {
		out = append(out, t.word.Tokenize(quotes.Replace(s))...)
	}
	return out
}
