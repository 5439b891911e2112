// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates prompt sizes with the cl100k_base encoding. The
// count is approximate for non-OpenAI models and only used for logging.
type TokenCounter struct {
	once  sync.Once
	codec tokenizer.Codec
	err   error
}

// NewTokenCounter returns a counter that loads its codec on first use.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{}
}

// Count returns the number of tokens in text, or -1 if the codec is unavailable.
func (c *TokenCounter) Count(text string) int {
	c.once.Do(func() {
		c.codec, c.err = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if c.err != nil {
		return -1
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return -1
	}
	return len(ids)
}
