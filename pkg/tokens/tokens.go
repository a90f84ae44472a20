package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const encoding = "cl100k_base"

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// Count estimates how many tokens text takes. The encoding is loaded on first
// use; a load failure is returned on every call instead of panicking.
func Count(text string) (int, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(encoding)
	})
	if tkErr != nil {
		return 0, fmt.Errorf("load %s encoding: %w", encoding, tkErr)
	}
	if text == "" {
		return 0, nil
	}
	return len(tk.Encode(text, nil, nil)), nil
}
