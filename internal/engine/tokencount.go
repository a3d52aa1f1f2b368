package engine

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenEncodingOnce sync.Once
	tokenEncoding     *tiktoken.Tiktoken
)

// estimateTokens gives an approximate token count for prompt, used only as
// an operational guardrail (logged before dispatch) to flag checklist
// prompts that risk blowing a provider's context window before they
// surface as a ProviderFault. If the encoder can't be loaded, a rough
// estimate of one token per four characters is used instead so logging
// never blocks a validation call.
func estimateTokens(prompt string) int {
	tokenEncodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tokenEncoding = enc
		}
	})

	if tokenEncoding != nil {
		return len(tokenEncoding.Encode(prompt, nil, nil))
	}

	return len(prompt) / 4
}
