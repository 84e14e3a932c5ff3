// Package prompt serves the keyword and hint pairs rounds are played with.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ratel-online/core/util/rand"
	"github.com/ratel-online/faker/game"
)

//go:embed prompts.json
var defaultPrompts []byte

// Provider picks random prompts from a fixed list. The list never changes
// after construction, so one Provider can serve every room.
type Provider struct {
	prompts []game.Prompt
	mu      sync.Mutex
}

func New(prompts []game.Prompt) (*Provider, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt list is empty")
	}
	for i, p := range prompts {
		if p.Keyword == "" || p.Hint == "" {
			return nil, fmt.Errorf("prompt %d: keyword and hint are required", i)
		}
	}
	return &Provider{prompts: append([]game.Prompt(nil), prompts...)}, nil
}

func Parse(data []byte) (*Provider, error) {
	var prompts []game.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parsing prompts: %w", err)
	}
	return New(prompts)
}

// Load reads prompts from path, or the built in list when path is empty.
func Load(path string) (*Provider, error) {
	if path == "" {
		return Parse(defaultPrompts)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

func (p *Provider) RandomPrompt() game.Prompt {
	p.mu.Lock()
	idx := rand.Intn(len(p.prompts))
	p.mu.Unlock()
	return p.prompts[idx]
}

func (p *Provider) Len() int {
	return len(p.prompts)
}
