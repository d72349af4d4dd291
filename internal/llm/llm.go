// Package llm wraps the go-agents client behind the narrow generation
// boundary the stages depend on: prompt in, raw text out.
package llm

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Client generates text through a configured go-agents provider. Agents
// are created per call, so a Client is safe for repeated invocations.
type Client struct {
	cfg *gaconfig.AgentConfig
}

// New creates a Client over the given agent configuration.
func New(cfg *gaconfig.AgentConfig) *Client {
	return &Client{cfg: cfg}
}

// Generate sends the prompt as a chat completion and returns the raw
// response content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return resp.Content(), nil
}
