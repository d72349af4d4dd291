package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProvider = "AMPLIFY_AGENT_PROVIDER"
	EnvAgentBaseURL  = "AMPLIFY_AGENT_BASE_URL"
	EnvAgentModel    = "AMPLIFY_AGENT_MODEL"
	EnvAgentToken    = "AMPLIFY_AGENT_TOKEN"
	EnvAgentAuthType = "AMPLIFY_AGENT_AUTH_TYPE"
)

// FinalizeAgent fills the writer agent's config from go-agents defaults
// and environment overrides, then checks the fields the CLI needs. The
// CLI drives a single chat agent, so only provider, model, and
// credentials are settable from the environment; anything else goes in
// the TOML provider options.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		c.Name = "amplify"
	}
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentProvider); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModel); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv(EnvAgentToken); v != "" {
		c.Provider.Options["token"] = v
	}
	if v := os.Getenv(EnvAgentAuthType); v != "" {
		c.Provider.Options["auth_type"] = v
	}

	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
