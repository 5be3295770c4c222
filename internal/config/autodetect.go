package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// agentConfigCandidates lists the well-known agent framework config
// locations probed by DetectAgentName, in priority order.
func agentConfigCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "clawd", "config.yaml"),
		filepath.Join(home, ".config", "clawd", "config.yml"),
		filepath.Join(home, ".clawd", "config.yaml"),
		filepath.Join(home, ".clawd", "config.yml"),
		filepath.Join(home, ".config", "clawdbot", "config.yaml"),
		filepath.Join(home, ".config", "clawdbot", "config.yml"),
	}
}

// agentConfigDoc matches the subset of an agent framework config we
// care about: either agent.name or a top-level name.
type agentConfigDoc struct {
	Name  string `yaml:"name"`
	Agent struct {
		Name string `yaml:"name"`
	} `yaml:"agent"`
}

// DetectAgentName probes well-known agent framework configs for the
// agent's display name. Returns "" when nothing usable is found;
// absence is not an error.
func DetectAgentName() string {
	return detectAgentName(agentConfigCandidates())
}

func detectAgentName(paths []string) string {
	for _, path := range paths {
		if name := readAgentName(path); name != "" {
			configLog.Debug("agent_name_detected", "path", path, "name", name)
			return name
		}
	}
	return ""
}

// readAgentName extracts the agent name from a single YAML config.
// Any read or parse failure just means "not this one".
func readAgentName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var doc agentConfigDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	if name := strings.TrimSpace(doc.Agent.Name); name != "" {
		return name
	}
	return strings.TrimSpace(doc.Name)
}
