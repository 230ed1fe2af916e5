package secscan

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

// Policy declares what must never appear in a publishable artifact. The
// default policy ships embedded in the binary; operators may point
// security.policy_path at a YAML file to replace it wholesale.
type Policy struct {
	Version         int           `yaml:"version"`
	CredentialGlobs []string      `yaml:"credential_globs"`
	ToolingGlobs    []string      `yaml:"tooling_globs"`
	DirectoryNames  []string      `yaml:"directory_names"`
	ContentRules    []ContentRule `yaml:"content_rules"`
	MaxScanBytes    int64         `yaml:"max_scan_bytes"`
}

// ContentRule flags files whose contents contain any of the listed
// substrings, regardless of filename.
type ContentRule struct {
	Description string   `yaml:"description"`
	Substrings  []string `yaml:"substrings"`
}

// DefaultPolicy returns the embedded policy document.
func DefaultPolicy() (Policy, error) {
	return parsePolicy(defaultPolicyYAML)
}

// LoadPolicy reads a policy from path, or returns the embedded default
// when path is empty.
func LoadPolicy(path string) (Policy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPolicy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read security policy: %w", err)
	}
	policy, err := parsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("security policy %s: %w", path, err)
	}
	return policy, nil
}

func parsePolicy(data []byte) (Policy, error) {
	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse security policy: %w", err)
	}
	if policy.Version == 0 {
		return Policy{}, fmt.Errorf("security policy missing version")
	}
	if policy.MaxScanBytes <= 0 {
		policy.MaxScanBytes = 1 << 20
	}
	for _, glob := range append(append([]string{}, policy.CredentialGlobs...), policy.ToolingGlobs...) {
		if _, err := path.Match(glob, "x"); err != nil {
			return Policy{}, fmt.Errorf("security policy glob %q: %w", glob, err)
		}
	}
	return policy, nil
}
