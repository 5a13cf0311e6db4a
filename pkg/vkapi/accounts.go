package vkapi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Accounts is the collector credential file: one VK access token per
// account, rotated across requests so no single account carries the
// whole crawl.
type Accounts struct {
	Tokens []string `yaml:"tokens" validate:"min=1,dive,min=1"`
}

// LoadAccounts reads an accounts file and validates it.
func LoadAccounts(path string) (Accounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Accounts{}, fmt.Errorf("failed to read accounts file: %w", err)
	}
	var accounts Accounts
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return Accounts{}, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}
	if err := validate.Struct(&accounts); err != nil {
		return Accounts{}, fmt.Errorf("%w: accounts file %s lists no usable tokens", ErrNoTokens, path)
	}
	return accounts, nil
}
