package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/biscoitoclicker/bakery/internal/domain/rules"
)

// LoadBalance overlays a YAML file onto the default balance. Keys absent from
// the file keep their default. An empty path returns the defaults.
func LoadBalance(path string) (rules.Balance, error) {
	bal := rules.DefaultBalance()
	if path == "" {
		return bal, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return bal, fmt.Errorf("failed to read balance file: %w", err)
	}
	return ParseBalance(data)
}

// ParseBalance overlays YAML bytes onto the default balance.
func ParseBalance(data []byte) (rules.Balance, error) {
	bal := rules.DefaultBalance()
	if err := yaml.Unmarshal(data, &bal); err != nil {
		return rules.DefaultBalance(), fmt.Errorf("failed to parse balance: %w", err)
	}
	if err := validateBalance(bal); err != nil {
		return rules.DefaultBalance(), err
	}
	return bal, nil
}

func validateBalance(b rules.Balance) error {
	switch {
	case b.CostGrowth <= 1:
		return fmt.Errorf("invalid balance: cost_growth must be greater than 1")
	case b.Prestige.Divisor <= 0:
		return fmt.Errorf("invalid balance: prestige.divisor must be positive")
	case b.Golden.SpawnWindow <= 0 || b.Golden.SpawnWindowLuckyStars <= 0:
		return fmt.Errorf("invalid balance: golden spawn windows must be positive")
	case b.TickCap <= 0:
		return fmt.Errorf("invalid balance: tick_cap must be positive")
	}
	return nil
}
