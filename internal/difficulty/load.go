package difficulty

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCurve reads a YAML curve override. Terms missing from the file keep
// their DefaultCurve values.
func LoadCurve(path string) (Curve, error) {
	c := DefaultCurve()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read difficulty curve: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("failed to parse difficulty curve: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("difficulty curve %s: %w", path, err)
	}
	return c, nil
}

// Validate checks that every clamp range is well formed.
func (c Curve) Validate() error {
	linear := map[string]Linear{
		"ice_boost":       c.IceBoost,
		"mud_boost":       c.MudBoost,
		"base_cost":       c.BaseCost,
		"mud_cost":        c.MudCost,
		"slip_cost_extra": c.SlipCostExtra,
		"stamina_budget":  c.StaminaBudget,
		"food_value":      c.FoodValue,
		"food_rate":       c.FoodRate,
		"boots_rate":      c.BootsRate,
	}
	for name, t := range linear {
		if t.Min > t.Max {
			return fmt.Errorf("%s: min %v exceeds max %v", name, t.Min, t.Max)
		}
	}
	stepped := map[string]Stepped{
		"boots_steps":     c.BootsSteps,
		"coins_min":       c.CoinsMin,
		"coins_max":       c.CoinsMax,
		"gentle_top_rows": c.GentleTopRows,
	}
	for name, t := range stepped {
		if t.Min > t.Max {
			return fmt.Errorf("%s: min %d exceeds max %d", name, t.Min, t.Max)
		}
		if t.Per < 0 {
			return fmt.Errorf("%s: negative step %d", name, t.Per)
		}
	}
	if c.StaminaBudget.Min <= 0 {
		return fmt.Errorf("stamina_budget: min must be positive")
	}
	if c.BaseCost.Min <= 0 || c.MudCost.Min <= 0 {
		return fmt.Errorf("move costs must be positive")
	}
	if c.FoodValue.Min <= c.BaseCost.Max {
		return fmt.Errorf("food_value min %v must exceed base_cost max %v", c.FoodValue.Min, c.BaseCost.Max)
	}
	if c.CoinsMin.Min > c.CoinsMax.Min {
		return fmt.Errorf("coins_min floor %d exceeds coins_max floor %d", c.CoinsMin.Min, c.CoinsMax.Min)
	}
	return nil
}
