// Package difficulty maps a climb level to the numeric knobs the chunk
// generator uses. Every knob grows monotonically with level and is clamped,
// so very deep levels stop getting harder.
package difficulty

import "math"

// Params is the bundle of knobs for one level.
type Params struct {
	IceBoost      float64 `json:"ice_boost"`       // added to the ICE terrain weight
	MudBoost      float64 `json:"mud_boost"`       // added to the MUD terrain weight
	BaseCost      float64 `json:"base_cost"`       // stamina per step
	MudCost       float64 `json:"mud_cost"`        // stamina per step onto mud
	SlipCostExtra float64 `json:"slip_cost_extra"` // surcharge for an ice slide
	StaminaBudget float64 `json:"stamina_budget"`
	FoodValue     float64 `json:"food_value"`
	FoodRate      float64 `json:"food_rate"`  // repair: probability of adding an item first
	BootsRate     float64 `json:"boots_rate"` // repair: probability the item is boots
	BootsSteps    int     `json:"boots_steps"`
	CoinsMin      int     `json:"coins_min"` // scatter target bounds, before repair
	CoinsMax      int     `json:"coins_max"`
	GentleTopRows int     `json:"gentle_top_rows"`
}

// Linear is base + slope*L clamped to [Min, Max].
type Linear struct {
	Base  float64 `yaml:"base"`
	Slope float64 `yaml:"slope"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// At evaluates the term at level l.
func (t Linear) At(l int) float64 {
	return clampF(t.Base+t.Slope*float64(l), t.Min, t.Max)
}

// Stepped is base + sign*floor(L/Per) clamped to [Min, Max].
type Stepped struct {
	Base int `yaml:"base"`
	Per  int `yaml:"per"`
	Sign int `yaml:"sign"`
	Min  int `yaml:"min"`
	Max  int `yaml:"max"`
}

// At evaluates the term at level l.
func (t Stepped) At(l int) int {
	v := t.Base
	if t.Per > 0 {
		v += t.Sign * (l / t.Per)
	}
	return clampI(v, t.Min, t.Max)
}

// Curve holds one term per knob.
type Curve struct {
	IceBoost      Linear  `yaml:"ice_boost"`
	MudBoost      Linear  `yaml:"mud_boost"`
	BaseCost      Linear  `yaml:"base_cost"`
	MudCost       Linear  `yaml:"mud_cost"`
	SlipCostExtra Linear  `yaml:"slip_cost_extra"`
	StaminaBudget Linear  `yaml:"stamina_budget"`
	FoodValue     Linear  `yaml:"food_value"`
	FoodRate      Linear  `yaml:"food_rate"`
	BootsRate     Linear  `yaml:"boots_rate"`
	BootsSteps    Stepped `yaml:"boots_steps"`
	CoinsMin      Stepped `yaml:"coins_min"`
	CoinsMax      Stepped `yaml:"coins_max"`
	GentleTopRows Stepped `yaml:"gentle_top_rows"`
}

// DefaultCurve is the shipped tuning.
func DefaultCurve() Curve {
	return Curve{
		// ice and mud become more common
		IceBoost: Linear{Base: 2, Slope: 0.8, Min: 0, Max: 25},
		MudBoost: Linear{Base: 0, Slope: 0.4, Min: 0, Max: 12},

		BaseCost:      Linear{Base: 1, Slope: 0.015, Min: 1, Max: 2.5},
		MudCost:       Linear{Base: 3, Slope: 0.05, Min: 3, Max: 5.5},
		SlipCostExtra: Linear{Base: 0, Slope: 0.015, Min: 0, Max: 0.8},

		StaminaBudget: Linear{Base: 110, Slope: -0.8, Min: 65, Max: 110},
		FoodValue:     Linear{Base: 25, Slope: -0.2, Min: 12, Max: 25},
		FoodRate:      Linear{Base: 0.65, Slope: -0.008, Min: 0.3, Max: 0.65},
		BootsRate:     Linear{Base: 0.2, Slope: -0.003, Min: 0.05, Max: 0.2},
		BootsSteps:    Stepped{Base: 7, Per: 8, Sign: -1, Min: 3, Max: 7},

		// more coins deeper in as a reward
		CoinsMin: Stepped{Base: 10, Per: 6, Sign: 1, Min: 10, Max: 30},
		CoinsMax: Stepped{Base: 16, Per: 4, Sign: 1, Min: 16, Max: 45},

		GentleTopRows: Stepped{Base: 3, Per: 10, Sign: -1, Min: 0, Max: 3},
	}
}

var defaultCurve = DefaultCurve()

// For returns the default curve's parameters for level. Levels below 1 are
// treated as level 1.
func For(level int) Params {
	return defaultCurve.For(level)
}

// For evaluates every term of c at level.
func (c Curve) For(level int) Params {
	l := level
	if l < 1 {
		l = 1
	}
	p := Params{
		IceBoost:      c.IceBoost.At(l),
		MudBoost:      c.MudBoost.At(l),
		BaseCost:      c.BaseCost.At(l),
		MudCost:       c.MudCost.At(l),
		SlipCostExtra: c.SlipCostExtra.At(l),
		StaminaBudget: c.StaminaBudget.At(l),
		FoodValue:     c.FoodValue.At(l),
		FoodRate:      c.FoodRate.At(l),
		BootsRate:     c.BootsRate.At(l),
		BootsSteps:    c.BootsSteps.At(l),
		CoinsMin:      c.CoinsMin.At(l),
		CoinsMax:      c.CoinsMax.At(l),
		GentleTopRows: c.GentleTopRows.At(l),
	}
	if p.CoinsMax < p.CoinsMin {
		p.CoinsMax = p.CoinsMin
	}
	return p
}

// Range is the closed interval a knob is clamped to.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Bounds returns the clamp range of every knob, keyed by the Params JSON name.
func (c Curve) Bounds() map[string]Range {
	lin := func(t Linear) Range { return Range{t.Min, t.Max} }
	step := func(t Stepped) Range { return Range{float64(t.Min), float64(t.Max)} }
	return map[string]Range{
		"ice_boost":       lin(c.IceBoost),
		"mud_boost":       lin(c.MudBoost),
		"base_cost":       lin(c.BaseCost),
		"mud_cost":        lin(c.MudCost),
		"slip_cost_extra": lin(c.SlipCostExtra),
		"stamina_budget":  lin(c.StaminaBudget),
		"food_value":      lin(c.FoodValue),
		"food_rate":       lin(c.FoodRate),
		"boots_rate":      lin(c.BootsRate),
		"boots_steps":     step(c.BootsSteps),
		"coins_min":       step(c.CoinsMin),
		"coins_max":       {float64(c.CoinsMax.Min), math.Max(float64(c.CoinsMax.Max), float64(c.CoinsMin.Max))},
		"gentle_top_rows": step(c.GentleTopRows),
	}
}

// Fields flattens p into the same keys Bounds uses.
func (p Params) Fields() map[string]float64 {
	return map[string]float64{
		"ice_boost":       p.IceBoost,
		"mud_boost":       p.MudBoost,
		"base_cost":       p.BaseCost,
		"mud_cost":        p.MudCost,
		"slip_cost_extra": p.SlipCostExtra,
		"stamina_budget":  p.StaminaBudget,
		"food_value":      p.FoodValue,
		"food_rate":       p.FoodRate,
		"boots_rate":      p.BootsRate,
		"boots_steps":     float64(p.BootsSteps),
		"coins_min":       float64(p.CoinsMin),
		"coins_max":       float64(p.CoinsMax),
		"gentle_top_rows": float64(p.GentleTopRows),
	}
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampI(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
