package chunk

import (
	"fmt"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
)

// Terrain is the ground kind of one cell.
type Terrain uint8

const (
	Dirt Terrain = iota
	Stone
	Mud
	Ice
)

// Terrains lists every terrain kind in weight-table order.
var Terrains = [...]Terrain{Dirt, Stone, Mud, Ice}

// String returns the lowercase terrain name used in JSON.
func (t Terrain) String() string {
	switch t {
	case Dirt:
		return "dirt"
	case Stone:
		return "stone"
	case Mud:
		return "mud"
	case Ice:
		return "ice"
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// Cost is the stamina needed to step onto t.
func (t Terrain) Cost(p difficulty.Params) float64 {
	switch t {
	case Mud:
		return p.MudCost
	case Dirt, Stone, Ice:
		return p.BaseCost
	}
	panic(fmt.Sprintf("chunk: unknown terrain %d", uint8(t)))
}

// Slippery reports whether stepping onto t without boots slides the player.
func (t Terrain) Slippery() bool {
	switch t {
	case Ice:
		return true
	case Dirt, Stone, Mud:
		return false
	}
	panic(fmt.Sprintf("chunk: unknown terrain %d", uint8(t)))
}

// Hazard reports whether repair can soften t.
func (t Terrain) Hazard() bool { return t == Mud || t == Ice }

// ParseTerrain is the inverse of Terrain.String.
func ParseTerrain(s string) (Terrain, error) {
	for _, t := range Terrains {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", s)
}

// Item is the pickup sitting on a cell. A cell holds at most one.
type Item uint8

const (
	None Item = iota
	Boots
	Food
	Coin
)

// Items lists every item kind.
var Items = [...]Item{None, Boots, Food, Coin}

// String returns the lowercase item name used in JSON.
func (i Item) String() string {
	switch i {
	case None:
		return "none"
	case Boots:
		return "boots"
	case Food:
		return "food"
	case Coin:
		return "coin"
	}
	return fmt.Sprintf("item(%d)", uint8(i))
}

// ParseItem is the inverse of Item.String.
func ParseItem(s string) (Item, error) {
	for _, i := range Items {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown item %q", s)
}
