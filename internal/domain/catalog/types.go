// Package catalog holds the static game data: buildings, upgrades, achievements
// and the skill tree. This package is PURE and must NOT import any other package
// of the module. Everything here is built once and shared by pointer.
package catalog

// BuildingID identifies a producer type.
type BuildingID string

// UpgradeID identifies a one-time purchase of an epoch.
type UpgradeID string

// AchievementID identifies a permanent unlock.
type AchievementID string

// SkillID identifies a node of the prestige skill tree.
type SkillID string

// UpgradeKind selects which stat an upgrade multiplies.
type UpgradeKind string

const (
	UpgradeKindClick    UpgradeKind = "click"
	UpgradeKindBuilding UpgradeKind = "building"
	UpgradeKindGlobal   UpgradeKind = "global"
)

// Building is a producer the player can own many of.
type Building struct {
	ID             BuildingID `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BaseCost       float64    `json:"baseCost"`
	BaseProduction float64    `json:"baseProduction"` // cookies per second per unit
}

// Upgrade is a permanent multiplier bought with cookies.
type Upgrade struct {
	ID          UpgradeID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        float64     `json:"cost"`
	Kind        UpgradeKind `json:"kind"`
	Target      BuildingID  `json:"target,omitempty"` // only for UpgradeKindBuilding
	Multiplier  float64     `json:"multiplier"`
	Unlock      Predicate   `json:"unlock"`
}

// Achievement is unlocked once its predicate holds and is never re-locked.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Unlock      Predicate     `json:"unlock"`
}

// Branch groups skill nodes that share a tiered effect.
type Branch string

const (
	BranchRoot       Branch = "root"
	BranchEconomy    Branch = "economy"
	BranchLuck       Branch = "luck"
	BranchProduction Branch = "production"
	BranchSpecial    Branch = "special"
)

// Skill is a node of the prestige tree. X and Y are layout percentages used by
// renderers only.
type Skill struct {
	ID          SkillID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        int     `json:"cost"`
	Parent      SkillID `json:"parent,omitempty"`
	Branch      Branch  `json:"branch"`
	Tier        int     `json:"tier,omitempty"` // 1-based position inside a tiered branch
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// HasParent reports whether the skill is gated by another node.
func (s Skill) HasParent() bool {
	return s.Parent != ""
}
