package catalog

import "sync"

// Catalog is the immutable set of definitions the engine reads from. Slices keep
// declaration order for deterministic iteration, maps give O(1) lookups.
type Catalog struct {
	Buildings    []Building
	Upgrades     []Upgrade
	Achievements []Achievement
	Skills       []Skill

	buildings    map[BuildingID]int
	upgrades     map[UpgradeID]int
	achievements map[AchievementID]int
	skills       map[SkillID]int
	children     map[SkillID][]SkillID
}

// New expands the tier rules over the given building table.
func New(buildings []Building) *Catalog {
	c := &Catalog{
		Buildings:    append([]Building(nil), buildings...),
		Upgrades:     buildUpgrades(buildings),
		Achievements: buildAchievements(buildings),
		Skills:       buildSkills(),
	}
	c.index()
	return c
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the shared game catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(defaultBuildings())
	})
	return defaultCatalog
}

func (c *Catalog) index() {
	c.buildings = make(map[BuildingID]int, len(c.Buildings))
	for i, b := range c.Buildings {
		c.buildings[b.ID] = i
	}
	c.upgrades = make(map[UpgradeID]int, len(c.Upgrades))
	for i, u := range c.Upgrades {
		c.upgrades[u.ID] = i
	}
	c.achievements = make(map[AchievementID]int, len(c.Achievements))
	for i, a := range c.Achievements {
		c.achievements[a.ID] = i
	}
	c.skills = make(map[SkillID]int, len(c.Skills))
	c.children = make(map[SkillID][]SkillID)
	for i, s := range c.Skills {
		c.skills[s.ID] = i
		if s.HasParent() {
			c.children[s.Parent] = append(c.children[s.Parent], s.ID)
		}
	}
}

// Building looks up a building by id.
func (c *Catalog) Building(id BuildingID) (Building, bool) {
	i, ok := c.buildings[id]
	if !ok {
		return Building{}, false
	}
	return c.Buildings[i], true
}

// Upgrade looks up an upgrade by id.
func (c *Catalog) Upgrade(id UpgradeID) (Upgrade, bool) {
	i, ok := c.upgrades[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.Upgrades[i], true
}

// Achievement looks up an achievement by id.
func (c *Catalog) Achievement(id AchievementID) (Achievement, bool) {
	i, ok := c.achievements[id]
	if !ok {
		return Achievement{}, false
	}
	return c.Achievements[i], true
}

// Skill looks up a skill by id.
func (c *Catalog) Skill(id SkillID) (Skill, bool) {
	i, ok := c.skills[id]
	if !ok {
		return Skill{}, false
	}
	return c.Skills[i], true
}

// Children lists the skills directly gated by id.
func (c *Catalog) Children(id SkillID) []SkillID {
	return c.children[id]
}
