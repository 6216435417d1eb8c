package bakery

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

func TestNewState(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(now)

	assert.Equal(t, DefaultName, s.BakeryName)
	assert.Equal(t, now, s.StartTime)
	assert.Equal(t, now, s.LastSaveTime)
	assert.Zero(t, s.Cookies)
	assert.NotNil(t, s.Buildings)
	assert.NotNil(t, s.PurchasedSkills)
}

func TestCloneIsDeep(t *testing.T) {
	s := New(time.Now())
	s.Buildings["cursor"] = 3
	s.Upgrades["click_upgrade_0"] = struct{}{}
	s.PurchasedSkills[catalog.SkillHeavenlyGates] = struct{}{}

	c := s.Clone()
	c.Buildings["cursor"] = 99
	c.Upgrades["cursor_upgrade_0"] = struct{}{}
	delete(c.PurchasedSkills, catalog.SkillHeavenlyGates)

	assert.Equal(t, 3, s.Owned("cursor"))
	assert.False(t, s.HasUpgrade("cursor_upgrade_0"))
	assert.True(t, s.HasSkill(catalog.SkillHeavenlyGates))
}

func TestCreditAndDebit(t *testing.T) {
	s := New(time.Now())

	s.Credit(100)
	s.Credit(-5)
	s.Credit(math.NaN())
	s.Credit(math.Inf(1))
	assert.Equal(t, 100.0, s.Cookies)
	assert.Equal(t, 100.0, s.TotalCookies)
	assert.Equal(t, 100.0, s.LifetimeCookies)

	assert.False(t, s.Debit(101))
	assert.True(t, s.Debit(40))
	assert.Equal(t, 60.0, s.Cookies)
	assert.Equal(t, 100.0, s.TotalCookies, "spending does not touch totals")
}

func TestNormalizeName(t *testing.T) {
	name, ok := NormalizeName("   Padaria da Vovó  ")
	require.True(t, ok)
	assert.Equal(t, "Padaria da Vovó", name)

	_, ok = NormalizeName("   ")
	assert.False(t, ok)

	long := strings.Repeat("é", MaxNameLength+10)
	name, ok = NormalizeName(long)
	require.True(t, ok)
	assert.Len(t, []rune(name), MaxNameLength)
}

func TestEffectTiming(t *testing.T) {
	now := time.Now()
	e := ActiveEffect{EndTime: now.Add(2 * time.Second)}

	assert.False(t, e.Expired(now))
	assert.Equal(t, 2*time.Second, e.Remaining(now))
	assert.True(t, e.Expired(now.Add(2*time.Second)))
	assert.Zero(t, e.Remaining(now.Add(time.Minute)))
}

func TestSortedKeys(t *testing.T) {
	set := map[catalog.UpgradeID]struct{}{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []catalog.UpgradeID{"a", "b", "c"}, SortedKeys(set))
}
