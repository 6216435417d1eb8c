package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// SchemaVersion is written into every new blob. Blobs without a version
// predate it and are read with the same field names.
const SchemaVersion = 2

// ErrCorrupt marks a blob that is not a JSON object or has mistyped fields.
var ErrCorrupt = errors.New("corrupt save blob")

// SaveFile is the wire form of a bakery. Times are Unix milliseconds.
type SaveFile struct {
	Version         int            `json:"version" jsonschema:"title=Schema version,minimum=0"`
	Cookies         float64        `json:"cookies" jsonschema:"title=Spendable cookies,minimum=0"`
	TotalCookies    float64        `json:"totalCookies" jsonschema:"title=Cookies earned this ascension,minimum=0"`
	LifetimeCookies float64        `json:"lifetimeCookies" jsonschema:"title=Cookies earned across ascensions,minimum=0"`
	ManualClicks    int64          `json:"manualClicks" jsonschema:"minimum=0"`
	Buildings       map[string]int `json:"buildings" jsonschema:"description=Units owned per building id"`
	Upgrades        []string       `json:"upgrades" jsonschema:"uniqueItems=true"`
	Achievements    []string       `json:"achievements" jsonschema:"uniqueItems=true"`
	PurchasedSkills []string       `json:"purchasedSkills" jsonschema:"uniqueItems=true"`
	PrestigeLevel   int            `json:"prestigeLevel" jsonschema:"title=Unspent heavenly crystals,minimum=0"`
	BakeryName      string         `json:"bakeryName" jsonschema:"maxLength=48"`
	LastSaveTime    int64          `json:"lastSaveTime" jsonschema:"description=Unix milliseconds of the last save"`
	StartTime       int64          `json:"startTime" jsonschema:"description=Unix milliseconds when the bakery was founded"`
}

// FromState converts the aggregate to its wire form. Sets are emitted sorted.
func FromState(s *bakery.GameState) SaveFile {
	f := SaveFile{
		Version:         SchemaVersion,
		Cookies:         s.Cookies,
		TotalCookies:    s.TotalCookies,
		LifetimeCookies: s.LifetimeCookies,
		ManualClicks:    s.ManualClicks,
		Buildings:       make(map[string]int, len(s.Buildings)),
		Upgrades:        idStrings(bakery.SortedKeys(s.Upgrades)),
		Achievements:    idStrings(bakery.SortedKeys(s.Achievements)),
		PurchasedSkills: idStrings(bakery.SortedKeys(s.PurchasedSkills)),
		PrestigeLevel:   s.PrestigeLevel,
		BakeryName:      s.BakeryName,
		LastSaveTime:    s.LastSaveTime.UnixMilli(),
		StartTime:       s.StartTime.UnixMilli(),
	}
	for id, n := range s.Buildings {
		if n > 0 {
			f.Buildings[string(id)] = n
		}
	}
	return f
}

// ToState converts a wire form back to an aggregate, filling zero times with now.
func (f SaveFile) ToState(now time.Time) *bakery.GameState {
	s := bakery.New(now)
	s.Cookies = nonNegative(f.Cookies)
	s.TotalCookies = nonNegative(f.TotalCookies)
	s.LifetimeCookies = max(nonNegative(f.LifetimeCookies), s.TotalCookies)
	s.ManualClicks = max(f.ManualClicks, 0)
	s.PrestigeLevel = max(f.PrestigeLevel, 0)

	for id, n := range f.Buildings {
		if n > 0 {
			s.Buildings[catalog.BuildingID(id)] = n
		}
	}
	for _, id := range f.Upgrades {
		s.Upgrades[catalog.UpgradeID(id)] = struct{}{}
	}
	for _, id := range f.Achievements {
		s.Achievements[catalog.AchievementID(id)] = struct{}{}
	}
	for _, id := range f.PurchasedSkills {
		s.PurchasedSkills[catalog.SkillID(id)] = struct{}{}
	}
	if name, ok := bakery.NormalizeName(f.BakeryName); ok {
		s.BakeryName = name
	}
	if f.LastSaveTime > 0 {
		s.LastSaveTime = time.UnixMilli(f.LastSaveTime)
	}
	if f.StartTime > 0 {
		s.StartTime = time.UnixMilli(f.StartTime)
	}
	return s
}

// Encode serializes the aggregate.
func Encode(s *bakery.GameState) ([]byte, error) {
	blob, err := json.Marshal(FromState(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return blob, nil
}

// Decoded is a parsed blob plus what had to be repaired on the way in.
type Decoded struct {
	State  *bakery.GameState
	Legacy bool // lifetimeCookies was missing and was rebuilt from totalCookies
}

// Decode parses a blob. Missing fields take their epoch-zero values.
func Decode(blob []byte, now time.Time) (Decoded, error) {
	if !gjson.ValidBytes(blob) {
		return Decoded{}, fmt.Errorf("%w: invalid json", ErrCorrupt)
	}
	root := gjson.ParseBytes(blob)
	if !root.IsObject() {
		return Decoded{}, fmt.Errorf("%w: top level is %s", ErrCorrupt, root.Type)
	}

	var f SaveFile
	if err := json.Unmarshal(blob, &f); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Decoded{
		State:  f.ToState(now),
		Legacy: !root.Get("lifetimeCookies").Exists(),
	}, nil
}

func idStrings[K ~string](ids []K) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
