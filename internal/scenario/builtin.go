package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
)

// Builtin returns the standard scenario suite. seed drives the marathon.
func Builtin(seed uint64) []Scenario {
	return []Scenario{
		firstBatch(),
		goldenLuck(),
		ascension(),
		awayFromOven(),
		marathon(seed, 2*time.Hour),
	}
}

// BuiltinHarness picks the random source each built-in scenario expects.
func BuiltinHarness(name string) func() *Harness {
	return func() *Harness {
		if name == "Sorte Dourada" {
			// roll 0 -> first window, centered, lucky
			return NewHarness(engine.NewSequenceRandom(0, 0.5, 0.5, 0.1), nil)
		}
		return NewHarness(nil, nil)
	}
}

func firstBatch() Scenario {
	return Scenario{
		Name:     "Primeira Fornada",
		Input:    "15 clicks, buy a cursor, wait 60s",
		Expected: "6 cookies baked by the cursor",
		Play: func(_ context.Context, h *Harness) (string, error) {
			h.Click(15)
			if !h.Engine.BuyBuilding(catalog.BuildingCursor, 1) {
				return "cursor not bought", errors.New("15 cookies should buy the first cursor")
			}
			h.Advance(time.Minute)
			s := h.State()
			actual := fmt.Sprintf("%s cookies, %d cursor", format.Cookies(s.Cookies), s.Owned(catalog.BuildingCursor))
			return actual, check(math.Abs(s.Cookies-6) < 1e-9, "want 6 cookies, got %v", s.Cookies)
		},
	}
}

func goldenLuck() Scenario {
	return Scenario{
		Name:     "Sorte Dourada",
		Input:    "idle until the first golden cookie, click it",
		Expected: "lucky reward of 13 cookies",
		Play: func(_ context.Context, h *Harness) (string, error) {
			for h.Engine.Snapshot().GoldenCookie == nil {
				if h.Elapsed() > 10*time.Minute {
					return "no golden cookie", errors.New("golden cookie never spawned")
				}
				h.Advance(time.Second)
			}
			reward, ok := h.Engine.ClickGoldenCookie()
			if !ok {
				return "click missed", errors.New("live golden cookie rejected the click")
			}
			return reward.Message, check(reward.Kind == bakery.GoldenLucky && reward.Cookies == 13,
				"want lucky +13, got %s %v", reward.Kind, reward.Cookies)
		},
	}
}

func ascension() Scenario {
	return Scenario{
		Name:     "Ascensão",
		Input:    "resume a save with 4M lifetime cookies, ascend",
		Expected: "2 crystals, epoch reset, lifetime kept",
		Play: func(ctx context.Context, h *Harness) (string, error) {
			s := bakery.New(Epoch)
			s.Cookies, s.TotalCookies, s.LifetimeCookies = 500, 4e6, 4e6
			s.Buildings[catalog.BuildingCursor] = 20
			if err := h.Seed(ctx, s); err != nil {
				return "", err
			}
			if _, err := h.Reopen(ctx, Epoch); err != nil {
				return "", err
			}
			gain, ok, err := h.Engine.Ascend(ctx)
			if err != nil {
				return "", err
			}
			after := h.State()
			actual := fmt.Sprintf("+%d crystals, %s cookies, %s lifetime", gain,
				format.Cookies(after.Cookies), format.Cookies(after.LifetimeCookies))
			return actual, errors.Join(
				check(ok && gain == 2, "want 2 crystals, got %d", gain),
				check(after.Cookies == 0 && after.Owned(catalog.BuildingCursor) == 0, "epoch not reset"),
				check(after.LifetimeCookies == 4e6, "lifetime changed to %v", after.LifetimeCookies),
			)
		},
	}
}

func awayFromOven() Scenario {
	return Scenario{
		Name:     "Longe do Forno",
		Input:    "10 cursors, close the game for 2h",
		Expected: "3600 cookies credited at 50% efficiency",
		Play: func(ctx context.Context, h *Harness) (string, error) {
			s := bakery.New(Epoch)
			s.Buildings[catalog.BuildingCursor] = 10
			if err := h.Seed(ctx, s); err != nil {
				return "", err
			}
			res, err := h.Reopen(ctx, Epoch.Add(2*time.Hour))
			if err != nil {
				return "", err
			}
			actual := fmt.Sprintf("%s cookies after %s away", format.Cookies(res.Offline.Cookies), format.Duration(res.Offline.Away))
			return actual, errors.Join(
				check(res.Found, "save not found"),
				check(math.Abs(res.Offline.Cookies-3600) < 1e-6, "want 3600 offline cookies, got %v", res.Offline.Cookies),
			)
		},
	}
}

// marathon plays randomly and checks the bakery's invariants every step.
func marathon(seed uint64, length time.Duration) Scenario {
	return Scenario{
		Name:     "Maratona",
		Input:    fmt.Sprintf("random play for %s (seed %d)", format.Duration(length), seed),
		Expected: "balances never negative, lifetime >= total",
		Play: func(ctx context.Context, h *Harness) (string, error) {
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			cat := h.Engine.Catalog()
			purchases := 0
			for h.Elapsed() < length {
				switch n := rng.IntN(100); {
				case n < 60:
					h.Click(1 + rng.IntN(20))
				case n < 85:
					b := cat.Buildings[rng.IntN(len(cat.Buildings))]
					if h.Engine.BuyBuilding(b.ID, []int{1, 10, 100}[rng.IntN(3)]) {
						purchases++
					}
				case n < 95:
					for _, u := range h.Engine.AvailableUpgrades() {
						if h.Engine.BuyUpgrade(u.ID) {
							purchases++
						}
					}
				default:
					h.Engine.ClickGoldenCookie()
				}
				h.Advance(time.Duration(1+rng.IntN(30)) * time.Second)

				s := h.State()
				if s.Cookies < 0 || s.TotalCookies < 0 || s.LifetimeCookies < s.TotalCookies-1e-6 {
					return fmt.Sprintf("cookies=%v total=%v lifetime=%v", s.Cookies, s.TotalCookies, s.LifetimeCookies),
						fmt.Errorf("invariant broken at %s", format.Duration(h.Elapsed()))
				}
			}
			s := h.State()
			return fmt.Sprintf("%d purchases, %s lifetime, %d achievements",
				purchases, format.Cookies(s.LifetimeCookies), len(s.Achievements)), nil
		},
	}
}
