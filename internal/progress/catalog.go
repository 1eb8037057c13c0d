package progress

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kislikjeka/solsplit/pkg/money"
)

// Predicate decides whether an achievement's threshold is met.
type Predicate func(Stats) bool

// CatalogEntry pairs an achievement definition with its unlock predicate.
type CatalogEntry struct {
	Achievement Achievement
	Unlocks     Predicate
}

// Catalog is the ordered, append-only list of achievements. Entries are only
// ever appended, never reordered or removed, so persisted unlock flags keep
// a stable identity.
type Catalog []CatalogEntry

// Threshold kinds for catalog extension files.
const (
	thresholdBills  = "bills"
	thresholdAmount = "sol"
)

// DefaultCatalog returns the built-in achievements.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Achievement: Achievement{
				ID:          "first_bill",
				Title:       "First Bill Paid",
				Description: "Successfully paid your first bill",
				Icon:        "🎉",
				Requirement: 1,
			},
			Unlocks: billsAtLeast(1),
		},
		{
			Achievement: Achievement{
				ID:          "ten_bills",
				Title:       "10 Bills Completed",
				Description: "Successfully paid 10 bills",
				Icon:        "🏆",
				Requirement: 10,
			},
			Unlocks: billsAtLeast(10),
		},
		{
			Achievement: Achievement{
				ID:          "fifty_sol",
				Title:       "Big Spender",
				Description: "Paid more than 50 SOL in bills",
				Icon:        "💰",
				Requirement: 50,
			},
			Unlocks: solAtLeast(50),
		},
	}
}

// catalogFile is the TOML schema for extension achievements.
type catalogFile struct {
	Achievements []catalogFileEntry `toml:"achievement"`
}

type catalogFileEntry struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Icon        string `toml:"icon"`
	Kind        string `toml:"kind"`
	Threshold   int64  `toml:"threshold"`
}

// LoadCatalog returns the built-in catalog with any extension achievements
// from the given TOML file appended after it. An empty path returns the
// built-ins alone.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievement catalog: %w", err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}

	seen := make(map[string]bool, len(catalog))
	for _, entry := range catalog {
		seen[entry.Achievement.ID] = true
	}

	for _, e := range file.Achievements {
		if e.ID == "" {
			return nil, fmt.Errorf("achievement catalog entry is missing an id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("achievement %q conflicts with an existing entry", e.ID)
		}
		if e.Threshold <= 0 {
			return nil, fmt.Errorf("achievement %q has a non-positive threshold", e.ID)
		}

		var pred Predicate
		switch e.Kind {
		case thresholdBills:
			pred = billsAtLeast(int(e.Threshold))
		case thresholdAmount:
			pred = solAtLeast(e.Threshold)
		default:
			return nil, fmt.Errorf("achievement %q has unknown kind %q", e.ID, e.Kind)
		}

		seen[e.ID] = true
		catalog = append(catalog, CatalogEntry{
			Achievement: Achievement{
				ID:          e.ID,
				Title:       e.Title,
				Description: e.Description,
				Icon:        e.Icon,
				Requirement: e.Threshold,
			},
			Unlocks: pred,
		})
	}

	return catalog, nil
}

func billsAtLeast(n int) Predicate {
	return func(s Stats) bool { return s.BillsPaid >= n }
}

func solAtLeast(sol int64) Predicate {
	// Compare in lamports so no precision is lost converting to major units.
	threshold := sol * money.LamportsPerSOL
	return func(s Stats) bool { return s.LamportsPaid >= threshold }
}
