package progress_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/progress"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/pkg/logger"
	"github.com/kislikjeka/solsplit/pkg/money"
)

const walletA = wallet.Identity("walletA")

func newService(t *testing.T) (*progress.Service, *store.MemoryStore) {
	t.Helper()
	log := logger.New("test", io.Discard)
	st := store.NewMemoryStore(log)
	svc := progress.NewService(st, progress.DefaultCatalog(), log).
		WithClock(func() time.Time { return time.Unix(5000, 0).UTC() })
	return svc, st
}

func confirmedBills(solAmounts ...int64) []bill.Confirmed {
	bills := make([]bill.Confirmed, 0, len(solAmounts))
	for i, sol := range solAmounts {
		bills = append(bills, bill.Confirmed{
			Address:  string(rune('A' + i)),
			Creator:  walletA,
			Name:     "bill",
			Lamports: sol * money.LamportsPerSOL,
			Settled:  true,
		})
	}
	return bills
}

func TestRecomputeTotals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ledger, err := svc.Recompute(ctx, walletA, confirmedBills(10, 15, 26))
	require.NoError(t, err)

	assert.Equal(t, 3, ledger.TotalBillsPaid)
	assert.Equal(t, 51*money.LamportsPerSOL, ledger.TotalLamportsPaid)

	// 51 SOL unlocks the amount achievement but only 3 bills were paid, so
	// neither bill-count milestone past the first applies.
	assert.True(t, ledger.IsUnlocked("fifty_sol"))
	assert.True(t, ledger.IsUnlocked("first_bill"))
	assert.False(t, ledger.IsUnlocked("ten_bills"))
}

func TestRecomputeTenBills(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	// Nine bills: ten_bills stays locked.
	ledger, err := svc.Recompute(ctx, walletA, confirmedBills(1, 1, 1, 1, 1, 1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 9, ledger.TotalBillsPaid)
	assert.False(t, ledger.IsUnlocked("ten_bills"))

	// The tenth unlocks it.
	ledger, err = svc.Recompute(ctx, walletA, confirmedBills(1, 1, 1, 1, 1, 1, 1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, ledger.TotalBillsPaid)
	assert.True(t, ledger.IsUnlocked("ten_bills"))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	bills := confirmedBills(2, 3)

	first, err := svc.Recompute(ctx, walletA, bills)
	require.NoError(t, err)
	second, err := svc.Recompute(ctx, walletA, bills)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUnlockIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ledger, err := svc.Recompute(ctx, walletA, confirmedBills(60))
	require.NoError(t, err)
	require.True(t, ledger.IsUnlocked("fifty_sol"))

	// The confirmed set shrinking below the threshold must not re-lock.
	ledger, err = svc.Recompute(ctx, walletA, confirmedBills(1))
	require.NoError(t, err)
	assert.True(t, ledger.IsUnlocked("fifty_sol"))
	assert.Equal(t, 1*money.LamportsPerSOL, ledger.TotalLamportsPaid)
}

func TestRecomputeSumsWithoutPrecisionLoss(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	// Many sub-lamport-precision-hostile amounts; integer math keeps this exact.
	bills := make([]bill.Confirmed, 0, 1000)
	for i := 0; i < 1000; i++ {
		bills = append(bills, bill.Confirmed{Address: "a", Lamports: 3})
	}

	ledger, err := svc.Recompute(ctx, walletA, bills)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), ledger.TotalLamportsPaid)
}

func TestLoadFreshLedger(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ledger, err := svc.Load(ctx, walletA)
	require.NoError(t, err)
	assert.Zero(t, ledger.TotalBillsPaid)
	require.Len(t, ledger.Achievements, 3)
	for _, a := range ledger.Achievements {
		assert.False(t, a.Unlocked, "achievement %s should start locked", a.ID)
	}
}

func TestLoadSurvivesCorruptState(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	st.Put(walletA, store.NamespaceProgress, []byte(`{broken`))

	ledger, err := svc.Load(ctx, walletA)
	require.NoError(t, err)
	assert.Zero(t, ledger.TotalBillsPaid)
}

func TestLoadMergesFlagsOntoAppendedCatalog(t *testing.T) {
	ctx := context.Background()
	log := logger.New("test", io.Discard)
	st := store.NewMemoryStore(log)

	// Unlock fifty_sol with the built-in catalog.
	svc := progress.NewService(st, progress.DefaultCatalog(), log)
	_, err := svc.Recompute(ctx, walletA, confirmedBills(60))
	require.NoError(t, err)

	// Reload through a catalog with an appended entry.
	extended := append(progress.DefaultCatalog(), progress.CatalogEntry{
		Achievement: progress.Achievement{ID: "hundred_sol", Title: "Whale", Requirement: 100},
		Unlocks:     func(s progress.Stats) bool { return s.LamportsPaid >= 100*money.LamportsPerSOL },
	})
	svc2 := progress.NewService(st, extended, log)

	ledger, err := svc2.Load(ctx, walletA)
	require.NoError(t, err)
	require.Len(t, ledger.Achievements, 4)
	assert.True(t, ledger.IsUnlocked("fifty_sol"))
	assert.False(t, ledger.IsUnlocked("hundred_sol"))
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "achievements.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[achievement]]
id = "hundred_sol"
title = "Whale"
description = "Paid more than 100 SOL in bills"
icon = "🐳"
kind = "sol"
threshold = 100

[[achievement]]
id = "busy_month"
title = "Busy Month"
description = "Paid 30 bills"
icon = "📅"
kind = "bills"
threshold = 30
`), 0o600))

	catalog, err := progress.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 5)

	// Built-ins keep their positions; extensions are appended in file order.
	assert.Equal(t, "first_bill", catalog[0].Achievement.ID)
	assert.Equal(t, "hundred_sol", catalog[3].Achievement.ID)
	assert.Equal(t, "busy_month", catalog[4].Achievement.ID)

	assert.True(t, catalog[3].Unlocks(progress.Stats{LamportsPaid: 100 * money.LamportsPerSOL}))
	assert.False(t, catalog[3].Unlocks(progress.Stats{LamportsPaid: 99 * money.LamportsPerSOL}))
	assert.True(t, catalog[4].Unlocks(progress.Stats{BillsPaid: 30}))
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "duplicate id", body: "[[achievement]]\nid = \"first_bill\"\nkind = \"bills\"\nthreshold = 1\n"},
		{name: "missing id", body: "[[achievement]]\nkind = \"bills\"\nthreshold = 1\n"},
		{name: "unknown kind", body: "[[achievement]]\nid = \"x\"\nkind = \"usd\"\nthreshold = 1\n"},
		{name: "zero threshold", body: "[[achievement]]\nid = \"x\"\nkind = \"bills\"\nthreshold = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "achievements.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := progress.LoadCatalog(path)
			assert.Error(t, err)
		})
	}
}
