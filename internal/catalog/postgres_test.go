package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safe-ui/safe_assets/internal/logging"
	"github.com/safe-ui/safe_assets/internal/store"
)

// newTestPool connects to DATABASE_URL inside a throwaway schema so runs
// never see each other's rows.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	schema := "catalog_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect to schema: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func newTestPostgresSource(t *testing.T, safeAddr string) (*PostgresSource, *pgxpool.Pool) {
	t.Helper()
	pool := newTestPool(t)
	src := NewPostgresSource(pool, safeAddr)
	if err := src.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return src, pool
}

func TestPostgresSourceEmptyTablesEmitNoActions(t *testing.T) {
	src, _ := newTestPostgresSource(t, "")

	actions, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %d", len(actions))
	}
}

func TestPostgresSourceUnknownSafeIsNotAnError(t *testing.T) {
	src, pool := newTestPostgresSource(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	ctx := context.Background()
	if _, err := pool.Exec(ctx, `INSERT INTO safes (address, name) VALUES ('0x1111111111111111111111111111111111111111', 'Other')`); err != nil {
		t.Fatalf("insert safe: %v", err)
	}

	actions, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, a := range actions {
		if a.Type() == store.ActionUpdateSafe {
			t.Fatalf("expected no safe update for a missing safe")
		}
	}
}

func TestPostgresSourceLoadsRows(t *testing.T) {
	src, pool := newTestPostgresSource(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	ctx := context.Background()
	for _, stmt := range []string{
		`INSERT INTO safes (address, name, eth_balance, owners, threshold)
            VALUES ('0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed', 'Treasury', '3.2', '{0x1,0x2}', 2)`,
		`INSERT INTO tokens (address, symbol, name, decimals, balance)
            VALUES ('0x6B175474E89094C44Da98b954EedeAC495271d0F', 'DAI', 'Dai Stablecoin', 18, 1500000000000000000)`,
		`INSERT INTO nft_assets (address, slug, name) VALUES ('0xABC', 'kitties', 'Kitties')`,
		`INSERT INTO nft_tokens (asset_address, token_id, name) VALUES ('0xABC', '7', 'Kitty #7')`,
	} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	st := store.New(logging.Discard())
	if err := Hydrate(ctx, st, logging.Discard(), src); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	s := st.State()
	safe, ok := s.Safe()
	if !ok || safe.Name != "Treasury" || safe.Threshold != 2 || len(safe.Owners) != 2 {
		t.Fatalf("unexpected safe %+v", safe)
	}
	dai, ok := s.Token("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	if !ok || dai.Balance.String() != "1500000000000000000" || dai.Decimals != 18 {
		t.Fatalf("unexpected dai %+v", dai)
	}
	if len(s.NFTAssets()) != 1 || len(s.NFTTokens()) != 1 || s.NFTTokens()[0].TokenID != "7" {
		t.Fatalf("collectibles not hydrated: %+v %+v", s.NFTAssets(), s.NFTTokens())
	}
}

func TestHydrateEmptyPostgresKeepsEarlierCollections(t *testing.T) {
	src, _ := newTestPostgresSource(t, "")
	yaml, err := ParseFixture([]byte(seed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	st := store.New(logging.Discard())
	if err := Hydrate(context.Background(), st, logging.Discard(), fakeSource{name: "yaml", actions: yaml}, src); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	s := st.State()
	if len(s.NFTAssets()) != 1 || len(s.NFTTokens()) != 1 {
		t.Fatalf("empty tables dropped earlier collections: %+v %+v", s.NFTAssets(), s.NFTTokens())
	}
	if _, ok := s.Safe(); !ok {
		t.Fatalf("empty safes table dropped the earlier safe")
	}
}
