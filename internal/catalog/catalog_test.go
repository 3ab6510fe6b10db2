package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/safe-ui/safe_assets/internal/logging"
	"github.com/safe-ui/safe_assets/internal/store"
)

const seed = `
safe:
  address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
  name: Treasury
  ethBalance: "3.2"
  owners: ["0x1", "0x2"]
  threshold: 2
tokens:
  - address: "0x6b175474e89094c44da98b954eedeac495271d0f"
    symbol: DAI
    name: Dai Stablecoin
    decimals: 18
    balance: "1500000000000000000"
assets:
  - address: "0xABC"
    slug: kitties
    name: Kitties
collectibles:
  - tokenId: "7"
    assetAddress: "0xABC"
    name: "Kitty #7"
`

type fakeSource struct {
	name    string
	actions []store.Action
	err     error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Load(context.Context) ([]store.Action, error) { return f.actions, f.err }

func TestParseFixtureEmitsActionsInOrder(t *testing.T) {
	actions, err := ParseFixture([]byte(seed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []store.ActionType{store.ActionUpdateSafe, store.ActionAddTokens, store.ActionAddNFTAssets, store.ActionAddNFTTokens}
	if len(actions) != len(want) {
		t.Fatalf("expected %d actions, got %d", len(want), len(actions))
	}
	for i, a := range actions {
		if a.Type() != want[i] {
			t.Fatalf("action %d: expected %s got %s", i, want[i], a.Type())
		}
	}
}

func TestParseFixtureRejectsBadBalance(t *testing.T) {
	_, err := ParseFixture([]byte(`
tokens:
  - address: "0x1"
    balance: "lots"
`))
	if err == nil {
		t.Fatalf("expected balance error")
	}
}

func TestParseFixtureEmptyDocument(t *testing.T) {
	actions, err := ParseFixture([]byte(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %d", len(actions))
	}
}

func TestHydrateFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	st := store.New(logging.Discard())
	if err := Hydrate(context.Background(), st, logging.Discard(), NewYAMLSource(path)); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	s := st.State()
	safe, ok := s.Safe()
	if !ok || safe.Address != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" || safe.EthBalance != "3.2" {
		t.Fatalf("unexpected safe %+v", safe)
	}
	dai, ok := s.Token("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	if !ok || dai.Balance.String() != "1500000000000000000" {
		t.Fatalf("unexpected dai %+v", dai)
	}
	if len(s.NFTAssets()) != 1 || len(s.NFTTokens()) != 1 {
		t.Fatalf("collectibles not hydrated")
	}
}

func TestHydrateMissingFile(t *testing.T) {
	st := store.New(nil)
	err := Hydrate(context.Background(), st, nil, NewYAMLSource(filepath.Join(t.TempDir(), "absent.yaml")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestHydrateStopsOnRejectedAction(t *testing.T) {
	st := store.New(nil)
	src := fakeSource{name: "fake", actions: []store.Action{
		store.AddToken(store.Token{Address: "0x1", Symbol: "ONE"}),
		store.AddToken(store.Token{Symbol: "NOADDR"}),
		store.AddToken(store.Token{Address: "0x3", Symbol: "THREE"}),
	}}

	err := Hydrate(context.Background(), st, nil, src)
	if !errors.Is(err, store.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if got := len(st.State().Tokens()); got != 1 {
		t.Fatalf("expected only the first token applied, got %d", got)
	}
}

func TestHydrateSourceError(t *testing.T) {
	boom := errors.New("boom")
	second := fakeSource{name: "second", actions: []store.Action{store.AddToken(store.Token{Address: "0x1"})}}

	err := Hydrate(context.Background(), store.New(nil), nil, fakeSource{name: "first", err: boom}, second)
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
