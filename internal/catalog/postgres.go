package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/safe-ui/safe_assets/internal/store"
)

// Schema creates the tables PostgresSource reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS safes (
    address     TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    eth_balance TEXT NOT NULL DEFAULT '',
    owners      TEXT[] NOT NULL DEFAULT '{}',
    threshold   INTEGER NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS tokens (
    address    TEXT PRIMARY KEY,
    symbol     TEXT NOT NULL DEFAULT '',
    name       TEXT NOT NULL DEFAULT '',
    decimals   INTEGER NOT NULL DEFAULT 0 CHECK (decimals >= 0),
    balance    NUMERIC(78, 0) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    logo_uri   TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS nft_assets (
    address          TEXT PRIMARY KEY,
    slug             TEXT NOT NULL UNIQUE,
    name             TEXT NOT NULL DEFAULT '',
    symbol           TEXT NOT NULL DEFAULT '',
    description      TEXT NOT NULL DEFAULT '',
    image            TEXT NOT NULL DEFAULT '',
    number_of_tokens INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS nft_tokens (
    asset_address TEXT NOT NULL,
    token_id      TEXT NOT NULL,
    asset_name    TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    image         TEXT NOT NULL DEFAULT '',
    color         TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (asset_address, token_id)
);`

// PostgresSource loads the safe, its tokens and its collectibles from PostgreSQL.
type PostgresSource struct {
	db       *pgxpool.Pool
	safeAddr string
}

// NewPostgresSource builds a source reading the given safe. An empty safe
// address loads the most recently updated safe.
func NewPostgresSource(db *pgxpool.Pool, safeAddr string) *PostgresSource {
	return &PostgresSource{db: db, safeAddr: safeAddr}
}

// Name identifies the source in logs.
func (s *PostgresSource) Name() string { return "postgres" }

// EnsureSchema creates missing tables.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

// Load reads every table and returns the matching actions.
func (s *PostgresSource) Load(ctx context.Context) ([]store.Action, error) {
	var actions []store.Action

	safe, err := s.loadSafe(ctx)
	switch {
	case err == nil:
		actions = append(actions, store.UpdateSafe(safe))
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	tokens, err := s.loadTokens(ctx)
	if err != nil {
		return nil, err
	}
	if len(tokens) > 0 {
		actions = append(actions, store.AddTokens(tokens))
	}

	assets, err := s.loadAssets(ctx)
	if err != nil {
		return nil, err
	}
	nfts, err := s.loadNFTTokens(ctx)
	if err != nil {
		return nil, err
	}
	// Empty tables leave collections from earlier sources in place.
	if len(assets) > 0 {
		actions = append(actions, store.AddNFTAssets(assets))
	}
	if len(nfts) > 0 {
		actions = append(actions, store.AddNFTTokens(nfts))
	}

	return actions, nil
}

func (s *PostgresSource) loadSafe(ctx context.Context) (store.Safe, error) {
	query := `SELECT address, name, eth_balance, owners, threshold FROM safes`
	var args []any
	if s.safeAddr != "" {
		query += ` WHERE address = $1`
		args = append(args, store.NormalizeAddress(s.safeAddr))
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	var safe store.Safe
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&safe.Address, &safe.Name, &safe.EthBalance, &safe.Owners, &safe.Threshold); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Safe{}, err
		}
		return store.Safe{}, fmt.Errorf("load safe: %w", err)
	}
	return safe, nil
}

func (s *PostgresSource) loadTokens(ctx context.Context) ([]store.Token, error) {
	rows, err := s.db.Query(ctx, `SELECT address, symbol, name, decimals, balance::text, logo_uri
        FROM tokens ORDER BY created_at, address`)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	defer rows.Close()

	var tokens []store.Token
	for rows.Next() {
		var t store.Token
		var balance string
		if err := rows.Scan(&t.Address, &t.Symbol, &t.Name, &t.Decimals, &balance, &t.LogoURI); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		t.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("token %s balance: %w", t.Address, err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *PostgresSource) loadAssets(ctx context.Context) ([]store.NFTAsset, error) {
	rows, err := s.db.Query(ctx, `SELECT address, slug, name, symbol, description, image, number_of_tokens
        FROM nft_assets ORDER BY created_at, slug`)
	if err != nil {
		return nil, fmt.Errorf("load nft assets: %w", err)
	}
	defer rows.Close()

	var assets []store.NFTAsset
	for rows.Next() {
		var a store.NFTAsset
		if err := rows.Scan(&a.Address, &a.Slug, &a.Name, &a.Symbol, &a.Description, &a.Image, &a.NumberOfTokens); err != nil {
			return nil, fmt.Errorf("scan nft asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *PostgresSource) loadNFTTokens(ctx context.Context) ([]store.NFTToken, error) {
	rows, err := s.db.Query(ctx, `SELECT token_id, asset_address, asset_name, name, description, image, color
        FROM nft_tokens ORDER BY created_at, asset_address, token_id`)
	if err != nil {
		return nil, fmt.Errorf("load nft tokens: %w", err)
	}
	defer rows.Close()

	var tokens []store.NFTToken
	for rows.Next() {
		var t store.NFTToken
		if err := rows.Scan(&t.TokenID, &t.AssetAddress, &t.AssetName, &t.Name, &t.Description, &t.Image, &t.Color); err != nil {
			return nil, fmt.Errorf("scan nft token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
