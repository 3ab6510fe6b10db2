package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/safe-ui/safe_assets/internal/store"
)

// Fixture is the on-disk layout of a seed file.
type Fixture struct {
	Safe         *SafeRecord         `yaml:"safe"`
	Tokens       []TokenRecord       `yaml:"tokens"`
	Assets       []AssetRecord       `yaml:"assets"`
	Collectibles []CollectibleRecord `yaml:"collectibles"`
}

// SafeRecord is a seeded safe.
type SafeRecord struct {
	Address    string   `yaml:"address"`
	Name       string   `yaml:"name"`
	EthBalance string   `yaml:"ethBalance"`
	Owners     []string `yaml:"owners"`
	Threshold  int      `yaml:"threshold"`
}

// TokenRecord is a seeded fungible token. Balance is in base units.
type TokenRecord struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Decimals int    `yaml:"decimals"`
	Balance  string `yaml:"balance"`
	LogoURI  string `yaml:"logoUri"`
}

// AssetRecord is a seeded collectible collection.
type AssetRecord struct {
	Address        string `yaml:"address"`
	Slug           string `yaml:"slug"`
	Name           string `yaml:"name"`
	Symbol         string `yaml:"symbol"`
	Description    string `yaml:"description"`
	Image          string `yaml:"image"`
	NumberOfTokens int    `yaml:"numberOfTokens"`
}

// CollectibleRecord is a seeded collectible token.
type CollectibleRecord struct {
	TokenID      string `yaml:"tokenId"`
	AssetAddress string `yaml:"assetAddress"`
	AssetName    string `yaml:"assetName"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Image        string `yaml:"image"`
	Color        string `yaml:"color"`
}

// YAMLSource reads a seed file from disk.
type YAMLSource struct {
	path string
}

// NewYAMLSource builds a source for the given file.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Name identifies the source in logs.
func (s *YAMLSource) Name() string { return "yaml:" + s.path }

// Load parses the file into actions.
func (s *YAMLSource) Load(_ context.Context) ([]store.Action, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture converts a YAML document into store actions.
func ParseFixture(data []byte) ([]store.Action, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	var actions []store.Action
	if fx.Safe != nil {
		actions = append(actions, store.UpdateSafe(store.Safe{
			Address:    fx.Safe.Address,
			Name:       fx.Safe.Name,
			EthBalance: fx.Safe.EthBalance,
			Owners:     fx.Safe.Owners,
			Threshold:  fx.Safe.Threshold,
		}))
	}

	if len(fx.Tokens) > 0 {
		tokens := make([]store.Token, 0, len(fx.Tokens))
		for _, r := range fx.Tokens {
			balance := decimal.Zero
			if r.Balance != "" {
				b, err := decimal.NewFromString(r.Balance)
				if err != nil {
					return nil, fmt.Errorf("token %s balance: %w", r.Address, err)
				}
				balance = b
			}
			tokens = append(tokens, store.Token{
				Address:  r.Address,
				Symbol:   r.Symbol,
				Name:     r.Name,
				Decimals: r.Decimals,
				Balance:  balance,
				LogoURI:  r.LogoURI,
			})
		}
		actions = append(actions, store.AddTokens(tokens))
	}

	if len(fx.Assets) > 0 {
		assets := make([]store.NFTAsset, 0, len(fx.Assets))
		for _, r := range fx.Assets {
			assets = append(assets, store.NFTAsset{
				Address:        r.Address,
				Slug:           r.Slug,
				Name:           r.Name,
				Symbol:         r.Symbol,
				Description:    r.Description,
				Image:          r.Image,
				NumberOfTokens: r.NumberOfTokens,
			})
		}
		actions = append(actions, store.AddNFTAssets(assets))
	}

	if len(fx.Collectibles) > 0 {
		nfts := make([]store.NFTToken, 0, len(fx.Collectibles))
		for _, r := range fx.Collectibles {
			nfts = append(nfts, store.NFTToken{
				TokenID:      r.TokenID,
				AssetAddress: r.AssetAddress,
				AssetName:    r.AssetName,
				Name:         r.Name,
				Description:  r.Description,
				Image:        r.Image,
				Color:        r.Color,
			})
		}
		actions = append(actions, store.AddNFTTokens(nfts))
	}

	return actions, nil
}
