package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidToken is returned for a malformed fungible token payload.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCollectible is returned for malformed collectible assets or tokens.
	ErrInvalidCollectible = errors.New("invalid collectible")
	// ErrInvalidSafe is returned for a malformed safe payload.
	ErrInvalidSafe = errors.New("invalid safe")
)

// SlugSeparator joins a collection slug and a token id in grid keys, so
// slugs may not contain it.
const SlugSeparator = "_"

// Validator checks action payloads before they reach the reducer.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a payload validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Check returns a wrapped sentinel error describing the first invalid record.
func (val *Validator) Check(a Action) error {
	switch act := a.(type) {
	case AddTokenAction:
		return val.token(act.Token)
	case AddTokensAction:
		for i, t := range act.Tokens {
			if err := val.token(t); err != nil {
				return fmt.Errorf("tokens[%d]: %w", i, err)
			}
		}
	case RemoveTokenAction:
		if strings.TrimSpace(act.Address) == "" {
			return fmt.Errorf("%w: address is required", ErrInvalidToken)
		}
	case AddNFTAssetsAction:
		return val.assets(act.Assets)
	case AddNFTTokensAction:
		return val.nftTokens(act.Tokens)
	case UpdateSafeAction:
		if err := val.v.Struct(act.Safe); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSafe, describe(err))
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return nil
}

func (val *Validator) token(t Token) error {
	if strings.TrimSpace(t.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidToken)
	}
	if err := val.v.Struct(t); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidToken, describe(err))
	}
	if t.Balance.IsNegative() {
		return fmt.Errorf("%w: balance must not be negative", ErrInvalidToken)
	}
	if !t.Balance.IsInteger() {
		return fmt.Errorf("%w: balance must be an integer amount of base units", ErrInvalidToken)
	}
	return nil
}

func (val *Validator) assets(assets []NFTAsset) error {
	addresses := make(map[string]struct{}, len(assets))
	slugs := make(map[string]struct{}, len(assets))
	for i, a := range assets {
		if err := val.v.Struct(a); err != nil {
			return fmt.Errorf("assets[%d]: %w: %s", i, ErrInvalidCollectible, describe(err))
		}
		addr := NormalizeAddress(a.Address)
		if _, dup := addresses[addr]; dup {
			return fmt.Errorf("assets[%d]: %w: duplicate address %s", i, ErrInvalidCollectible, addr)
		}
		if strings.Contains(a.Slug, SlugSeparator) {
			return fmt.Errorf("assets[%d]: %w: slug %q must not contain %q", i, ErrInvalidCollectible, a.Slug, SlugSeparator)
		}
		if _, dup := slugs[a.Slug]; dup {
			return fmt.Errorf("assets[%d]: %w: duplicate slug %s", i, ErrInvalidCollectible, a.Slug)
		}
		addresses[addr] = struct{}{}
		slugs[a.Slug] = struct{}{}
	}
	return nil
}

func (val *Validator) nftTokens(tokens []NFTToken) error {
	type key struct{ asset, id string }
	seen := make(map[key]struct{}, len(tokens))
	for i, t := range tokens {
		if err := val.v.Struct(t); err != nil {
			return fmt.Errorf("tokens[%d]: %w: %s", i, ErrInvalidCollectible, describe(err))
		}
		k := key{asset: NormalizeAddress(t.AssetAddress), id: t.TokenID}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("tokens[%d]: %w: duplicate token %s/%s", i, ErrInvalidCollectible, k.asset, k.id)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", e.Field(), e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
