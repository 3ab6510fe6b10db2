package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionType is the tag carried by every action on the wire.
type ActionType string

const (
	ActionAddToken     ActionType = "ADD_TOKEN"
	ActionAddTokens    ActionType = "ADD_TOKENS"
	ActionRemoveToken  ActionType = "REMOVE_TOKEN"
	ActionAddNFTAssets ActionType = "ADD_NFT_ASSETS"
	ActionAddNFTTokens ActionType = "ADD_NFT_TOKENS"
	ActionUpdateSafe   ActionType = "UPDATE_SAFE"
)

// ErrUnknownAction is returned when an action tag has no reducer branch.
var ErrUnknownAction = errors.New("unknown action")

// Action is a named state transition. The set of implementations is closed:
// only types in this package satisfy it, and Reduce handles each of them.
type Action interface {
	Type() ActionType
	action()
}

// AddTokenAction adds a token, replacing any entry with the same address.
type AddTokenAction struct {
	Token Token `json:"token"`
}

// AddTokensAction adds or replaces several tokens in order.
type AddTokensAction struct {
	Tokens []Token `json:"tokens"`
}

// RemoveTokenAction drops the token with the given address.
type RemoveTokenAction struct {
	Address string `json:"address"`
}

// AddNFTAssetsAction replaces the known collectible collections.
type AddNFTAssetsAction struct {
	Assets []NFTAsset `json:"assets"`
}

// AddNFTTokensAction replaces the owned collectible tokens.
type AddNFTTokensAction struct {
	Tokens []NFTToken `json:"tokens"`
}

// UpdateSafeAction sets the current safe slice.
type UpdateSafeAction struct {
	Safe Safe `json:"safe"`
}

func (AddTokenAction) Type() ActionType     { return ActionAddToken }
func (AddTokensAction) Type() ActionType    { return ActionAddTokens }
func (RemoveTokenAction) Type() ActionType  { return ActionRemoveToken }
func (AddNFTAssetsAction) Type() ActionType { return ActionAddNFTAssets }
func (AddNFTTokensAction) Type() ActionType { return ActionAddNFTTokens }
func (UpdateSafeAction) Type() ActionType   { return ActionUpdateSafe }

func (AddTokenAction) action()     {}
func (AddTokensAction) action()    {}
func (RemoveTokenAction) action()  {}
func (AddNFTAssetsAction) action() {}
func (AddNFTTokensAction) action() {}
func (UpdateSafeAction) action()   {}

// AddToken wraps a token in an ADD_TOKEN action. It performs no validation;
// Dispatch validates the token.
func AddToken(token Token) Action {
	return AddTokenAction{Token: token}
}

// AddTokens wraps tokens in an ADD_TOKENS action.
func AddTokens(tokens []Token) Action {
	return AddTokensAction{Tokens: tokens}
}

// RemoveToken builds a REMOVE_TOKEN action.
func RemoveToken(address string) Action {
	return RemoveTokenAction{Address: address}
}

// AddNFTAssets builds an ADD_NFT_ASSETS action.
func AddNFTAssets(assets []NFTAsset) Action {
	return AddNFTAssetsAction{Assets: assets}
}

// AddNFTTokens builds an ADD_NFT_TOKENS action.
func AddNFTTokens(tokens []NFTToken) Action {
	return AddNFTTokensAction{Tokens: tokens}
}

// UpdateSafe builds an UPDATE_SAFE action.
func UpdateSafe(safe Safe) Action {
	return UpdateSafeAction{Safe: safe}
}

// Envelope is the wire shape of an action: {"type": ..., "payload": {...}}.
type Envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeAction renders an action in its wire shape.
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", a.Type(), err)
	}
	return json.Marshal(Envelope{Type: a.Type(), Payload: payload})
}

// DecodeAction parses the wire shape back into a typed action.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}
	if len(env.Payload) == 0 {
		env.Payload = json.RawMessage("{}")
	}

	var a Action
	var err error
	switch env.Type {
	case ActionAddToken:
		var p AddTokenAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	case ActionAddTokens:
		var p AddTokensAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	case ActionRemoveToken:
		var p RemoveTokenAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	case ActionAddNFTAssets:
		var p AddNFTAssetsAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	case ActionAddNFTTokens:
		var p AddNFTTokensAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	case ActionUpdateSafe:
		var p UpdateSafeAction
		err = json.Unmarshal(env.Payload, &p)
		a = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return a, nil
}
