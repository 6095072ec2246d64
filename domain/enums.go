package domain

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TokenUsage controls whether a refresh token handle changes on use.
type TokenUsage int

const (
	// TokenUsageReUse keeps the same refresh token handle on refresh.
	TokenUsageReUse TokenUsage = 0
	// TokenUsageOneTimeOnly issues a new refresh token handle on every refresh.
	TokenUsageOneTimeOnly TokenUsage = 1
)

// TokenExpiration selects how refresh token lifetimes are computed.
type TokenExpiration int

const (
	TokenExpirationSliding  TokenExpiration = 0
	TokenExpirationAbsolute TokenExpiration = 1
)

// AccessTokenType selects self-contained or reference access tokens.
type AccessTokenType int

const (
	AccessTokenTypeJwt       AccessTokenType = 0
	AccessTokenTypeReference AccessTokenType = 1
)

func (u TokenUsage) String() string {
	switch u {
	case TokenUsageReUse:
		return "ReUse"
	case TokenUsageOneTimeOnly:
		return "OneTimeOnly"
	}
	return fmt.Sprintf("TokenUsage(%d)", int(u))
}

func (e TokenExpiration) String() string {
	switch e {
	case TokenExpirationSliding:
		return "Sliding"
	case TokenExpirationAbsolute:
		return "Absolute"
	}
	return fmt.Sprintf("TokenExpiration(%d)", int(e))
}

func (t AccessTokenType) String() string {
	switch t {
	case AccessTokenTypeJwt:
		return "Jwt"
	case AccessTokenTypeReference:
		return "Reference"
	}
	return fmt.Sprintf("AccessTokenType(%d)", int(t))
}

// ParseTokenUsage maps a stored integer to a TokenUsage.
func ParseTokenUsage(v int) (TokenUsage, error) {
	switch u := TokenUsage(v); u {
	case TokenUsageReUse, TokenUsageOneTimeOnly:
		return u, nil
	}
	return 0, fmt.Errorf("token usage %d: %w", v, ErrUnknownEnumValue)
}

// ParseTokenExpiration maps a stored integer to a TokenExpiration.
func ParseTokenExpiration(v int) (TokenExpiration, error) {
	switch e := TokenExpiration(v); e {
	case TokenExpirationSliding, TokenExpirationAbsolute:
		return e, nil
	}
	return 0, fmt.Errorf("token expiration %d: %w", v, ErrUnknownEnumValue)
}

// ParseAccessTokenType maps a stored integer to an AccessTokenType.
func ParseAccessTokenType(v int) (AccessTokenType, error) {
	switch t := AccessTokenType(v); t {
	case AccessTokenTypeJwt, AccessTokenTypeReference:
		return t, nil
	}
	return 0, fmt.Errorf("access token type %d: %w", v, ErrUnknownEnumValue)
}

// UnmarshalYAML accepts either the enum name ("OneTimeOnly") or its integer.
func (u *TokenUsage) UnmarshalYAML(value *yaml.Node) error {
	v, err := scalarEnum(value, map[string]int{"reuse": 0, "onetimeonly": 1})
	if err != nil {
		return fmt.Errorf("token usage: %w", err)
	}
	*u, err = ParseTokenUsage(v)
	return err
}

// UnmarshalYAML accepts either the enum name ("Sliding") or its integer.
func (e *TokenExpiration) UnmarshalYAML(value *yaml.Node) error {
	v, err := scalarEnum(value, map[string]int{"sliding": 0, "absolute": 1})
	if err != nil {
		return fmt.Errorf("token expiration: %w", err)
	}
	*e, err = ParseTokenExpiration(v)
	return err
}

// UnmarshalYAML accepts either the enum name ("Reference") or its integer.
func (t *AccessTokenType) UnmarshalYAML(value *yaml.Node) error {
	v, err := scalarEnum(value, map[string]int{"jwt": 0, "reference": 1})
	if err != nil {
		return fmt.Errorf("access token type: %w", err)
	}
	*t, err = ParseAccessTokenType(v)
	return err
}

func scalarEnum(value *yaml.Node, names map[string]int) (int, error) {
	if value.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: expected a scalar: %w", value.Line, ErrUnknownEnumValue)
	}
	if v, ok := names[strings.ToLower(value.Value)]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(value.Value)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q: %w", value.Line, value.Value, ErrUnknownEnumValue)
	}
	return v, nil
}
