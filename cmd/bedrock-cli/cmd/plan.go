// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/contracts/vault"
)

type Plan struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	Description string   `json:"description" yaml:"description"`
	Endpoint    Endpoint `json:"endpoint" yaml:"endpoint"`
	// Contract is the contract name for a deploy step and the account (or
	// step_N reference) for a call.
	Contract string `json:"contract" yaml:"contract"`
	Method   string `json:"method,omitempty" yaml:"method,omitempty"`
	// Seed is the creation data of a deploy step.
	Seed     string      `json:"seed,omitempty" yaml:"seed,omitempty"`
	MaxUnits uint64      `json:"maxUnits,omitempty" yaml:"maxUnits,omitempty"`
	Params   []Parameter `json:"params,omitempty" yaml:"params,omitempty"`
	Require  *Require    `json:"require,omitempty" yaml:"require,omitempty"`
}

type Endpoint string

const (
	// Deploy a new contract instance.
	EndpointDeploy Endpoint = "deploy"
	// Call an entry point and keep what it writes.
	EndpointExecute Endpoint = "execute"
	// Call an entry point and discard what it writes.
	EndpointReadOnly Endpoint = "readonly"
)

type Require struct {
	Result ResultAssertion `json:"result" yaml:"result"`
}

type ResultAssertion struct {
	Operator string `json:"operator" yaml:"operator"`
	Value    string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

type Parameter struct {
	// Only used for readability.
	Name  string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type  Type        `json:"type" yaml:"type"`
	Value interface{} `json:"value" yaml:"value"`
}

type Type string

const (
	Uint32 Type = "u32"
	// An account (or step_N reference) passed as its 32-bit address hash.
	Address Type = "address"
)

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}

func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i := range p.Steps {
		if err := p.Steps[i].verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	if len(s.Contract) == 0 {
		return fmt.Errorf("%w: missing contract", ErrInvalidPlan)
	}
	switch s.Endpoint {
	case EndpointDeploy:
		if len(s.Params) > 0 {
			return fmt.Errorf("%w: deploy takes no params", ErrInvalidParamType)
		}
	case EndpointExecute, EndpointReadOnly:
		if len(s.Method) == 0 {
			return fmt.Errorf("%w: missing method", ErrInvalidPlan)
		}
		for _, param := range s.Params {
			if param.Type != Uint32 && param.Type != Address {
				return fmt.Errorf("%w: %s", ErrInvalidParamType, param.Type)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, s.Endpoint)
	}
	if s.Require != nil {
		if _, err := validateAssertion(0, &s.Require.Result); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion reports whether [actual] satisfies [assertion].
func validateAssertion(actual int32, assertion *ResultAssertion) (bool, error) {
	value, err := strconv.ParseInt(assertion.Value, 10, 64)
	if err != nil {
		return false, err
	}
	a := int64(actual)
	switch Operator(assertion.Operator) {
	case NumericGt:
		return a > value, nil
	case NumericLt:
		return a < value, nil
	case NumericGe:
		return a >= value, nil
	case NumericLe:
		return a <= value, nil
	case NumericEq:
		return a == value, nil
	case NumericNe:
		return a != value, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, assertion.Operator)
	}
}

// parseUint32 accepts decimal and 0x-prefixed hex.
func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// toUint32 converts a decoded plan value. JSON numbers decode as float64,
// YAML integers as int.
func toUint32(v interface{}) (uint32, error) {
	switch n := v.(type) {
	case int:
		if n < 0 || uint64(n) > uint64(consts.MaxUint32) {
			return 0, fmt.Errorf("%w: %d out of range", ErrFailedParamTypeCast, n)
		}
		return uint32(n), nil
	case float64:
		if n < 0 || n > float64(consts.MaxUint32) || n != float64(uint32(n)) {
			return 0, fmt.Errorf("%w: %v out of range", ErrFailedParamTypeCast, n)
		}
		return uint32(n), nil
	case string:
		return parseUint32(n)
	default:
		return 0, fmt.Errorf("%w: %T", ErrFailedParamTypeCast, v)
	}
}

// parseCallArg converts a command line argument: an account becomes its
// address hash, anything else must be a u32.
func parseCallArg(s string) (uint32, error) {
	if strings.HasPrefix(s, "0x") && len(s) == 2+2*codec.AddressLen {
		addr, err := codec.ParseAddress(s)
		if err != nil {
			return 0, err
		}
		return vault.AddressHash(addr), nil
	}
	return parseUint32(s)
}
