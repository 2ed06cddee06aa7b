// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"strings"
)

// Policy is a single attribute match rule: the named claim in the verified
// user profile must equal, or contain, the required value.
type Policy struct {
	// Claim is the claim name to inspect.
	Claim string

	// Value is the required value.
	Value string
}

// ParsePolicies converts configured "claim=value" pairs into policies.
func ParsePolicies(raw []string) ([]Policy, error) {
	policies := make([]Policy, 0, len(raw))
	for _, r := range raw {
		claim, value, ok := strings.Cut(strings.TrimSpace(r), "=")
		if !ok || claim == "" {
			return nil, fmt.Errorf("policy %q is not of the form claim=value", r)
		}
		policies = append(policies, Policy{Claim: claim, Value: value})
	}
	return policies, nil
}

// Evaluate reports whether the claims satisfy any one of the policies.
// A collection claim matches by membership, a scalar claim by equality;
// an absent claim simply does not match. An empty policy list admits any
// verified user.
func Evaluate(policies []Policy, claims map[string]any) bool {
	if len(policies) == 0 {
		return true
	}
	for _, p := range policies {
		value, ok := claims[p.Claim]
		if !ok {
			continue
		}
		if claimMatches(value, p.Value) {
			return true
		}
	}
	return false
}

func claimMatches(claim any, required string) bool {
	switch v := claim.(type) {
	case string:
		return v == required
	case []string:
		for _, member := range v {
			if member == required {
				return true
			}
		}
	case []any:
		for _, member := range v {
			if claimMatches(member, required) {
				return true
			}
		}
	default:
		return fmt.Sprintf("%v", v) == required
	}
	return false
}
