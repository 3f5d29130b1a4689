package domain

import "strings"

// AggregationPolicy selects how sub-daily readings of one datatype
// collapse into a single daily value.
type AggregationPolicy int

const (
	// PolicyLast keeps the most recent reading of the day. Appropriate
	// for instantaneous quantities such as pressure or temperature.
	PolicyLast AggregationPolicy = iota
	// PolicySum adds all readings of the day. Appropriate for
	// accumulative quantities such as precipitation.
	PolicySum
)

func (p AggregationPolicy) String() string {
	switch p {
	case PolicySum:
		return "sum"
	case PolicyLast:
		return "last"
	default:
		return "unknown"
	}
}

// PolicyRule assigns a policy to every datatype whose tag contains
// Substring.
type PolicyRule struct {
	Substring string
	Policy    AggregationPolicy
}

// PolicyMap resolves the aggregation policy for a datatype tag. Rules
// are evaluated in order; the first substring match wins, otherwise
// Fallback applies.
type PolicyMap struct {
	Rules    []PolicyRule
	Fallback AggregationPolicy
}

// DefaultPolicyMap sums precipitation-like quantities and keeps the last
// reading of the day for everything else.
func DefaultPolicyMap() PolicyMap {
	return PolicyMap{
		Rules:    []PolicyRule{{Substring: "precipitation", Policy: PolicySum}},
		Fallback: PolicyLast,
	}
}

// PolicyFor returns the policy that applies to the given datatype tag.
func (m PolicyMap) PolicyFor(datatype string) AggregationPolicy {
	for _, r := range m.Rules {
		if strings.Contains(datatype, r.Substring) {
			return r.Policy
		}
	}
	return m.Fallback
}
