package moderation

import (
	"strings"

	"coachdesk/internal/config"
)

// Guard modes. Block rejects a flagged message outright when a minor is
// involved; Flag persists it and records the matches for operators.
const (
	ModeBlock = "block"
	ModeFlag  = "flag"
)

const FlagTypeSensitiveTerm = "sensitive_term"

// Term is a single sensitive pattern in a workspace policy.
type Term struct {
	Type  string
	Value string
}

// Policy is the workspace-level moderation configuration. It is a plain
// value injected per request, so Evaluate stays a pure function of
// (body, policy, thread classification).
type Policy struct {
	Mode  string
	Terms []Term
}

// PolicyFromConfig builds the default policy from service configuration,
// used when a workspace carries no policy of its own.
func PolicyFromConfig(cfg config.ModerationConfig) Policy {
	terms := make([]Term, 0, len(cfg.Terms))
	for _, t := range cfg.Terms {
		terms = append(terms, Term{Type: FlagTypeSensitiveTerm, Value: t})
	}
	return Policy{Mode: cfg.Mode, Terms: terms}
}

// FlagCandidate is one matched term awaiting persistence as a
// ContentFlag row.
type FlagCandidate struct {
	FlagType     string
	MatchedValue string
}

// Result is the guard's verdict. The guard never rewrites or redacts
// content; it only decides block/allow and reports the matches.
type Result struct {
	Blocked bool
	Flags   []FlagCandidate
}

// Evaluate scans an outgoing message body against the policy. Matching
// is case-insensitive substring. A non-empty match set hard-blocks only
// when the thread involves a minor and the policy mode is block.
func Evaluate(body string, p Policy, minorInvolved bool) Result {
	lowered := strings.ToLower(body)

	var flags []FlagCandidate
	for _, term := range p.Terms {
		if term.Value == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(term.Value)) {
			flagType := term.Type
			if flagType == "" {
				flagType = FlagTypeSensitiveTerm
			}
			flags = append(flags, FlagCandidate{FlagType: flagType, MatchedValue: term.Value})
		}
	}

	return Result{
		Blocked: len(flags) > 0 && minorInvolved && p.Mode == ModeBlock,
		Flags:   flags,
	}
}
