// Package guard detects builds triggered by the generator's own commits.
// A CI job that commits the generated page would otherwise rebuild forever.
package guard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultPattern matches the message of commits pushed by the CI build.
const DefaultPattern = `^Travis build: \d+`

// ErrInvalidPattern indicates the configured message pattern does not compile.
var ErrInvalidPattern = errors.New("invalid guard pattern")

// LookupFunc reports an environment variable's value and presence.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// MessageSource supplies a commit message when the environment has none.
type MessageSource func() (string, error)

// Rule describes when a build must be skipped.
type Rule struct {
	// CIVars must all be present (any value) for the build to count as CI.
	CIVars []string
	// MessageVar holds the triggering commit message.
	MessageVar string
	// Pattern is matched against the commit message.
	Pattern *regexp.Regexp
}

// Decision is the outcome of Check.
type Decision struct {
	Skip    bool
	Reason  string
	Message string
}

// DefaultRule returns the Travis CI rule.
func DefaultRule() Rule {
	return Rule{
		CIVars:     []string{"TRAVIS", "CI"},
		MessageVar: "TRAVIS_COMMIT_MESSAGE",
		Pattern:    regexp.MustCompile(DefaultPattern),
	}
}

// NewRule builds a rule from configuration values. Empty values keep the
// defaults.
func NewRule(ciVars []string, messageVar, pattern string) (Rule, error) {
	rule := DefaultRule()
	if len(ciVars) > 0 {
		rule.CIVars = ciVars
	}
	if messageVar != "" {
		rule.MessageVar = messageVar
	}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		rule.Pattern = re
	}
	return rule, nil
}

// InCI reports whether every CI variable is present.
func (r Rule) InCI(lookup LookupFunc) bool {
	if len(r.CIVars) == 0 {
		return false
	}
	for _, name := range r.CIVars {
		if _, ok := lookup(name); !ok {
			return false
		}
	}
	return true
}

// Check decides whether the build should be skipped. fallback, when
// non-nil, is consulted only in CI and only if the message variable is
// empty; its errors are ignored since the guard must never block a build.
func (r Rule) Check(lookup LookupFunc, fallback MessageSource) Decision {
	if !r.InCI(lookup) {
		return Decision{}
	}

	message, _ := lookup(r.MessageVar)
	if strings.TrimSpace(message) == "" && fallback != nil {
		if m, err := fallback(); err == nil {
			message = m
		}
	}

	if r.Pattern == nil || !r.Pattern.MatchString(message) {
		return Decision{Message: message}
	}
	return Decision{
		Skip:    true,
		Reason:  "parent commit is a Travis build!",
		Message: message,
	}
}

// HeadCommitMessage returns a MessageSource reading the HEAD commit of the
// git repository containing dir.
func HeadCommitMessage(dir string) MessageSource {
	return func() (string, error) {
		repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return "", fmt.Errorf("opening repository: %w", err)
		}
		ref, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("resolving HEAD: %w", err)
		}
		commit, err := repo.CommitObject(ref.Hash())
		if err != nil {
			return "", fmt.Errorf("reading HEAD commit: %w", err)
		}
		return commit.Message, nil
	}
}
