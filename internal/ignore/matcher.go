// Package ignore builds the path-exclusion predicate used by every traversal.
//
// A Matcher combines two rule sources. Base rules come from configuration and are
// path fragments, literal or glob-like, compiled into a single alternation that
// may match anywhere in the slash-separated path relative to the repository root.
// Local rules are the lines of the visited directory's own .gitignore and follow
// gitignore semantics scoped to that directory.
package ignore

import (
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/autodoc/internal/utils"
)

const (
	pathSegmentSeparator = "/"
	commentPrefix        = "#"
	globMetacharacters   = "*?"
)

// Matcher decides whether a path relative to the repository root is excluded.
type Matcher struct {
	baseRules      []string
	localRules     []string
	fragments      *regexp.Regexp
	gitignoreRules gitignore.Matcher
}

// Build compiles baseRules and the raw .gitignore lines of directory into a Matcher.
// The directory is the slash-separated path of the .gitignore owner relative to the
// repository root, "." for the root itself. Build has no side effects and the same
// inputs always produce an equivalent Matcher.
func Build(baseRules []string, localLines []string, directory string) *Matcher {
	normalizedBase := normalizeBaseRules(baseRules)
	normalizedLocal := normalizeGitignoreLines(localLines)

	combinedRules := utils.DeduplicatePatterns(append(append([]string{}, normalizedBase...), normalizedLocal...))
	baseCount := len(utils.DeduplicatePatterns(normalizedBase))

	matcher := &Matcher{
		baseRules:  combinedRules[:baseCount],
		localRules: combinedRules[baseCount:],
	}
	matcher.fragments = compileFragments(matcher.baseRules)

	if len(matcher.localRules) > 0 {
		domain := utils.SplitRelative(directory)
		patterns := make([]gitignore.Pattern, 0, len(matcher.localRules))
		for _, line := range matcher.localRules {
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
		matcher.gitignoreRules = gitignore.NewMatcher(patterns)
	}
	return matcher
}

// Ignored reports whether relativePath is excluded. Directories match
// inclusively: callers prune the subtree of an ignored directory.
func (matcher *Matcher) Ignored(relativePath string, isDirectory bool) bool {
	if matcher == nil {
		return false
	}
	segments := utils.SplitRelative(relativePath)
	if len(segments) == 0 {
		return false
	}
	if matcher.fragments != nil && matcher.fragments.MatchString(matchSubject(segments, isDirectory)) {
		return true
	}
	if matcher.gitignoreRules != nil && matcher.gitignoreRules.Match(segments, isDirectory) {
		return true
	}
	return false
}

// Rules returns the deduplicated rule list in evaluation order, base rules first.
func (matcher *Matcher) Rules() []string {
	if matcher == nil {
		return nil
	}
	rules := make([]string, 0, len(matcher.baseRules)+len(matcher.localRules))
	rules = append(rules, matcher.baseRules...)
	return append(rules, matcher.localRules...)
}

// matchSubject renders segments as "/a/b" for files and "/a/b/" for directories
// so fragments such as "/vendor/" can pin whole segments.
func matchSubject(segments []string, isDirectory bool) string {
	subject := pathSegmentSeparator + strings.Join(segments, pathSegmentSeparator)
	if isDirectory {
		subject += pathSegmentSeparator
	}
	return subject
}

func normalizeBaseRules(rules []string) []string {
	normalized := make([]string, 0, len(rules))
	for _, rule := range rules {
		trimmedRule := strings.TrimSpace(strings.ReplaceAll(rule, "\\", pathSegmentSeparator))
		if trimmedRule == "" {
			continue
		}
		normalized = append(normalized, trimmedRule)
	}
	return normalized
}

func normalizeGitignoreLines(lines []string) []string {
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		normalized = append(normalized, trimmedLine)
	}
	return normalized
}

func compileFragments(rules []string) *regexp.Regexp {
	if len(rules) == 0 {
		return nil
	}
	alternatives := make([]string, 0, len(rules))
	for _, rule := range rules {
		alternatives = append(alternatives, fragmentExpression(rule))
	}
	return regexp.MustCompile("(?:" + strings.Join(alternatives, "|") + ")")
}

// fragmentExpression quotes a literal fragment or translates a glob-like one:
// "**" spans segments, "*" and "?" stay within a segment.
func fragmentExpression(rule string) string {
	if !strings.ContainsAny(rule, globMetacharacters) {
		return regexp.QuoteMeta(rule)
	}
	var expression strings.Builder
	for index := 0; index < len(rule); index++ {
		switch {
		case strings.HasPrefix(rule[index:], "**"):
			expression.WriteString(".*")
			index++
		case rule[index] == '*':
			expression.WriteString("[^/]*")
		case rule[index] == '?':
			expression.WriteString("[^/]")
		default:
			expression.WriteString(regexp.QuoteMeta(rule[index : index+1]))
		}
	}
	return expression.String()
}
