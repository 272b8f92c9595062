package internal

import (
	"sort"
	"strings"
	"unicode"
)

// tagClassifier pairs a predicate over a tag body with the constructor for its node
type tagClassifier struct {
	kind     NodeType
	identify func(trimmed string) bool
	build    func(raw, trimmed string, pos Position) (Node, error)
}

// tagClassifiers are tried in order; the first match wins.
var tagClassifiers = []tagClassifier{
	{kind: NodeTypeFor, identify: isForTag, build: buildForTag},
	{kind: NodeTypeClose, identify: isCloseTag, build: buildCloseTag},
	{kind: NodeTypeWhile, identify: isWhileTag, build: buildWhileTag},
	{kind: NodeTypeComment, identify: isCommentTag, build: buildCommentTag},
}

// ClassifyTag turns the raw body of a {% %} block into its tag node.
// Bodies that match no classifier produce an UnknownTag error.
func ClassifyTag(raw string, pos Position) (Node, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range tagClassifiers {
		if c.identify(trimmed) {
			return c.build(raw, trimmed, pos)
		}
	}
	return nil, newUnknownTagError(raw, pos)
}

func isForTag(trimmed string) bool {
	return strings.HasPrefix(trimmed, TagPrefixFor)
}

func isCloseTag(trimmed string) bool {
	return trimmed == StringValueEmpty
}

func isWhileTag(trimmed string) bool {
	return strings.HasPrefix(trimmed, TagPrefixWhile)
}

func isCommentTag(trimmed string) bool {
	return trimmed == KeywordComment
}

func buildForTag(_, trimmed string, pos Position) (Node, error) {
	targets := FindForTargets(trimmed)
	if len(targets) == 0 {
		return nil, newIncorrectForTagError(trimmed, pos)
	}
	return NewForTag(trimmed, targets, pos), nil
}

func buildCloseTag(raw, _ string, pos Position) (Node, error) {
	return NewCloseTag(raw, pos), nil
}

func buildWhileTag(_, trimmed string, pos Position) (Node, error) {
	condition, doFirst, slow := parseWhileCondition(trimmed)
	return NewWhileTag(trimmed, condition, doFirst, slow, pos), nil
}

func buildCommentTag(_, trimmed string, pos Position) (Node, error) {
	return NewCommentTag(trimmed, pos), nil
}

// FindForTargets collects the identifiers bound by every "for <targets> in"
// clause of src. It works on whitespace-separated words, not on a parsed
// expression, so string literals or nested parentheses that contain the words
// "for" or "in" can confuse it. The result is sorted and free of duplicates.
func FindForTargets(src string) []string {
	found := make(map[string]struct{})
	words := strings.Fields(src)

	for len(words) > 0 {
		forIdx := indexOf(words, KeywordFor)
		inIdx := indexOf(words, KeywordIn)
		if forIdx < 0 || inIdx < 0 {
			break
		}

		var targetList string
		if forIdx+1 < inIdx {
			targetList = strings.Join(words[forIdx+1:inIdx], StringValueEmpty)
		}
		words = words[inIdx+1:]

		for _, piece := range strings.Split(targetList, StrComma) {
			name := keepIdentifierChars(piece)
			if isIdentifier(name) {
				found[name] = struct{}{}
			}
		}
	}

	targets := make([]string, 0, len(found))
	for name := range found {
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return targets
}

// parseWhileCondition splits "while [dofirst] <cond> [slow]" into its parts
func parseWhileCondition(trimmed string) (condition string, doFirst, slow bool) {
	condition = strings.TrimSpace(trimmed[len(TagPrefixWhile):])

	if idx := strings.IndexFunc(condition, unicode.IsSpace); idx > 0 && condition[:idx] == KeywordDoFirst {
		condition = strings.TrimSpace(condition[idx:])
		doFirst = true
	}

	if idx := strings.LastIndexFunc(condition, unicode.IsSpace); idx > 0 && condition[idx+1:] == KeywordSlow {
		condition = strings.TrimSpace(condition[:idx])
		slow = true
	}

	return condition, doFirst, slow
}

func indexOf(words []string, word string) int {
	for i, w := range words {
		if w == word {
			return i
		}
	}
	return -1
}

func keepIdentifierChars(s string) string {
	return strings.Map(func(r rune) rune {
		if isIdentifierRune(r) {
			return r
		}
		return -1
	}, s)
}

func isIdentifierRune(r rune) bool {
	return r == CharUnderscore || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentifier(s string) bool {
	if s == StringValueEmpty {
		return false
	}
	for i, r := range s {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !isIdentifierRune(r) {
			return false
		}
	}
	return true
}
