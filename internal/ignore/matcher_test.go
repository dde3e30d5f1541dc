package ignore_test

import (
	"reflect"
	"testing"

	"github.com/temirov/autodoc/internal/ignore"
)

var defaultRules = []string{"vendor", ".git", "results", ".ansible", ".gitignore", ".venv", "README.md", ".pdf", "go.mod", "go.sum"}

// TestIgnoredBaseRules verifies fragment matching anywhere in the relative path.
func TestIgnoredBaseRules(testingHandle *testing.T) {
	matcher := ignore.Build(defaultRules, nil, ".")
	testCases := []struct {
		testName     string
		relativePath string
		isDirectory  bool
		expected     bool
	}{
		{testName: "git directory", relativePath: ".git", isDirectory: true, expected: true},
		{testName: "file inside git directory", relativePath: ".git/config", isDirectory: false, expected: true},
		{testName: "nested vendor", relativePath: "pkg/vendor/lib.go", isDirectory: false, expected: true},
		{testName: "readme", relativePath: "sub/README.md", isDirectory: false, expected: true},
		{testName: "pdf suffix", relativePath: "docs/manual.pdf", isDirectory: false, expected: true},
		{testName: "plain source", relativePath: "pkg/main.py", isDirectory: false, expected: false},
		{testName: "dot is literal", relativePath: "xgit/file.go", isDirectory: false, expected: false},
		{testName: "root is never ignored", relativePath: ".", isDirectory: true, expected: false},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.testName, func(testingHandle *testing.T) {
			actual := matcher.Ignored(testCase.relativePath, testCase.isDirectory)
			if actual != testCase.expected {
				testingHandle.Fatalf("Ignored(%q) = %v, want %v", testCase.relativePath, actual, testCase.expected)
			}
		})
	}
}

// TestIgnoredGlobAndSegmentRules verifies glob translation and segment-pinned fragments.
func TestIgnoredGlobAndSegmentRules(testingHandle *testing.T) {
	matcher := ignore.Build([]string{"*.lock", "/build/", "gen/**/out"}, nil, ".")
	if !matcher.Ignored("web/yarn.lock", false) {
		testingHandle.Fatalf("expected *.lock to match web/yarn.lock")
	}
	if !matcher.Ignored("build", true) {
		testingHandle.Fatalf("expected /build/ to match the build directory")
	}
	if matcher.Ignored("buildtools", true) {
		testingHandle.Fatalf("did not expect /build/ to match buildtools")
	}
	if !matcher.Ignored("gen/a/b/out", true) {
		testingHandle.Fatalf("expected ** to span segments")
	}
	if matcher.Ignored("web/app.js", false) {
		testingHandle.Fatalf("did not expect web/app.js to be ignored")
	}
}

// TestIgnoredLocalGitignore verifies gitignore lines are scoped to their directory.
func TestIgnoredLocalGitignore(testingHandle *testing.T) {
	localLines := []string{"# comment", "", "build/", "*.log", "!keep.log"}
	matcher := ignore.Build(nil, localLines, "sub")

	if !matcher.Ignored("sub/build", true) {
		testingHandle.Fatalf("expected sub/build to be ignored")
	}
	if !matcher.Ignored("sub/app.log", false) {
		testingHandle.Fatalf("expected sub/app.log to be ignored")
	}
	if matcher.Ignored("sub/keep.log", false) {
		testingHandle.Fatalf("expected negated sub/keep.log to be kept")
	}
	if matcher.Ignored("other/app.log", false) {
		testingHandle.Fatalf("did not expect rules of sub to apply to other")
	}
}

// TestBuildDeduplicatesRules verifies that local lines repeating base rules are dropped.
func TestBuildDeduplicatesRules(testingHandle *testing.T) {
	matcher := ignore.Build([]string{"vendor", "vendor", " results "}, []string{"vendor", "tmp/"}, ".")
	expectedRules := []string{"vendor", "results", "tmp/"}
	if !reflect.DeepEqual(matcher.Rules(), expectedRules) {
		testingHandle.Fatalf("unexpected rules: got %v want %v", matcher.Rules(), expectedRules)
	}
}

// TestIgnoredIsIdempotent verifies repeated evaluation and rebuilding yield the same answer.
func TestIgnoredIsIdempotent(testingHandle *testing.T) {
	paths := []string{"a/vendor/x.go", "a/b.py", "tmp", "tmp/file.txt", "notes.log"}
	first := ignore.Build(defaultRules, []string{"tmp/", "*.log"}, ".")
	second := ignore.Build(defaultRules, []string{"tmp/", "*.log"}, ".")
	for _, candidatePath := range paths {
		for _, isDirectory := range []bool{false, true} {
			initial := first.Ignored(candidatePath, isDirectory)
			if repeated := first.Ignored(candidatePath, isDirectory); repeated != initial {
				testingHandle.Fatalf("repeated evaluation of %q changed from %v to %v", candidatePath, initial, repeated)
			}
			if rebuilt := second.Ignored(candidatePath, isDirectory); rebuilt != initial {
				testingHandle.Fatalf("rebuilt matcher disagrees on %q: %v vs %v", candidatePath, initial, rebuilt)
			}
		}
	}
}

// TestNilMatcher verifies that a nil Matcher ignores nothing.
func TestNilMatcher(testingHandle *testing.T) {
	var matcher *ignore.Matcher
	if matcher.Ignored("anything", false) {
		testingHandle.Fatalf("expected nil matcher to ignore nothing")
	}
}
