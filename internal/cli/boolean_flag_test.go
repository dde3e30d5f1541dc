package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const repositoryArgument = "./repo"

func TestRootBooleanFlagsWithRepositoryArgument(t *testing.T) {
	testCases := []struct {
		name               string
		arguments          []string
		expectedFlags      map[string]bool
		expectedPositional []string
		expectError        bool
	}{
		{
			name:               "copy_without_value_keeps_repository",
			arguments:          []string{"--copy", repositoryArgument},
			expectedFlags:      map[string]bool{copyFlagName: true, restoreFlagName: false, deleteFlagName: false},
			expectedPositional: []string{repositoryArgument},
		},
		{
			name:               "restore_with_yes_literal",
			arguments:          []string{"--restore", "yes", repositoryArgument},
			expectedFlags:      map[string]bool{restoreFlagName: true, copyFlagName: false},
			expectedPositional: []string{repositoryArgument},
		},
		{
			name:               "delete_with_equals_false",
			arguments:          []string{repositoryArgument, "--delete=false"},
			expectedFlags:      map[string]bool{deleteFlagName: false},
			expectedPositional: []string{repositoryArgument},
		},
		{
			name:               "copy_with_off_literal_and_no_repository",
			arguments:          []string{"--copy", "off"},
			expectedFlags:      map[string]bool{copyFlagName: false},
			expectedPositional: []string{},
		},
		{
			name:               "verbose_persistent_flag_folds_literal",
			arguments:          []string{"--verbose", "1", repositoryArgument},
			expectedFlags:      map[string]bool{verboseFlagName: true},
			expectedPositional: []string{repositoryArgument},
		},
		{
			name:        "invalid_literal_with_equals",
			arguments:   []string{"--copy=maybe", repositoryArgument},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rootCommand := NewRootCommand(Dependencies{})
			parseErr := rootCommand.ParseFlags(normalizeBooleanFlagArguments(rootCommand, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				if !strings.Contains(parseErr.Error(), booleanFlagInvalidValueErrorLabel) {
					t.Fatalf("expected invalid boolean error, got %v", parseErr)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			for flagName, expected := range testCase.expectedFlags {
				actual, lookupErr := rootCommand.Flags().GetBool(flagName)
				if lookupErr != nil {
					t.Fatalf("lookup --%s: %v", flagName, lookupErr)
				}
				if actual != expected {
					t.Fatalf("expected --%s=%t, got %t", flagName, expected, actual)
				}
			}
			positional := rootCommand.Flags().Args()
			if strings.Join(positional, "|") != strings.Join(testCase.expectedPositional, "|") {
				t.Fatalf("expected positional %v, got %v", testCase.expectedPositional, positional)
			}
		})
	}
}

func TestCollectBooleanFlagNamesIncludesSubcommands(t *testing.T) {
	rootCommand := NewRootCommand(Dependencies{})
	names := map[string]struct{}{}
	collectBooleanFlagNames(rootCommand, names)

	for _, expected := range []string{copyFlagName, restoreFlagName, deleteFlagName, verboseFlagName, versionFlagName, globalFlagName, forceFlagName} {
		if _, found := names[expected]; !found {
			t.Fatalf("expected boolean flag %q in %v", expected, names)
		}
	}
	if _, found := names[configFlagName]; found {
		t.Fatalf("string flag --%s must not be treated as boolean", configFlagName)
	}
}

func TestNormalizeBooleanFlagArgumentsWithoutBooleanFlags(t *testing.T) {
	command := &cobra.Command{Use: "plain"}
	command.Flags().String("name", "", "a string flag")
	arguments := []string{"--name", "yes"}
	normalized := normalizeBooleanFlagArguments(command, arguments)
	if strings.Join(normalized, "|") != "--name|yes" {
		t.Fatalf("expected arguments unchanged, got %v", normalized)
	}
}
