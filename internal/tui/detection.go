package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvs are environment variables set by common CI providers.
var ciEnvs = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"TF_BUILD",
	"CODEBUILD_BUILD_ID",
}

// isTerminal is swapped in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}

// IsInteractive reports whether prompts and spinners may be shown: both stdin
// and stdout must be terminals and no CI environment may be detected.
func IsInteractive() bool {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return false
	}
	return !InCI()
}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
