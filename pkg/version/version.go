package version

import (
	"fmt"
	"runtime"
	"strings"
)

// These variables are set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary is the short form shown in the chat banner.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if short := shortCommit(); short != "" {
		return fmt.Sprintf("%s (%s)", v, short)
	}
	return v
}

// Details is the multi-line form printed by `lingochat version`.
func Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lingochat %s\n", Summary())
	fmt.Fprintf(&b, "  built:    %s\n", Date)
	fmt.Fprintf(&b, "  go:       %s\n", GoVersion)
	fmt.Fprintf(&b, "  platform: %s\n", Platform())
	return b.String()
}

func shortCommit() string {
	if Commit == "" || Commit == "none" {
		return ""
	}
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
