// Package version reports which rbdoc build produced a document.
package version

import (
	"crypto/sha256"
	"fmt"
	"runtime/debug"
	"sync"
)

// Version is the semantic version of rbdoc.
const Version = "0.3.0"

// Set at link time: -ldflags "-X github.com/standardbeagle/rbdoc/internal/version.GitCommit=..."
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns the version string shown by --version.
func Info() string {
	return Version
}

// FullInfo includes commit and build date.
func FullInfo() string {
	return "rbdoc " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}

var (
	buildID     string
	buildIDOnce sync.Once
)

// BuildID is a short fingerprint of the running binary. Exported documents
// carry it so output from different builds can be told apart.
func BuildID() string {
	buildIDOnce.Do(func() {
		buildID = computeBuildID()
	})
	return buildID
}

func computeBuildID() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version + "-" + GitCommit
	}

	h := sha256.New()
	for _, part := range []string{info.GoVersion, info.Main.Path, info.Main.Version, Version} {
		h.Write([]byte(part))
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision", "vcs.modified":
			h.Write([]byte(s.Key + "=" + s.Value))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
