// Package version reports the build version of cmdutil.
//
// Version is set at build time:
//
//	go build -ldflags "-X github.com/kbukum/cmdutil/version.Version=1.0.0" ./cmd/cmdutil
//
// Otherwise the module version and VCS stamp recorded by the Go toolchain are used.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set at build time using -ldflags.
var Version = ""

// Info is the version information of the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

// Get returns the version information of the running binary.
func Get() Info {
	buildInfo, _ := debug.ReadBuildInfo()
	return fromBuildInfo(buildInfo)
}

func fromBuildInfo(buildInfo *debug.BuildInfo) Info {
	info := Info{Version: Version}
	if buildInfo == nil {
		if info.Version == "" {
			info.Version = "dev"
		}
		return info
	}

	info.GoVersion = buildInfo.GoVersion
	if info.Version == "" {
		info.Version = buildInfo.Main.Version
	}
	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "dev"
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
			if len(info.GitCommit) > 7 {
				info.GitCommit = info.GitCommit[:7]
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		}
	}
	return info
}

// Short returns the version with the commit appended when known.
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" && !strings.Contains(i.Version, i.GitCommit) {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String renders the version line printed by "cmdutil version".
func (i Info) String() string {
	if i.GoVersion == "" {
		return i.Short()
	}
	return fmt.Sprintf("%s (%s)", i.Short(), i.GoVersion)
}
