package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info contains version and build information.
type Info struct {
	Version   string
	Revision  string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the version information embedded by the Go toolchain.
func Get() Info {
	info := Info{
		Version:   "unknown",
		Revision:  "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := build.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = shortRevision(setting.Value)
		case "vcs.time":
			info.BuildTime = setting.Value
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String renders the text printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("depstats %s (%s)\nBuilt: %s\nGo version: %s\nPlatform: %s",
		i.Version, i.Revision, i.BuildTime, i.GoVersion, i.Platform)
}
