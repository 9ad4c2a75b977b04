package main

import (
	"runtime/debug"
	"strings"
)

// version is stamped by release builds via -ldflags "-X main.version=v...".
var version = "dev"

func currentVersion() string {
	return resolveVersion(version, debug.ReadBuildInfo)
}

// resolveVersion prefers the stamped release version, then the module
// version from build info. An untagged `go install` build reports the VCS
// revision so bug reports still identify the commit.
func resolveVersion(stamped string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if v := strings.TrimSpace(stamped); v != "" && v != "dev" {
		return v
	}
	info, ok := buildInfo()
	if !ok || info == nil {
		return "dev"
	}
	if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
		return v
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return "dev+" + setting.Value[:7]
		}
	}
	return "dev"
}
