// Package version 记录构建版本信息。
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// 可在构建时通过 ldflags 注入：
//
//	go build -ldflags="-X github.com/ByLCY/yas/version.Version=v0.3.0 \
//	                   -X github.com/ByLCY/yas/version.Commit=abc123"
//
// 未注入时从构建信息中的 VCS 字段推断，仍缺失则回退为 dev。
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo(debug.ReadBuildInfo())
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo 用 vcs.revision/vcs.modified/vcs.time 补全缺失的字段。
func fromBuildInfo(info *debug.BuildInfo, ok bool) {
	if !ok || info == nil {
		return
	}
	settings := map[string]string{}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}
	if Version == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = v
		} else if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full 返回带提交号的完整版本字符串。
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
