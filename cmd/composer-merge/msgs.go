package composermerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Three-way merge driver for composer.json and composer.lock"
	MsgVersionShort = "Print version information"
	MsgConfigShort  = "Print the effective configuration"

	// Status messages
	MsgVersionFormat   = "composer-merge version %s\n  commit: %s\n  built:  %s\n"
	MsgFallbackRoot = "Not inside a git repository, using %s as repository root"

	// Error messages
	MsgErrInitPaths   = "failed to initialize paths"
	MsgErrMarkerSize  = "marker size must be a positive integer, got %q"
	MsgErrConflicts   = "%d conflict(s) left in %s"
	MsgErrSummaryFlag = "invalid --summary value"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Read this config file after the user and repository files"
	MsgFlagSummary  = "Write a conflict summary to stderr (none, text, yaml, json)"
	MsgFlagIndent   = "Indent unit used when none can be detected in OURS"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
	MsgFlagLogFile  = "Also write logs to this file (\"auto\" for the XDG state directory)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
