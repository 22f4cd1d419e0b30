package barista

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install and bootstrap the Barista status bar"
	MsgInstallShort    = "Build, install and bootstrap"
	MsgBootstrapShort  = "Create missing default files and run the post-update hook"
	MsgHookShort       = "Run the post-update hook"
	MsgCaveatsShort    = "Print the post-install checklist"
	MsgDoctorShort     = "Check an installation"
	MsgConfigShort     = "Print a starter barista.toml"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Section titles
	MsgTitleBuild     = "[build]Build[/build]"
	MsgTitleTree      = "[tree]Configuration tree[/tree]"
	MsgTitleBinaries  = "[binaries]Binaries[/binaries]"
	MsgTitleDocs      = "[title]Documentation[/title]"
	MsgTitleBootstrap = "[title]Bootstrap[/title]"
	MsgTitleHook      = "[hook]Post-update hook[/hook]"
	MsgTitleDoctor    = "[title]Health checks[/title]"

	// Status messages
	MsgDryRunNotice      = "[warning]DRY RUN MODE - no changes were made[/warning]"
	MsgWarningItem       = "[warning]warning:[/warning] %s"
	MsgTreeSkipped       = "marker present, user configuration preserved"
	MsgTreeCopied        = "%d entries copied"
	MsgTreeMissing       = "not in distribution: %s"
	MsgBinariesPlaced    = "%d of %d placed in %s"
	MsgDocsInstalled     = "refreshed from %s"
	MsgHookAbsent        = "no hook"
	MsgHookOK            = "exit 0 in %s"
	MsgHookFailed        = "exit %d"
	MsgHookTimedOut      = "timed out after %s"
	MsgHookDryRun        = "would run"
	MsgInstallDone       = "[success]Installed[/success] into [path]%s[/path]"
	MsgInstallIncomplete = "[warning]Installed with warnings[/warning] into [path]%s[/path]"
	MsgDoctorPassed      = "[success]All checks passed[/success]"
	MsgVersionFormat     = "barista version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrInitPaths    = "failed to resolve configuration root: %w"
	MsgErrFormat       = "invalid --format: %w"
	MsgErrDoctorFailed = "health check failed"
	MsgErrNoCommand    = "no command specified"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview changes without executing them"
	MsgFlagConfigRoot = "Configuration root (default ~/.config/<app>)"
	MsgFlagFormat     = "Output format: auto, term, text, json or yaml"
	MsgFlagConfig     = "Path to barista.toml"
	MsgFlagSource     = "Source checkout to build and install from"
	MsgFlagSkipBuild  = "Use the existing build output instead of building"
	MsgFlagSkipHook   = "Do not run helpers/post_update.sh"
	MsgFlagBinDir     = "System-wide bin directory"
	MsgFlagEffective  = "Print the resolved configuration instead of the starter file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/bootstrap-long.txt
	msgBootstrapLongRaw string
	MsgBootstrapLong    = strings.TrimSpace(msgBootstrapLongRaw)

	//go:embed msgs/doctor-long.txt
	msgDoctorLongRaw string
	MsgDoctorLong    = strings.TrimSpace(msgDoctorLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
