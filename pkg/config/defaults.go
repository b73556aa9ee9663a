package config

import "github.com/spf13/viper"

const (
	NameKey        = "name"
	PathKey        = "path"
	ExpireKey      = "expire"
	RemoteKey      = "remote"
	PushKey        = "push"
	PushTagKey     = "push_tag"
	ForceBranchKey = "force_branch"
	ForceTagKey    = "force_tag"
	RmTmpKey       = "rm_tmp"
	ColorKey       = "color"
	VerbosityKey   = "verbosity"

	SrcRemoteKey     = "src_remote"
	DefaultSrcRemote = "origin"

	BinRemoteKey     = "bin_remote"
	DefaultBinRemote = "recyclebin"

	DefaultExpire    = "in 30 days"
	DefaultVerbosity = 1

	UserNameKey      = "user.name"
	DefaultUserName  = "git-recycle-bin"
	UserEmailKey     = "user.email"
	DefaultUserEmail = "git-recycle-bin@localhost"

	LoggingFormatKey        = "logging.format"
	LoggingLevelKey         = "logging.level"
	LoggingOutputKey        = "logging.output"
	LoggingFileMaxSizeMBKey = "logging.file_max_size_mb"
	LoggingFilesKeepKey     = "logging.files_keep"

	DefaultLoggingFormat        = "text"
	DefaultLoggingOutput        = "="
	DefaultLoggingFileMaxSizeMB = 100
	DefaultLoggingFilesKeep     = 10
)

// SetDefaults registers every key with v. Keys viper does not know about are not read from
// the environment on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(NameKey, "")
	v.SetDefault(PathKey, "")
	v.SetDefault(ExpireKey, DefaultExpire)
	v.SetDefault(RemoteKey, "")
	v.SetDefault(PushKey, false)
	v.SetDefault(PushTagKey, false)
	v.SetDefault(ForceBranchKey, false)
	v.SetDefault(ForceTagKey, false)
	v.SetDefault(RmTmpKey, false)
	v.SetDefault(ColorKey, true)
	v.SetDefault(VerbosityKey, DefaultVerbosity)
	v.SetDefault(SrcRemoteKey, DefaultSrcRemote)
	v.SetDefault(BinRemoteKey, DefaultBinRemote)

	v.SetDefault(UserNameKey, DefaultUserName)
	v.SetDefault(UserEmailKey, DefaultUserEmail)

	// empty level means: derive from verbosity
	v.SetDefault(LoggingLevelKey, "")
	v.SetDefault(LoggingFormatKey, DefaultLoggingFormat)
	v.SetDefault(LoggingOutputKey, DefaultLoggingOutput)
	v.SetDefault(LoggingFileMaxSizeMBKey, DefaultLoggingFileMaxSizeMB)
	v.SetDefault(LoggingFilesKeepKey, DefaultLoggingFilesKeep)
}
