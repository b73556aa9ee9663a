// Package config reads git-recycle-bin settings from flags, GITRB_* environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

const (
	EnvPrefix      = "GITRB"
	ConfigFileName = ".git-recycle-bin"
	ConfigFileType = "yaml"
)

var (
	ErrPushWithoutRemote     = fmt.Errorf("%w: `--push` requires `--remote`", rberrors.ErrPolicyViolation)
	ErrPushTagWithoutPush    = fmt.Errorf("%w: `--push-tag` requires `--push`", rberrors.ErrPolicyViolation)
	ErrForceTagWithoutForce  = fmt.Errorf("%w: `--force-tag` requires `--force-branch`", rberrors.ErrPolicyViolation)
	ErrMissingArtifactName   = fmt.Errorf("%w: artifact name is required", rberrors.ErrInvalidInput)
	ErrMissingArtifactPath   = fmt.Errorf("%w: artifact path is required", rberrors.ErrInvalidInput)
	ErrBadConfigurationValue = fmt.Errorf("%w: bad configuration", rberrors.ErrInvalidInput)
)

type User struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type Logging struct {
	Format        string  `mapstructure:"format"`
	Level         string  `mapstructure:"level"`
	Output        Strings `mapstructure:"output"`
	FileMaxSizeMB int     `mapstructure:"file_max_size_mb"`
	FilesKeep     int     `mapstructure:"files_keep"`
}

type Config struct {
	Name        string  `mapstructure:"name"`
	Path        string  `mapstructure:"path"`
	Expire      string  `mapstructure:"expire"`
	Remote      string  `mapstructure:"remote"`
	Push        bool    `mapstructure:"push"`
	PushTag     bool    `mapstructure:"push_tag"`
	ForceBranch bool    `mapstructure:"force_branch"`
	ForceTag    bool    `mapstructure:"force_tag"`
	RmTmp       bool    `mapstructure:"rm_tmp"`
	Color       bool    `mapstructure:"color"`
	Verbosity   int     `mapstructure:"verbosity"`
	SrcRemote   string  `mapstructure:"src_remote"`
	BinRemote   string  `mapstructure:"bin_remote"`
	User        User    `mapstructure:"user"`
	Logging     Logging `mapstructure:"logging"`
}

// Setup prepares v to read GITRB_* variables and the config file. cfgFile overrides the
// default ~/.git-recycle-bin.yaml; a missing default file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		v.SetConfigFile(filepath.Join(home, ConfigFileName+"."+ConfigFileType))
	}
	v.SetConfigType(ConfigFileType)
	if err := v.ReadInConfig(); err != nil {
		if cfgFile == "" && isNotFound(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	// SetConfigFile reports a missing file as a plain fs error
	return errors.Is(err, fs.ErrNotExist)
}

// NewConfig decodes the settings v holds
func NewConfig(v *viper.Viper) (*Config, error) {
	c := &Config{}
	err := v.Unmarshal(c, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			DecodeBool, DecodeStrings, mapstructure.StringToTimeDurationHookFunc())))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfigurationValue, err)
	}
	if c.Expire == "" {
		c.Expire = DefaultExpire
	}
	return c, nil
}

// Validate reports every forbidden combination of publishing options
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Push && c.Remote == "" {
		errs = multierror.Append(errs, ErrPushWithoutRemote)
	}
	if c.PushTag && !c.Push {
		errs = multierror.Append(errs, ErrPushTagWithoutPush)
	}
	if c.ForceTag && !c.ForceBranch {
		errs = multierror.Append(errs, ErrForceTagWithoutForce)
	}
	return errs.ErrorOrNil()
}

// RequireArtifact checks that an artifact to create was named
func (c *Config) RequireArtifact() error {
	var errs *multierror.Error
	if c.Name == "" {
		errs = multierror.Append(errs, ErrMissingArtifactName)
	}
	if c.Path == "" {
		errs = multierror.Append(errs, ErrMissingArtifactPath)
	}
	return errs.ErrorOrNil()
}
