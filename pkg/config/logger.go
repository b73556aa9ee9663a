package config

import (
	"github.com/treeverse/git-recycle-bin/pkg/logging"
)

// SetupLogging applies the logging settings. An explicit level wins over verbosity.
func (c *Config) SetupLogging() {
	logging.SetOutputFormat(c.Logging.Format)
	logging.SetColors(c.Color)
	if len(c.Logging.Output) > 0 {
		logging.SetOutputs(c.Logging.Output, c.Logging.FileMaxSizeMB, c.Logging.FilesKeep)
	}
	if c.Logging.Level != "" {
		logging.SetLevel(c.Logging.Level)
	} else {
		logging.SetVerbosity(c.Verbosity)
	}
}
