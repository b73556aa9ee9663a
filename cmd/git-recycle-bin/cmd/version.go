package cmd

import (
	"github.com/spf13/cobra"
	"github.com/treeverse/git-recycle-bin/pkg/version"
)

const versionTemplate = `git-recycle-bin version: {{.Version}}
{{- if .Commit}}
commit: {{.Commit}}{{end}}
`

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the git-recycle-bin version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			WriteTo(versionTemplate, struct {
				Version string
				Commit  string
			}{version.Version, version.Commit()}, cmd.OutOrStdout())
		},
	}
}
