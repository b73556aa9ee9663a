package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/treeverse/git-recycle-bin/pkg/artifact"
	"github.com/treeverse/git-recycle-bin/pkg/config"
	"github.com/treeverse/git-recycle-bin/pkg/fileutil"
	"github.com/treeverse/git-recycle-bin/pkg/git"
)

const cleanTemplate = `{{if .Removed}}Removed {{.Dir}}{{else}}Nothing to remove at {{.Dir}}{{end}}
`

func newCleanCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the local artifact repository used for an artifact path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			path := c.cfg.Path
			if path == "" {
				path = "."
			}
			treeRoot, err := git.GetRepositoryPath(ctx, ".")
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			nca, err := fileutil.NCA(treeRoot, abs)
			if err != nil {
				return err
			}
			removed, err := artifact.RemoveScratch(ctx, nca)
			if err != nil {
				return err
			}
			WriteTo(cleanTemplate, struct {
				Dir     string
				Removed bool
			}{artifact.ScratchDir(nca), removed}, cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().String("path", "", "artifact path the local artifact repository was used for (default: the source tree root)")
	c.bind(cmd.Flags(), config.PathKey, "path")
	return cmd
}
