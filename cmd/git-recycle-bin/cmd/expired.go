package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/treeverse/git-recycle-bin/pkg/config"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/publish"
)

func newExpiredCmd(c *cli) *cobra.Command {
	var (
		remove bool
		match  string
	)
	cmd := &cobra.Command{
		Use:   "expired",
		Short: "List artifact branches on a remote whose expiry has passed",
		Long: `List artifact branches on a remote whose expiry has passed. With --delete, each one is
deleted along with the metadata ref of its commit; the remote can then garbage collect the objects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			treeRoot, err := git.GetRepositoryPath(ctx, ".")
			if err != nil {
				return err
			}
			repo := git.NewRepository(treeRoot)
			remote := c.cfg.Remote
			if remote == SourceRemoteSelf {
				if remote, err = repo.AbsoluteGitDir(ctx); err != nil {
					return err
				}
			}
			expired, err := publish.NewOrchestrator(repo, remote).PruneExpired(ctx, publish.PruneRequest{
				Now:    time.Now(),
				Match:  match,
				Remove: remove,
			})
			rows := make([][]interface{}, 0, len(expired))
			for _, b := range expired {
				state := "expired"
				if b.Deleted {
					state = "deleted"
				}
				rows = append(rows, []interface{}{b.Parsed.Expiry.Formatted, b.Parsed.Repo, b.Parsed.RelPath, b.Commit, state})
			}
			if len(rows) > 0 {
				PrintTable(cmd.OutOrStdout(), rows, []interface{}{"Expiry", "Repository", "Path", "Commit", "State"})
			}
			return err
		},
	}
	cmd.Flags().String("remote", "", "git remote URL holding the artifacts, '.' for the source repository")
	cmd.Flags().StringVar(&match, "match", "", "only artifacts whose <repo>/<path> matches this glob, e.g. 'firmware.git/out/*'")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the expired branches and their metadata")
	c.bind(cmd.Flags(), config.RemoteKey, "remote")
	return cmd
}
