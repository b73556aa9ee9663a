package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/treeverse/git-recycle-bin/pkg/artifact"
	"github.com/treeverse/git-recycle-bin/pkg/config"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
	"github.com/treeverse/git-recycle-bin/pkg/publish"
)

// SourceRemoteSelf as --remote publishes into the source repository itself
const SourceRemoteSelf = "."

const createTemplate = `Artifact branch: {{.Result.Names.Branch|bold}}
Artifact commit: {{.Result.Commit}}{{if .Result.Created}} {{"(new)"|green}}{{else}} {{"(unchanged)"|yellow}}{{end}}
Metadata ref:    {{.Result.Metadata.Ref}}
Metadata object: {{.Result.Metadata.Object}}
{{- if .Result.Names.Tag}}
Latest tag:      {{.Result.Names.Tag}}{{end}}
{{- with .Report}}
Remote {{$.Remote}}:
  branch:   {{.Branch.Action}}
  metadata: {{.Metadata.Action}}
{{- with .Tag}}
  tag:      {{.Decision}}{{if .RemoteCommit}} (remote was {{.RemoteCommit|short}}){{end}}{{end}}{{end}}
`

func newCreateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Commit an artifact to its expiring branch and optionally push it",
		Example: `git-recycle-bin create --name firmware --path build/fw.bin
git-recycle-bin create --name docs --path build/html --expire "in 2 weeks" --remote git@example.com:bins.git --push --push-tag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, c.cfg)
		},
	}
	flags := cmd.Flags()
	flags.String("name", "", "name to assign to the artifact, will be sanitized")
	flags.String("path", "", "path to artifact in src-repo, file or folder")
	flags.String("expire", config.DefaultExpire, "when the artifact branch expires, e.g. \"in 30 days\", \"2w\", \"2030-01-01\"")
	flags.String("remote", "", "git remote URL to push artifact to, '.' for the source repository")
	flags.String("src-remote", config.DefaultSrcRemote, "remote of the source repository that identifies it")
	yesNoFlag(flags, "push", false, "push artifact-commit to remote")
	yesNoFlag(flags, "push-tag", false, "push tag to artifact to remote")
	yesNoFlag(flags, "force-branch", false, "force push of branch")
	yesNoFlag(flags, "force-tag", false, "force push of tag")
	yesNoFlag(flags, "rm-tmp", false, "remove local bin-repo")

	for key, flag := range map[string]string{
		config.NameKey:        "name",
		config.PathKey:        "path",
		config.ExpireKey:      "expire",
		config.RemoteKey:      "remote",
		config.SrcRemoteKey:   "src-remote",
		config.PushKey:        "push",
		config.PushTagKey:     "push-tag",
		config.ForceBranchKey: "force-branch",
		config.ForceTagKey:    "force-tag",
		config.RmTmpKey:       "rm-tmp",
	} {
		c.bind(cmd.Flags(), key, flag)
	}
	return cmd
}

func runCreate(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	if err := cfg.RequireArtifact(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := artifact.Inspect(ctx, ".", cfg.SrcRemote)
	if err != nil {
		return err
	}
	if cfg.PushTag {
		if err := src.RequireBranch(); err != nil {
			return err
		}
	}
	expiry, err := naming.ResolveExpiry(cfg.Expire, time.Now())
	if err != nil {
		return err
	}
	names, err := artifact.ResolveNames(ctx, src, cfg.Name, cfg.Path, expiry)
	if err != nil {
		return err
	}

	if cfg.RmTmp {
		if _, err := artifact.RemoveScratch(ctx, names.NCADir); err != nil {
			return err
		}
	}
	bin := artifact.OpenScratch(names.NCADir)
	log.Infof("Making local commit of artifact %s in artifact-repo at %s", cfg.Path, bin.GitDir())
	result, err := artifact.NewCreator(bin, git.Identity{Name: cfg.User.Name, Email: cfg.User.Email}).Create(ctx, src, names)
	if err != nil {
		return err
	}

	var report *publish.Report
	remote := cfg.Remote
	if remote != "" {
		if remote == SourceRemoteSelf {
			remote = src.GitDir
			log.Infof("Will push artifact to local src-git, %s", remote)
		}
		if err := bin.AddRemoteIdempotent(ctx, cfg.BinRemote, remote); err != nil {
			return fmt.Errorf("add remote %s: %w", cfg.BinRemote, err)
		}
	}
	if cfg.Push {
		report, err = publish.NewOrchestrator(bin, cfg.BinRemote).Publish(ctx, publish.Request{
			Branch:          names.Branch,
			Commit:          result.Commit,
			MetadataRef:     result.Metadata.Ref,
			MetadataObject:  result.Metadata.Object,
			Tag:             names.Tag,
			LocalCommitTime: src.CommitterTime,
			ForceBranch:     cfg.ForceBranch,
			PushTag:         cfg.PushTag,
			ForceTag:        cfg.ForceTag,
		})
		if err != nil {
			return err
		}
	}

	if cfg.RmTmp {
		if _, err := artifact.RemoveScratch(ctx, names.NCADir); err != nil {
			return err
		}
	}
	WriteTo(createTemplate, struct {
		Result *artifact.Result
		Report *publish.Report
		Remote string
	}{result, report, remote}, cmd.OutOrStdout())
	return nil
}
