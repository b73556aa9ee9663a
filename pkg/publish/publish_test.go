package publish_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/treeverse/git-recycle-bin/pkg/commitmsg"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/publish"
	"github.com/treeverse/git-recycle-bin/pkg/publish/mock"
	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

const (
	remote       = "recyclebin"
	tag          = "artifact/latest/repo.git@main/{out}"
	tagRef       = "refs/tags/" + tag
	localCommit  = "1111111111111111111111111111111111111111"
	remoteCommit = "2222222222222222222222222222222222222222"
	metaObject   = "3333333333333333333333333333333333333333"
	branch       = "artifact/expire/2030-01-01/00.00+0000/repo.git@abc/{out}"
	branchRef    = "refs/heads/" + branch
	metaRef      = "refs/artifact/meta-for-commit/" + localCommit
	remoteMeta   = "refs/artifact/meta-for-commit/" + remoteCommit
)

var _ publish.Store = (*git.Repository)(nil)

var localTime = time.Date(2023, 6, 22, 9, 1, 2, 0, time.UTC)

func metadataAt(t time.Time) string {
	return "artifact: x\n\n" + commitmsg.KeyCommitterTime + ": " + commitmsg.FormatDate(t)
}

func TestDecide(t *testing.T) {
	older := localTime.Add(-time.Hour)
	newer := localTime.Add(time.Hour)
	sameSecond := localTime.Add(500 * time.Millisecond)
	cases := []struct {
		name     string
		remote   *time.Time
		override bool
		expected publish.Decision
	}{
		{name: "no_remote_tag", remote: nil, expected: publish.DecisionPush},
		{name: "no_remote_tag_override", remote: nil, override: true, expected: publish.DecisionPush},
		{name: "remote_older", remote: &older, expected: publish.DecisionForcePush},
		{name: "remote_newer", remote: &newer, expected: publish.DecisionSkip},
		{name: "remote_equal", remote: &localTime, expected: publish.DecisionSkip},
		{name: "remote_same_second", remote: &sameSecond, expected: publish.DecisionSkip},
		{name: "remote_newer_override", remote: &newer, override: true, expected: publish.DecisionForcePush},
		{name: "remote_equal_override", remote: &localTime, override: true, expected: publish.DecisionForcePush},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, publish.Decide(localTime, tt.remote, tt.override))
		})
	}
}

func TestResolveTag(t *testing.T) {
	ctx := context.Background()
	req := publish.TagRequest{Tag: tag, Commit: localCommit, LocalCommitTime: localTime}

	t.Run("no_remote_tag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		gomock.InOrder(
			store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return("", nil),
			store.EXPECT().Push(ctx, remote, tagRef, false).Return(nil),
		)
		outcome, err := publish.ResolveTag(ctx, store, remote, req)
		require.NoError(t, err)
		require.Equal(t, publish.DecisionPush, outcome.Decision)
	})

	t.Run("remote_older", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		gomock.InOrder(
			store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(remoteCommit, nil),
			store.EXPECT().FetchObject(ctx, remote, remoteMeta).Return(metadataAt(localTime.Add(-24*time.Hour)), nil),
			store.EXPECT().Push(ctx, remote, tagRef, true).Return(nil),
		)
		outcome, err := publish.ResolveTag(ctx, store, remote, req)
		require.NoError(t, err)
		require.Equal(t, publish.DecisionForcePush, outcome.Decision)
		require.Equal(t, remoteCommit, outcome.RemoteCommit)
	})

	t.Run("remote_newer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(remoteCommit, nil)
		store.EXPECT().FetchObject(ctx, remote, remoteMeta).Return(metadataAt(localTime.Add(time.Minute)), nil)
		outcome, err := publish.ResolveTag(ctx, store, remote, req)
		require.NoError(t, err)
		require.Equal(t, publish.DecisionSkip, outcome.Decision)
	})

	t.Run("remote_equal_override", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		gomock.InOrder(
			store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(remoteCommit, nil),
			store.EXPECT().FetchObject(ctx, remote, remoteMeta).Return(metadataAt(localTime), nil),
			store.EXPECT().Push(ctx, remote, tagRef, true).Return(nil),
		)
		overridden := req
		overridden.Override = true
		outcome, err := publish.ResolveTag(ctx, store, remote, overridden)
		require.NoError(t, err)
		require.Equal(t, publish.DecisionForcePush, outcome.Decision)
	})

	t.Run("remote_already_ours", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(localCommit, nil)
		outcome, err := publish.ResolveTag(ctx, store, remote, req)
		require.NoError(t, err)
		require.Equal(t, publish.DecisionSkip, outcome.Decision)
	})

	t.Run("remote_metadata_invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(remoteCommit, nil)
		store.EXPECT().FetchObject(ctx, remote, remoteMeta).Return("not a record", nil)
		_, err := publish.ResolveTag(ctx, store, remote, req)
		require.ErrorIs(t, err, publish.ErrRemoteMetadata)
		require.ErrorIs(t, err, commitmsg.ErrMissingTrailer)
		require.Equal(t, rberrors.ExitInvalidInput, rberrors.ExitCode(err))
	})

	t.Run("remote_metadata_missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return(remoteCommit, nil)
		store.EXPECT().FetchObject(ctx, remote, remoteMeta).Return("", git.ErrGitError)
		_, err := publish.ResolveTag(ctx, store, remote, req)
		require.ErrorIs(t, err, rberrors.ErrPrimitiveFailure)
	})
}

func publishRequest() publish.Request {
	return publish.Request{
		Branch:          branch,
		Commit:          localCommit,
		MetadataRef:     metaRef,
		MetadataObject:  metaObject,
		Tag:             tag,
		LocalCommitTime: localTime,
	}
}

func TestPublish_Order(t *testing.T) {
	ctx := gomock.Any()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().RemoteRefValue(ctx, remote, branchRef).Return("", nil),
		store.EXPECT().Push(ctx, remote, branchRef, false).Return(nil),
		store.EXPECT().RemoteRefValue(ctx, remote, metaRef).Return("", nil),
		store.EXPECT().Push(ctx, remote, metaRef, false).Return(nil),
		store.EXPECT().RemoteRefValue(ctx, remote, tagRef).Return("", nil),
		store.EXPECT().Push(ctx, remote, tagRef, false).Return(nil),
	)
	req := publishRequest()
	req.PushTag = true
	report, err := publish.NewOrchestrator(store, remote).Publish(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, publish.ActionPushed, report.Branch.Action)
	require.Equal(t, publish.ActionPushed, report.Metadata.Action)
	require.Equal(t, publish.DecisionPush, report.Tag.Decision)
}

func TestPublish_SkipsExistingValues(t *testing.T) {
	ctx := gomock.Any()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().RemoteRefValue(ctx, remote, branchRef).Return(localCommit, nil)
	store.EXPECT().RemoteRefValue(ctx, remote, metaRef).Return(metaObject, nil)

	report, err := publish.NewOrchestrator(store, remote).Publish(context.Background(), publishRequest())
	require.NoError(t, err)
	require.Equal(t, publish.ActionSkipped, report.Branch.Action)
	require.Equal(t, publish.ActionSkipped, report.Metadata.Action)
	require.Nil(t, report.Tag)
}

func TestPublish_Force(t *testing.T) {
	ctx := gomock.Any()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Push(ctx, remote, branchRef, true).Return(nil),
		store.EXPECT().Push(ctx, remote, metaRef, true).Return(nil),
	)
	req := publishRequest()
	req.ForceBranch = true
	report, err := publish.NewOrchestrator(store, remote).Publish(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, publish.ActionForced, report.Branch.Action)
	require.Equal(t, publish.ActionForced, report.Metadata.Action)
}

func TestPublish_AbortsOnBranchFailure(t *testing.T) {
	ctx := gomock.Any()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	pushErr := errors.New("remote rejected")
	store.EXPECT().RemoteRefValue(ctx, remote, branchRef).Return("", nil)
	store.EXPECT().Push(ctx, remote, branchRef, false).Return(pushErr)

	req := publishRequest()
	req.PushTag = true
	_, err := publish.NewOrchestrator(store, remote).Publish(context.Background(), req)
	require.ErrorIs(t, err, pushErr)
}

func TestPublish_AbortsOnMetadataFailure(t *testing.T) {
	ctx := gomock.Any()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().Push(ctx, remote, branchRef, true).Return(nil)
	store.EXPECT().Push(ctx, remote, metaRef, true).Return(git.ErrGitError)

	req := publishRequest()
	req.ForceBranch = true
	req.PushTag = true
	_, err := publish.NewOrchestrator(store, remote).Publish(context.Background(), req)
	require.ErrorIs(t, err, rberrors.ErrPrimitiveFailure)
}

func TestPublish_Preconditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)

	_, err := publish.NewOrchestrator(store, "").Publish(context.Background(), publishRequest())
	require.ErrorIs(t, err, publish.ErrNoRemote)

	req := publishRequest()
	req.Tag = ""
	req.PushTag = true
	_, err = publish.NewOrchestrator(store, remote).Publish(context.Background(), req)
	require.ErrorIs(t, err, publish.ErrNoTag)
	require.Equal(t, rberrors.ExitPolicyViolation, rberrors.ExitCode(err))
}

func TestPruneExpired(t *testing.T) {
	const (
		expiredRef = "refs/heads/artifact/expire/2023-01-01/00.00+0000/repo.git@aaa/{out}"
		olderRef   = "refs/heads/artifact/expire/2022-06-01/12.30+0200/repo.git@bbb/{out}"
		liveRef    = "refs/heads/artifact/expire/2031-01-01/00.00+0000/repo.git@ccc/{out}"
		strayRef   = "refs/heads/artifact/expire/manual"
	)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	branches := map[string]string{
		expiredRef: "c1",
		olderRef:   "c2",
		liveRef:    "c3",
		strayRef:   "c4",
	}
	ctx := gomock.Any()

	t.Run("list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().ListRemoteRefs(ctx, remote, "refs/heads/artifact/expire/*").Return(branches, nil)
		expired, err := publish.NewOrchestrator(store, remote).PruneExpired(context.Background(), publish.PruneRequest{Now: now})
		require.NoError(t, err)
		require.Len(t, expired, 2)
		require.Equal(t, olderRef, expired[0].Ref)
		require.Equal(t, expiredRef, expired[1].Ref)
		require.False(t, expired[0].Deleted)
	})

	t.Run("delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		store.EXPECT().ListRemoteRefs(ctx, remote, "refs/heads/artifact/expire/*").Return(branches, nil)
		store.EXPECT().ListRemoteRefs(ctx, remote, "refs/artifact/meta-for-commit/*").
			Return(map[string]string{"refs/artifact/meta-for-commit/c2": "m2"}, nil)
		gomock.InOrder(
			store.EXPECT().DeleteRemoteRef(ctx, remote, olderRef).Return(nil),
			store.EXPECT().DeleteRemoteRef(ctx, remote, "refs/artifact/meta-for-commit/c2").Return(nil),
			store.EXPECT().DeleteRemoteRef(ctx, remote, expiredRef).Return(nil),
		)
		expired, err := publish.NewOrchestrator(store, remote).PruneExpired(context.Background(), publish.PruneRequest{Now: now, Remove: true})
		require.NoError(t, err)
		require.Len(t, expired, 2)
		require.True(t, expired[0].Deleted)
		require.True(t, expired[1].Deleted)
	})

	t.Run("match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		filtered := map[string]string{
			expiredRef: "c1",
			"refs/heads/artifact/expire/2023-01-01/00.00+0000/other.git@ddd/{out}":      "c5",
			"refs/heads/artifact/expire/2023-01-01/00.00+0000/repo.git@eee/{docs/html}": "c6",
		}
		store.EXPECT().ListRemoteRefs(ctx, remote, "refs/heads/artifact/expire/*").Return(filtered, nil)
		expired, err := publish.NewOrchestrator(store, remote).PruneExpired(context.Background(),
			publish.PruneRequest{Now: now, Match: "repo.git/*"})
		require.NoError(t, err)
		require.Len(t, expired, 1)
		require.Equal(t, expiredRef, expired[0].Ref)
	})

	t.Run("bad_pattern", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockStore(ctrl)
		_, err := publish.NewOrchestrator(store, remote).PruneExpired(context.Background(),
			publish.PruneRequest{Now: now, Match: "repo[.git"})
		require.ErrorIs(t, err, publish.ErrInvalidPattern)
		require.Equal(t, rberrors.ExitInvalidInput, rberrors.ExitCode(err))
	})
}
