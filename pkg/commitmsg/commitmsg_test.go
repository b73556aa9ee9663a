package commitmsg_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/treeverse/git-recycle-bin/pkg/commitmsg"
	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
	"pgregory.net/rapid"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleRecord() *commitmsg.ProvenanceRecord {
	zone := time.FixedZone("", 2*3600)
	return &commitmsg.ProvenanceRecord{
		SchemaVersion: commitmsg.SchemaVersion,
		Name:          "firmware",
		MimeType:      "directory",
		TreePrefix:    "src/out",
		SrcRelPath:    "out",
		CommitTitle:   "Add support for the new flash layout on rev B boards",
		CommitSHA:     "0123456789abcdef0123456789abcdef01234567",
		ShortSHA:      "0123456",
		ChangeID:      ptr("I0123456789abcdef"),
		AuthorTime:    time.Date(2023, 6, 21, 14, 13, 31, 0, zone),
		CommitterTime: time.Date(2023, 6, 22, 9, 1, 2, 0, zone),
		Branch:        "main",
		RepoName:      "repo.git",
		RepoURL:       "git@example.com:team/repo.git",
		Ahead:         ptr(2),
		Behind:        ptr(0),
		Status:        " M Makefile\n?? notes.txt\n",
	}
}

func TestEmit(t *testing.T) {
	expected := `artifact: repo.git@0123456: firmware @(Add support for the new fla...)

This is a (binary) artifact with expiry. Expiry can be changed.

artifact-schema-version: 1
artifact-name: firmware
artifact-mime-type: directory
artifact-tree-prefix: src/out
src-git-relpath: out
src-git-commit-title: Add support for the new flash layout on rev B boards
src-git-commit-sha: 0123456789abcdef0123456789abcdef01234567
src-git-commit-changeid: I0123456789abcdef
src-git-commit-time-author: Wed, 21 Jun 2023 14:13:31 +0200
src-git-commit-time-commit: Thu, 22 Jun 2023 09:01:02 +0200
src-git-branch: main
src-git-repo-name: repo.git
src-git-repo-url: git@example.com:team/repo.git
src-git-commits-ahead: 2
src-git-commits-behind: 0
src-git-status: M Makefile
src-git-status: ?? notes.txt`
	record := sampleRecord()
	require.Equal(t, expected, commitmsg.Emit(record))
	require.Equal(t, commitmsg.Emit(record), commitmsg.Emit(sampleRecord()))
}

func TestEmit_OptionalFields(t *testing.T) {
	record := sampleRecord()
	record.ChangeID = nil
	record.Ahead = nil
	record.Behind = nil
	record.Status = ""
	record.Branch = "HEAD"
	msg := commitmsg.Emit(record)

	require.NotContains(t, msg, commitmsg.KeyChangeID)
	trailers := commitmsg.Parse(msg)
	for key, expected := range map[string]string{
		commitmsg.KeyCommitsAhead:  "?",
		commitmsg.KeyCommitsBehind: "?",
		commitmsg.KeyStatus:        "clean",
		commitmsg.KeyBranch:        "Detached HEAD",
	} {
		v, ok := trailers.Get(key)
		require.True(t, ok, key)
		require.Equal(t, expected, v, key)
	}
}

func TestParse_Simple(t *testing.T) {
	trailers := commitmsg.Parse("key1: value1\nkey-two: value two\nother line")
	for key, expected := range map[string]string{"key1": "value1", "key-two": "value two"} {
		v, ok := trailers.Get(key)
		require.True(t, ok, key)
		require.Equal(t, expected, v, key)
	}
	_, ok := trailers.Get("other line")
	require.False(t, ok)
}

func TestParse_StatusIsLossy(t *testing.T) {
	trailers := commitmsg.Parse(commitmsg.Emit(sampleRecord()))
	// only the last status line survives
	status, ok := trailers.Get(commitmsg.KeyStatus)
	require.True(t, ok)
	require.Equal(t, "?? notes.txt", status)
}

func TestParse_Dates(t *testing.T) {
	record := sampleRecord()
	trailers := commitmsg.Parse(commitmsg.Emit(record))
	committed, err := trailers.CommitterTime()
	require.NoError(t, err)
	require.True(t, committed.Equal(record.CommitterTime))
	version, ok := trailers.Get(commitmsg.KeySchemaVersion)
	require.True(t, ok)
	require.Equal(t, strconv.Itoa(record.SchemaVersion), version)

	_, err = commitmsg.Parse("src-git-commit-time-commit: yesterday").CommitterTime()
	require.ErrorIs(t, err, commitmsg.ErrInvalidTrailer)
	_, err = commitmsg.Parse("no trailers here").CommitterTime()
	require.ErrorIs(t, err, commitmsg.ErrMissingTrailer)
	require.Equal(t, rberrors.ExitInvalidInput, rberrors.ExitCode(err))
}

func TestParseDate_UnpaddedDay(t *testing.T) {
	d, err := commitmsg.ParseDate("Tue, 4 Jul 2023 08:00:00 -0100")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 7, 4, 9, 0, 0, 0, time.UTC), d.UTC())
}

func TestExtractChangeID(t *testing.T) {
	require.Nil(t, commitmsg.ExtractChangeID("fix things\n\nno trailer"))
	id := commitmsg.ExtractChangeID("fix\n\nChange-Id: Iaaa\nChange-Id: Ibbb\n")
	require.NotNil(t, id)
	require.Equal(t, "Ibbb", *id)
}

func TestEmitParse_RoundTrip(t *testing.T) {
	singleLine := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ./@_-]{0,38}[A-Za-z0-9]`)
	rapid.Check(t, func(t *rapid.T) {
		zone := time.FixedZone("", rapid.IntRange(-11, 11).Draw(t, "zone")*3600)
		record := &commitmsg.ProvenanceRecord{
			SchemaVersion: commitmsg.SchemaVersion,
			Name:          singleLine.Draw(t, "name"),
			MimeType:      "application/octet-stream",
			TreePrefix:    singleLine.Draw(t, "prefix"),
			SrcRelPath:    singleLine.Draw(t, "relpath"),
			CommitTitle:   singleLine.Draw(t, "title"),
			CommitSHA:     rapid.StringMatching(`[0-9a-f]{40}`).Draw(t, "sha"),
			AuthorTime:    time.Unix(rapid.Int64Range(0, 2_000_000_000).Draw(t, "author"), 0).In(zone),
			CommitterTime: time.Unix(rapid.Int64Range(0, 2_000_000_000).Draw(t, "committer"), 0).In(zone),
			Branch:        singleLine.Draw(t, "branch"),
			RepoName:      singleLine.Draw(t, "repo"),
			RepoURL:       singleLine.Draw(t, "url"),
			Ahead:         ptr(rapid.IntRange(0, 1000).Draw(t, "ahead")),
		}
		if rapid.Bool().Draw(t, "changeid") {
			record.ChangeID = ptr("I" + rapid.StringMatching(`[0-9a-f]{40}`).Draw(t, "change"))
		}
		record.ShortSHA = record.CommitSHA[:7]

		trailers := commitmsg.Parse(commitmsg.Emit(record))
		expected := map[string]string{
			commitmsg.KeyName:          record.Name,
			commitmsg.KeyTreePrefix:    record.TreePrefix,
			commitmsg.KeySrcRelPath:    record.SrcRelPath,
			commitmsg.KeyCommitTitle:   record.CommitTitle,
			commitmsg.KeyCommitSHA:     record.CommitSHA,
			commitmsg.KeyRepoName:      record.RepoName,
			commitmsg.KeyRepoURL:       record.RepoURL,
			commitmsg.KeyCommitsBehind: "?",
		}
		if record.Branch != "HEAD" {
			expected[commitmsg.KeyBranch] = record.Branch
		}
		if record.ChangeID != nil {
			expected[commitmsg.KeyChangeID] = *record.ChangeID
		}
		for key, v := range expected {
			got, ok := trailers.Get(key)
			require.True(t, ok, key)
			require.Equal(t, v, got, key)
		}
		committed, err := trailers.CommitterTime()
		require.NoError(t, err)
		require.True(t, committed.Equal(record.CommitterTime))
		require.False(t, strings.Contains(commitmsg.Emit(record), "\n\n\n"))
	})
}
