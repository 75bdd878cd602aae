// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qa-deck/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleManifest(sha string, records int) types.Manifest {
	return types.Manifest{
		BuildID:    uuid.NewString(),
		BuiltAt:    time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC),
		SourceDir:  "/notes",
		OutputPath: "/notes/target/toAnki.txt",
		NoteType:   "learn.javascript.ru(простая)",
		Records:    records,
		Bytes:      512,
		SHA256:     sha,
		Sources: []types.SourceFile{
			{Path: "/notes/Part 1/a.md", RelPath: "Part 1/a.md", Stamp: "Part_1__a.md", StagedPath: "temp/Part_1__a.md", Records: 3},
			{Path: "/notes/b.md", RelPath: "b.md", Stamp: "b.md", Records: records - 3},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	m := sampleManifest("abc123", 5)
	id, err := s.Record(ctx, m)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, m.BuiltAt.Equal(got.BuiltAt))
	got.BuiltAt = m.BuiltAt
	assert.Equal(t, m, got.Manifest)
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, sha := range []string{"first", "second", "third"} {
		_, err := s.Record(ctx, sampleManifest(sha, 3+i))
		require.NoError(t, err)
	}

	builds, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, "third", builds[0].SHA256)
	assert.Equal(t, "second", builds[1].SHA256)
	assert.Nil(t, builds[0].Sources, "List does not load sources")

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Latest(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Record(ctx, sampleManifest("old", 3))
	require.NoError(t, err)
	_, err = s.Record(ctx, sampleManifest("new", 4))
	require.NoError(t, err)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.SHA256)
	assert.Len(t, latest.Sources, 2)
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "42")
}

func TestRecord_DuplicateBuildID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	m := sampleManifest("dup", 4)
	_, err := s.Record(ctx, m)
	require.NoError(t, err)

	_, err = s.Record(ctx, m)
	require.Error(t, err)

	builds, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, builds, 1, "failed insert leaves no partial build")
}

func TestNewStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, sampleManifest("kept", 3))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	builds, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "kept", builds[0].SHA256)
}

func TestExport(t *testing.T) {
	builds := []types.BuildRecord{{ID: 7, Manifest: sampleManifest("abc", 4)}}

	var y bytes.Buffer
	require.NoError(t, Export(&y, builds, "yaml"))
	var fromYAML []types.BuildRecord
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, int64(7), fromYAML[0].ID)
	assert.Equal(t, "abc", fromYAML[0].SHA256)

	var j bytes.Buffer
	require.NoError(t, Export(&j, builds, "json"))
	var fromJSON []map[string]any
	require.NoError(t, json.Unmarshal(j.Bytes(), &fromJSON))
	assert.Equal(t, "abc", fromJSON[0]["sha256"])
	assert.EqualValues(t, 7, fromJSON[0]["id"])

	assert.Equal(t, builds[0].BuildID, fromJSON[0]["build_id"])

	assert.Error(t, Export(&j, builds, "xml"))
}
