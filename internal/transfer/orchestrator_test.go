package transfer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"zenget/pkg/types"
)

// contentByName lets one stub serve several descriptors
func contentFetcher(t *testing.T, contents map[string][]byte) *stubFetcher {
	return &stubFetcher{fn: func(call int, d types.FileDescriptor, localPath string, offset int64) (FetchResult, error) {
		content, ok := contents[d.Name]
		require.True(t, ok, "unexpected fetch for %s", d.Name)
		require.NoError(t, os.WriteFile(localPath, content, 0644))
		return FetchResult{Status: FetchCompleted, BytesAppended: int64(len(content))}, nil
	}}
}

func descriptorFor(name string, content []byte) types.FileDescriptor {
	return types.FileDescriptor{URL: "http://example/" + name, Name: name, Size: int64(len(content))}
}

func TestFilteringByKeyword(t *testing.T) {
	dir := t.TempDir()
	global := []byte("global data")
	regional := []byte("regional data")

	stub := contentFetcher(t, map[string][]byte{"GLOBAL_2020.csv": global})
	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{
		DestDir:       dir,
		FilterKeyword: "GLOBAL",
	})

	summary, err := o.Run(context.Background(), []types.FileDescriptor{
		descriptorFor("GLOBAL_2020.csv", global),
		descriptorFor("REGIONAL_2020.csv", regional),
	})
	require.NoError(t, err)

	completed, skipped, failed := summary.Counts()
	require.Equal(t, 1, completed)
	require.Equal(t, 1, skipped)
	require.Equal(t, 0, failed)

	for _, o := range summary.Outcomes {
		if o.Descriptor.Name == "REGIONAL_2020.csv" {
			require.Equal(t, types.OutcomeSkipped, o.Kind)
			require.Equal(t, "filtered", o.Reason)
		}
	}

	_, err = os.Stat(filepath.Join(dir, "REGIONAL_2020.csv"))
	require.True(t, os.IsNotExist(err))
}

func TestFilterIsCaseSensitive(t *testing.T) {
	dir := t.TempDir()
	stub := contentFetcher(t, map[string][]byte{})
	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{
		DestDir:       dir,
		FilterKeyword: "global",
	})

	summary, err := o.Run(context.Background(), []types.FileDescriptor{
		descriptorFor("GLOBAL_2020.csv", []byte("x")),
	})
	require.NoError(t, err)

	_, skipped, _ := summary.Counts()
	require.Equal(t, 1, skipped)
	require.Equal(t, 0, stub.callCount())
}

func TestEmptyKeywordDownloadsEverything(t *testing.T) {
	dir := t.TempDir()
	contents := map[string][]byte{
		"a.csv": []byte("aaa"),
		"b.csv": []byte("bbbb"),
	}
	stub := contentFetcher(t, contents)
	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{DestDir: dir})

	summary, err := o.Run(context.Background(), []types.FileDescriptor{
		descriptorFor("a.csv", contents["a.csv"]),
		descriptorFor("b.csv", contents["b.csv"]),
	})
	require.NoError(t, err)

	completed, skipped, failed := summary.Counts()
	require.Equal(t, 2, completed)
	require.Equal(t, 0, skipped)
	require.Equal(t, 0, failed)
}

func TestRunContinuesAfterFatalFailure(t *testing.T) {
	dir := t.TempDir()
	good := []byte("still downloaded")

	stub := &stubFetcher{fn: func(call int, d types.FileDescriptor, localPath string, offset int64) (FetchResult, error) {
		if d.Name == "missing.csv" {
			return FetchResult{}, &FatalFileError{Err: ErrNotFound}
		}
		require.NoError(t, os.WriteFile(localPath, good, 0644))
		return FetchResult{Status: FetchCompleted, BytesAppended: int64(len(good))}, nil
	}}

	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{DestDir: dir})
	summary, err := o.Run(context.Background(), []types.FileDescriptor{
		descriptorFor("missing.csv", []byte("01234567890")),
		descriptorFor("present.csv", good),
	})
	require.NoError(t, err)

	completed, _, failed := summary.Counts()
	require.Equal(t, 1, completed)
	require.Equal(t, 1, failed)

	failures := summary.Failed()
	require.Len(t, failures, 1)
	require.Equal(t, "missing.csv", failures[0].Descriptor.Name)
	require.True(t, strings.Contains(failures[0].Reason, "not found"))
}

func TestEveryDescriptorGetsExactlyOneOutcome(t *testing.T) {
	dir := t.TempDir()
	contents := map[string][]byte{
		"GLOBAL_a.csv": []byte("a"),
		"GLOBAL_b.csv": []byte("b"),
	}
	stub := contentFetcher(t, contents)
	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{
		DestDir:       dir,
		FilterKeyword: "GLOBAL",
	})

	descriptors := []types.FileDescriptor{
		descriptorFor("GLOBAL_a.csv", contents["GLOBAL_a.csv"]),
		descriptorFor("other.csv", []byte("x")),
		descriptorFor("GLOBAL_b.csv", contents["GLOBAL_b.csv"]),
	}
	summary, err := o.Run(context.Background(), descriptors)
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, len(descriptors))

	seen := map[string]int{}
	for _, o := range summary.Outcomes {
		seen[o.Descriptor.Name]++
	}
	for _, d := range descriptors {
		require.Equal(t, 1, seen[d.Name], "descriptor %s", d.Name)
	}
}

func TestParallelWorkers(t *testing.T) {
	dir := t.TempDir()
	contents := map[string][]byte{
		"a.csv": []byte("aa"),
		"b.csv": []byte("bbb"),
		"c.csv": []byte("cccc"),
		"d.csv": []byte("ddddd"),
	}
	stub := contentFetcher(t, contents)
	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{
		DestDir: dir,
		Workers: 2,
	})

	var descriptors []types.FileDescriptor
	for name, content := range contents {
		descriptors = append(descriptors, descriptorFor(name, content))
	}

	summary, err := o.Run(context.Background(), descriptors)
	require.NoError(t, err)

	completed, _, failed := summary.Counts()
	require.Equal(t, len(contents), completed)
	require.Equal(t, 0, failed)

	for name, content := range contents {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Equal(t, content, got)
	}
}

func TestStorageErrorAbortsWholeRun(t *testing.T) {
	dir := t.TempDir()
	stub := &stubFetcher{fn: func(call int, d types.FileDescriptor, localPath string, offset int64) (FetchResult, error) {
		return FetchResult{}, &StorageError{Err: os.ErrPermission}
	}}

	o := NewOrchestrator(NewScheduler(stub, noDelay(), nil), OrchestratorOptions{DestDir: dir})
	summary, err := o.Run(context.Background(), []types.FileDescriptor{
		descriptorFor("a.csv", []byte("aa")),
		descriptorFor("b.csv", []byte("bb")),
	})
	require.Error(t, err)
	require.True(t, IsStorage(err))
	// Only the first file was attempted; the run stopped there.
	require.Equal(t, 1, stub.callCount())
	require.Len(t, summary.Outcomes, 1)
}
