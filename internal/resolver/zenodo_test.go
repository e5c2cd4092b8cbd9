package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRecordID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1234567", "1234567", false},
		{"  1234567  ", "1234567", false},
		{"https://zenodo.org/record/1234567", "1234567", false},
		{"https://zenodo.org/records/1234567", "1234567", false},
		{"https://zenodo.org/records/1234567#files", "1234567", false},
		{"https://example.org/records/1234567", "", true},
		{"not-a-record", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRecordID(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			require.ErrorIs(t, err, ErrInvalidRecordID)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestResolveNewAPIShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/records/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"metadata": {"title": "Ocean Temperatures 2020"},
			"files": [
				{
					"key": "GLOBAL_2020.csv",
					"size": 1048576,
					"checksum": "md5:9e107d9d372bb6826bd81d3542a419d6",
					"links": {"content": "https://zenodo.org/api/files/abc/GLOBAL_2020.csv"}
				}
			]
		}`))
	}))
	defer server.Close()

	r := NewZenodoResolver(server.URL, time.Second)
	record, err := r.Resolve(context.Background(), "42")
	require.NoError(t, err)

	require.Equal(t, "42", record.ID)
	require.Equal(t, "Ocean Temperatures 2020", record.Title)
	require.Len(t, record.Files, 1)

	f := record.Files[0]
	require.Equal(t, "GLOBAL_2020.csv", f.Name)
	require.Equal(t, int64(1048576), f.Size)
	require.Equal(t, "md5:9e107d9d372bb6826bd81d3542a419d6", f.Checksum)
	require.Equal(t, "https://zenodo.org/api/files/abc/GLOBAL_2020.csv", f.URL)
}

func TestResolveOldAPIShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"metadata": {"title": "Legacy Record"},
			"files": [
				{
					"filename": "data.zip",
					"size": 2048,
					"links": {"self": "https://zenodo.org/api/files/def/data.zip"}
				}
			]
		}`))
	}))
	defer server.Close()

	r := NewZenodoResolver(server.URL, time.Second)
	record, err := r.Resolve(context.Background(), "7")
	require.NoError(t, err)

	require.Len(t, record.Files, 1)
	require.Equal(t, "data.zip", record.Files[0].Name)
	require.Equal(t, "https://zenodo.org/api/files/def/data.zip", record.Files[0].URL)
	require.Empty(t, record.Files[0].Checksum)
}

func TestResolveSkipsUnparseableEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"metadata": {"title": "Mixed"},
			"files": [
				{"key": "ok.csv", "size": 10, "links": {"content": "https://example.org/ok.csv"}},
				{"size": 10, "links": {}}
			]
		}`))
	}))
	defer server.Close()

	r := NewZenodoResolver(server.URL, time.Second)
	record, err := r.Resolve(context.Background(), "9")
	require.NoError(t, err)
	require.Len(t, record.Files, 1)
	require.Equal(t, "ok.csv", record.Files[0].Name)
}

func TestResolveNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewZenodoResolver(server.URL, time.Second)
	_, err := r.Resolve(context.Background(), "404404")
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestResolveUntitledRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files": []}`))
	}))
	defer server.Close()

	r := NewZenodoResolver(server.URL, time.Second)
	record, err := r.Resolve(context.Background(), "11")
	require.NoError(t, err)
	require.Equal(t, "Untitled_Dataset", record.Title)
}
