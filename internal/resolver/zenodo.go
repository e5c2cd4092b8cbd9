package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"zenget/pkg/types"
)

var (
	ErrRecordNotFound  = errors.New("resolver: record not found")
	ErrInvalidRecordID = errors.New("resolver: cannot identify record ID")
)

// Zenodo has used both /record/ and /records/ paths over the years.
var recordURLPattern = regexp.MustCompile(`zenodo\.org/records?/(\d+)`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ParseRecordID extracts the numeric record ID from a raw ID or a Zenodo
// record URL such as https://zenodo.org/records/1234567
func ParseRecordID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if digitsOnly.MatchString(input) {
		return input, nil
	}
	if m := recordURLPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecordID, input)
}

// ZenodoResolver fetches record metadata from the Zenodo REST API
type ZenodoResolver struct {
	baseURL string
	client  *http.Client
}

// NewZenodoResolver creates a resolver against the given API base URL,
// e.g. https://zenodo.org/api
func NewZenodoResolver(baseURL string, timeout time.Duration) *ZenodoResolver {
	return &ZenodoResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// zenodoFile tolerates both API generations: older records publish
// "filename" and links.self, newer ones "key" and links.content.
type zenodoFile struct {
	Key      string            `json:"key"`
	Filename string            `json:"filename"`
	Size     int64             `json:"size"`
	Checksum string            `json:"checksum"`
	Links    map[string]string `json:"links"`
}

type zenodoRecord struct {
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
	Files []zenodoFile `json:"files"`
}

// Resolve fetches the record metadata and converts it to file descriptors
func (r *ZenodoResolver) Resolve(ctx context.Context, recordID string) (*types.Record, error) {
	url := fmt.Sprintf("%s/records/%s", r.baseURL, recordID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata request returned %s", resp.Status)
	}

	var raw zenodoRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	record := &types.Record{
		ID:    recordID,
		Title: raw.Metadata.Title,
	}
	if record.Title == "" {
		record.Title = "Untitled_Dataset"
	}

	for _, f := range raw.Files {
		name := f.Key
		if name == "" {
			name = f.Filename
		}
		downloadURL := f.Links["self"]
		if downloadURL == "" {
			downloadURL = f.Links["content"]
		}
		if name == "" || downloadURL == "" {
			log.Printf("Skipping unparseable file entry in record %s", recordID)
			continue
		}
		record.Files = append(record.Files, types.FileDescriptor{
			URL:      downloadURL,
			Name:     name,
			Size:     f.Size,
			Checksum: f.Checksum,
		})
	}

	return record, nil
}
