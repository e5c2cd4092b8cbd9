package types

// FileDescriptor contains information about one remote file of a record
type FileDescriptor struct {
	URL      string `json:"url"`      // Direct download URL
	Name     string `json:"name"`     // Filename within the record
	Size     int64  `json:"size"`     // Declared size in bytes, <= 0 when unknown
	Checksum string `json:"checksum"` // Optional, "algo:hex" or bare hex (md5)
}

// Record is the resolved metadata of one dataset record
type Record struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Files []FileDescriptor `json:"files"`
}
