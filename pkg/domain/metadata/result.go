package metadata

import "io"

// Upload is the byte source handed to the pipeline by its collaborators.
type Upload interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Result is the bundle returned by an analyze run.
type Result struct {
	FileName       string         `json:"file_name"`
	ContentType    string         `json:"file_type"`
	Size           int64          `json:"file_size"`
	Fields         []Field        `json:"metadata"`
	Verdict        Verdict        `json:"verdict"`
	TotalCount     int            `json:"total"`
	PrivacyCount   int            `json:"privacy"`
	RemainingCount int            `json:"remaining"`
	RemovedCount   int            `json:"removed"`
	StrippedTags   []string       `json:"stripped_tags"`
	Integrity      IntegrityProof `json:"integrity"`
}

// CleanResult is the bundle returned by a clean run.
type CleanResult struct {
	Result
	CleanedName string `json:"cleaned_name"`
	Redacted    []byte `json:"-"`
}
