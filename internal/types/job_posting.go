package types

// Unknown is the fallback for any job attribute that cannot be derived.
const Unknown = "Unknown"

// JobInfo is the best-effort metadata derived from a job posting URL.
type JobInfo struct {
	Company string `json:"company"`
	JobID   string `json:"jobId"`
	URL     string `json:"url"`
}

// JobPosting is the analysis of a single job URL. It is derived fresh on every
// analysis and never persisted.
type JobPosting struct {
	Platform      string   `json:"platform"`
	Icon          string   `json:"icon"`
	Company       string   `json:"company"`
	JobID         string   `json:"jobId"`
	URL           string   `json:"url"`
	Supported     bool     `json:"supported"`
	RequiresLogin bool     `json:"requiresLogin,omitempty"`
	MultiPage     bool     `json:"multiPage,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}
