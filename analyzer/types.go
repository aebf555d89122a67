package analyzer

// NotApplicable fills activity fields that have no meaningful value, either
// because the analysis errored or because no repository had recent commits.
const NotApplicable = "N/A"

type CompanyInput struct {
	CompanyName  string `json:"company_name"`
	GithubOrgURL string `json:"github_org_url"`
}

// RepoCandidate is one repository considered during an analysis.
type RepoCandidate struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	IsFork bool   `json:"is_fork"`
}

// CompanyResult is the terminal outcome for one input row. Error set means
// the other activity fields carry NotApplicable and CommitCount is zero.
type CompanyResult struct {
	CompanyName       string `json:"company_name"`
	GithubOrgURL      string `json:"github_org_url"`
	MostActiveRepo    string `json:"most_active_repo"`
	MostActiveRepoURL string `json:"most_active_repo_url"`
	CommitCount       int    `json:"commit_count"`
	TopContributor    string `json:"top_contributor"`
	Error             string `json:"error,omitempty"`
}
