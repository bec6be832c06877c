package models

// ResumeAnalysis is the verdict returned by the external scoring service.
// The score is an ATS-style percentage; the algorithm behind it is opaque
// to this API.
type ResumeAnalysis struct {
	Score           int      `json:"score"`
	SkillsFound     []string `json:"skills_found"`
	SkillsMissing   []string `json:"skills_missing"`
	Recommendations []string `json:"recommendations"`
}

// Candidate is one screened resume in a recruiter screening run.
type Candidate struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	FileName      string   `json:"file_name"`
	IsShortlisted bool     `json:"is_shortlisted"`
}

// ScreeningSummary aggregates a screening run.
type ScreeningSummary struct {
	Total         int     `json:"total"`
	Shortlisted   int     `json:"shortlisted"`
	Rejected      int     `json:"rejected"`
	ShortlistRate float64 `json:"shortlist_rate"`
}

// ScreeningResult is the full outcome of screening a batch of resumes
// against one job description.
type ScreeningResult struct {
	RunID       string           `json:"run_id"`
	Candidates  []Candidate      `json:"candidates"`
	Shortlisted []Candidate      `json:"shortlisted"`
	Rejected    []Candidate      `json:"rejected"`
	Summary     ScreeningSummary `json:"summary"`
	ReportURL   string           `json:"report_url,omitempty"`
}

// MatchedJob is a stored job ranked against an uploaded resume.
type MatchedJob struct {
	JobID        string `json:"job_id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Industry     string `json:"industry"`
	Location     string `json:"location"`
	Score        int    `json:"score"`
	Requirements string `json:"requirements"`
}

// JobFindingResult pairs the resume analysis with ranked job matches.
type JobFindingResult struct {
	Analysis    ResumeAnalysis `json:"analysis"`
	MatchedJobs []MatchedJob   `json:"matched_jobs"`
}
