package model

// Problem is the metadata shape returned by the upstream problem source.
type Problem struct {
	Slug       string   `json:"titleSlug"`
	Title      string   `json:"questionTitle"`
	Difficulty string   `json:"difficulty"`
	Content    string   `json:"question"`
	Topics     []string `json:"topicTags,omitempty"`
}

// ProblemSummary is an entry of the static search dataset.
type ProblemSummary struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}
