// Package agent holds the three labelled roles of the crew and the two
// model-backed stages (categorizing and summarizing).
package agent

// Agent is descriptive metadata for one processing stage.
type Agent struct {
	Role      string `json:"role"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}

var (
	NewsFetcher = Agent{
		Role:      "News Fetcher",
		Goal:      "Fetch article heading and text.",
		Backstory: "Scrapes and extracts article text and heading.",
	}
	Categorizer = Agent{
		Role:      "Categorizer",
		Goal:      "Categorize articles.",
		Backstory: "Classifies news articles.",
	}
	Summarizer = Agent{
		Role:      "Summarizer",
		Goal:      "Summarize articles in a detailed way.",
		Backstory: "Generates detailed article summaries of at least 200 words.",
	}
)

// Roster returns the agents in pipeline order.
func Roster() []Agent {
	return []Agent{NewsFetcher, Categorizer, Summarizer}
}
