package domain

// Summary holds aggregate figures over the favorites list.
type Summary struct {
	Count           int     `json:"count"`
	TotalRepos      int     `json:"total_repos"`
	TotalFollowers  int     `json:"total_followers"`
	MeanRepos       float64 `json:"mean_repos"`
	MedianRepos     float64 `json:"median_repos"`
	MeanFollowers   float64 `json:"mean_followers"`
	MedianFollowers float64 `json:"median_followers"`
}
