package dashboard

import (
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"
)

type DashboardDTO struct {
	StatusCounts  map[string]int          `json:"status_counts"`
	NetworkCounts map[string]int          `json:"network_counts"`
	ClientsCount  int                     `json:"clients_count"`
	TotalPosts    int                     `json:"total_posts"`
	RecentPosts   []*postPort.PostDTO     `json:"recent_posts"`
	RecentReviews []*reviewPort.ReviewDTO `json:"recent_reviews"`
}
