package dashboardapp

import (
	"context"

	"postflow/internal/auth"
	postEntity "postflow/internal/core/post"
	clientPort "postflow/internal/ports/client"
	dashboardPort "postflow/internal/ports/dashboard"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"
)

const (
	recentPostsLimit   = 5
	recentReviewsLimit = 8
	// reviews are only looked up over this many of the newest posts
	reviewWindow = 100
	noNetworkKey = "sem_rede"
)

type DashboardService struct {
	PostRepository   postPort.PostRepository
	ClientRepository clientPort.ClientRepository
	ReviewRepository reviewPort.ReviewRepository
}

func NewDashboardService(postRepo postPort.PostRepository, clientRepo clientPort.ClientRepository, reviewRepo reviewPort.ReviewRepository) *DashboardService {
	return &DashboardService{
		PostRepository:   postRepo,
		ClientRepository: clientRepo,
		ReviewRepository: reviewRepo,
	}
}

func (s *DashboardService) Dashboard(ctx context.Context, cu auth.CurrentUser) (*dashboardPort.DashboardDTO, error) {
	posts, err := s.PostRepository.FindByOwner(ctx, cu.ID.String(), postPort.Filter{Order: postPort.OrderCreatedDesc})
	if err != nil {
		return nil, err
	}
	clients, err := s.ClientRepository.FindByOwner(ctx, cu.ID.String())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID.String()] = c.CompanyName
	}

	out := &dashboardPort.DashboardDTO{
		StatusCounts:  make(map[string]int, len(postEntity.Statuses)),
		NetworkCounts: map[string]int{},
		ClientsCount:  len(clients),
		TotalPosts:    len(posts),
		RecentPosts:   []*postPort.PostDTO{},
		RecentReviews: []*reviewPort.ReviewDTO{},
	}
	for _, st := range postEntity.Statuses {
		out.StatusCounts[string(st)] = 0
	}

	window := make([]string, 0, reviewWindow)
	var recent []*postEntity.Post
	for i, p := range posts {
		out.StatusCounts[string(p.Status)]++
		network := p.SocialNetwork
		if network == "" {
			network = noNetworkKey
		}
		out.NetworkCounts[network]++

		if i < recentPostsLimit {
			recent = append(recent, p)
		}
		if i < reviewWindow {
			window = append(window, p.ID.String())
		}
	}

	if len(recent) > 0 {
		counts, err := s.ReviewRepository.CountByPostIDs(ctx, window[:len(recent)])
		if err != nil {
			return nil, err
		}
		for _, p := range recent {
			var name *string
			if p.ClientID != nil {
				if n, ok := names[p.ClientID.String()]; ok {
					name = &n
				}
			}
			out.RecentPosts = append(out.RecentPosts, postPort.NewPostDTO(p, name, counts[p.ID.String()]))
		}
	}

	if len(window) > 0 {
		reviews, err := s.ReviewRepository.ListRecentByPostIDs(ctx, window, recentReviewsLimit)
		if err != nil {
			return nil, err
		}
		for _, r := range reviews {
			out.RecentReviews = append(out.RecentReviews, reviewPort.NewReviewDTO(r))
		}
	}
	return out, nil
}
