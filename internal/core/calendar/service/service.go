package calendarapp

import (
	"context"
	"fmt"
	"time"

	"postflow/internal/auth"
	"postflow/internal/core/calendar"
	postEntity "postflow/internal/core/post"
	clientPort "postflow/internal/ports/client"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"
)

// Board columns keep the names the board has always used; each maps onto one persisted status.
var boardColumns = []struct {
	Key    string
	Status postEntity.Status
}{
	{"pendente", postEntity.StatusPending},
	{"em_progresso", postEntity.StatusInReview},
	{"concluido", postEntity.StatusApproved},
	{"rejeitado", postEntity.StatusRejected},
}

// CalendarService serves the calendar and board read models.
type CalendarService struct {
	PostRepository   postPort.PostRepository
	ClientRepository clientPort.ClientRepository
	ReviewRepository reviewPort.ReviewRepository
	Location         *time.Location
	now              func() time.Time
}

func NewCalendarService(postRepo postPort.PostRepository, clientRepo clientPort.ClientRepository, reviewRepo reviewPort.ReviewRepository, loc *time.Location) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{
		PostRepository:   postRepo,
		ClientRepository: clientRepo,
		ReviewRepository: reviewRepo,
		Location:         loc,
		now:              time.Now,
	}
}

// Calendar buckets the owner's posts by local publish day over the range of the view.
func (s *CalendarService) Calendar(ctx context.Context, cu auth.CurrentUser, q postPort.CalendarQuery) (*postPort.CalendarDTO, error) {
	view, err := calendar.ParseView(q.View)
	if err != nil {
		return nil, err
	}

	anchor := s.now().In(s.Location)
	if q.Date != "" {
		anchor, err = time.ParseInLocation(calendar.DateLayout, q.Date, s.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", postEntity.ErrValidation)
		}
	}
	start, end := calendar.Range(view, anchor)

	filter := postPort.Filter{
		From:          &start,
		To:            &end,
		SocialNetwork: q.SocialNetwork,
		ClientID:      q.ClientID,
		Order:         postPort.OrderPublishAsc,
	}
	if q.Status != "" {
		st, err := postEntity.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = string(st)
	}
	if q.Priority != "" {
		if !postEntity.Priority(q.Priority).Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", postEntity.ErrValidation, q.Priority)
		}
		filter.Priority = q.Priority
	}

	posts, err := s.PostRepository.FindByOwner(ctx, cu.ID.String(), filter)
	if err != nil {
		return nil, err
	}
	dtos, err := s.toDTOs(ctx, cu, posts)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*postPort.PostDTO)
	for i, p := range posts {
		key := p.PublishDate.In(s.Location).Format(calendar.DateLayout)
		byDay[key] = append(byDay[key], dtos[i])
	}

	out := &postPort.CalendarDTO{
		View:  string(view),
		Start: start.Format(calendar.DateLayout),
		End:   end.AddDate(0, 0, -1).Format(calendar.DateLayout),
		Days:  []*postPort.CalendarDayDTO{},
		Total: len(posts),
	}
	for _, d := range calendar.Days(start, end) {
		key := d.Format(calendar.DateLayout)
		dayPosts := byDay[key]
		if len(dayPosts) == 0 {
			if !view.Grid() {
				continue
			}
			dayPosts = []*postPort.PostDTO{}
		}
		out.Days = append(out.Days, &postPort.CalendarDayDTO{Date: key, Posts: dayPosts})
	}
	return out, nil
}

// Board groups the owner's posts into the Kanban columns.
func (s *CalendarService) Board(ctx context.Context, cu auth.CurrentUser) (*postPort.BoardDTO, error) {
	posts, err := s.PostRepository.FindByOwner(ctx, cu.ID.String(), postPort.Filter{Order: postPort.OrderPublishAsc})
	if err != nil {
		return nil, err
	}
	dtos, err := s.toDTOs(ctx, cu, posts)
	if err != nil {
		return nil, err
	}

	index := make(map[postEntity.Status]*postPort.BoardColumnDTO, len(boardColumns))
	out := &postPort.BoardDTO{UpdatedAt: s.now()}
	for _, col := range boardColumns {
		c := &postPort.BoardColumnDTO{Key: col.Key, Status: string(col.Status), Posts: []*postPort.PostDTO{}}
		index[col.Status] = c
		out.Columns = append(out.Columns, c)
	}
	for i, p := range posts {
		if c, ok := index[p.Status]; ok {
			c.Posts = append(c.Posts, dtos[i])
		}
	}
	return out, nil
}

func (s *CalendarService) toDTOs(ctx context.Context, cu auth.CurrentUser, posts []*postEntity.Post) ([]*postPort.PostDTO, error) {
	clients, err := s.ClientRepository.FindByOwner(ctx, cu.ID.String())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID.String()] = c.CompanyName
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID.String())
	}
	counts, err := s.ReviewRepository.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		var name *string
		if p.ClientID != nil {
			if n, ok := names[p.ClientID.String()]; ok {
				name = &n
			}
		}
		out = append(out, postPort.NewPostDTO(p, name, counts[p.ID.String()]))
	}
	return out, nil
}
