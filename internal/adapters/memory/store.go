package memory

import (
	"sync"

	"postflow/internal/core/client"
	"postflow/internal/core/file"
	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	"postflow/internal/core/review"
	"postflow/internal/core/user"
)

// Store keeps every table in process memory. A single mutex makes each
// repository call, including the multi-row writes, atomic.
type Store struct {
	mu      sync.Mutex
	posts   map[string]*post.Post
	reviews []*review.Review
	clients []*client.Client
	files   []*file.File
	users   map[string]*user.User
	outbox  []*outbox.Message
}

func NewStore() *Store {
	return &Store{
		posts: make(map[string]*post.Post),
		users: make(map[string]*user.User),
	}
}

// appendEvents must be called with mu held.
func (s *Store) appendEvents(events []*outbox.Message) {
	for _, ev := range events {
		if ev == nil {
			continue
		}
		cp := *ev
		s.outbox = append(s.outbox, &cp)
	}
}

func copyPost(p *post.Post) *post.Post {
	cp := *p
	if p.ClientID != nil {
		id := *p.ClientID
		cp.ClientID = &id
	}
	return &cp
}

func copyClient(c *client.Client) *client.Client {
	cp := *c
	cp.Services = append([]string(nil), c.Services...)
	return &cp
}

func copyFile(f *file.File) *file.File {
	cp := *f
	if f.PostID != nil {
		id := *f.PostID
		cp.PostID = &id
	}
	return &cp
}
