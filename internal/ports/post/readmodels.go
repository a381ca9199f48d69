package post

import (
	"time"

	"postflow/internal/core/post"
)

// NewPostDTO maps a stored post onto its API shape with both stage projections.
func NewPostDTO(p *post.Post, clientName *string, reviewCount int64) *PostDTO {
	stages := post.DeriveStages(string(p.Status))
	dto := &PostDTO{
		ID:            p.ID.String(),
		Title:         p.Title,
		Theme:         p.Theme,
		Specification: p.Specification,
		ContentType:   p.ContentType,
		SocialNetwork: p.SocialNetwork,
		PublishDate:   p.PublishDate,
		Priority:      string(p.Priority),
		ClientName:    clientName,
		Content:       p.Content,
		Status:        string(p.Status),
		Stages: StagesDTO{
			Roteiro:       string(stages.Theme),
			Conteudo:      string(stages.Content),
			RoteiroLabel:  post.StageLabel(stages.Theme),
			ConteudoLabel: post.StageLabel(stages.Content),
		},
		ReviewCount: reviewCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ClientID != nil {
		id := p.ClientID.String()
		dto.ClientID = &id
	}
	return dto
}

type CalendarQuery struct {
	View          string
	Date          string // YYYY-MM-DD, defaults to today
	Status        string
	SocialNetwork string
	ClientID      string
	Priority      string
}

type CalendarDayDTO struct {
	Date  string     `json:"date"`
	Posts []*PostDTO `json:"posts"`
}

type CalendarDTO struct {
	View  string            `json:"view"`
	Start string            `json:"start"`
	End   string            `json:"end"` // last day included
	Days  []*CalendarDayDTO `json:"days"`
	Total int               `json:"total"`
}

type BoardColumnDTO struct {
	Key    string     `json:"key"`
	Status string     `json:"status"`
	Posts  []*PostDTO `json:"posts"`
}

type BoardDTO struct {
	Columns   []*BoardColumnDTO `json:"columns"`
	UpdatedAt time.Time         `json:"updated_at"`
}
