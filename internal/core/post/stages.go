package post

import "strings"

// Stages is the two-gate view of a flat status: theme approval first, then
// final content approval.
type Stages struct {
	Theme   Status
	Content Status
}

const (
	themePrefix   = "tema_"
	contentPrefix = "conteudo_"
)

// DeriveStages projects a stored status string onto the theme and content stages.
// It understands both the prefixed and the bare status generations.
func DeriveStages(status string) Stages {
	s := strings.ToLower(status)
	if strings.HasPrefix(s, themePrefix) {
		return Stages{Theme: Status(strings.TrimPrefix(s, themePrefix)), Content: StatusPending}
	}
	if strings.HasPrefix(s, contentPrefix) {
		return Stages{Theme: StatusApproved, Content: Status(strings.TrimPrefix(s, contentPrefix))}
	}
	switch s {
	case "pendente":
		return Stages{Theme: StatusPending, Content: StatusPending}
	case "em_revisao":
		return Stages{Theme: StatusApproved, Content: StatusInReview}
	case "aprovado", "publicado":
		return Stages{Theme: StatusApproved, Content: StatusApproved}
	case "rejeitado":
		return Stages{Theme: StatusApproved, Content: StatusRejected}
	default:
		return Stages{Theme: StatusPending, Content: StatusPending}
	}
}

func StageLabel(s Status) string {
	switch s {
	case StatusApproved:
		return "APROVADO"
	case StatusPending:
		return "PENDENTE"
	case StatusRejected:
		return "REJEITADO"
	case StatusInReview:
		return "AJUSTE"
	default:
		return strings.ToUpper(string(s))
	}
}
