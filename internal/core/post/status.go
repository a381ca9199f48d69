package post

import "strings"

type Status string

const (
	StatusPending  Status = "pendente"
	StatusInReview Status = "em_revisao"
	StatusApproved Status = "aprovado"
	StatusRejected Status = "rejeitado"
)

// Statuses lists every value that may be persisted, in workflow order.
var Statuses = []Status{StatusPending, StatusInReview, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Actor is whoever triggers a transition: staff through the admin UI or the
// client through the public review link.
type Actor string

const (
	ActorStaff  Actor = "user"
	ActorClient Actor = "client"
)

// Board column names used by older clients.
var legacyAliases = map[string]Status{
	"concluido":    StatusApproved,
	"em_progresso": StatusInReview,
	"pendente":     StatusPending,
}

// NormalizeAlias maps legacy board statuses onto persisted ones and returns
// anything else unchanged.
func NormalizeAlias(raw string) string {
	if s, ok := legacyAliases[raw]; ok {
		return string(s)
	}
	return raw
}

// ParseStatus normalizes aliases and rejects anything outside the four states.
func ParseStatus(raw string) (Status, error) {
	s := Status(NormalizeAlias(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

var publicStatuses = map[Status]bool{
	StatusApproved: true,
	StatusRejected: true,
	StatusInReview: true,
}

// ParsePublicStatus accepts only the values the public review page may send.
// Aliases are not normalized here.
func ParsePublicStatus(raw string) (Status, error) {
	s := Status(raw)
	if !publicStatuses[s] {
		return "", ErrInvalidStatus
	}
	return s, nil
}

var clientTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusInReview},
	StatusInReview: {StatusApproved},
}

// CanTransition reports whether actor may move a post from one status to another.
// Staff may move between any two valid states; clients follow clientTransitions.
func CanTransition(actor Actor, from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	switch actor {
	case ActorStaff:
		return true
	case ActorClient:
		for _, allowed := range clientTransitions[from] {
			if allowed == to {
				return true
			}
		}
	}
	return false
}
