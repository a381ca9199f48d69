package httpapi

import (
	"errors"
	"net/http"

	"postflow/internal/adapters/httpapi/middleware"
	"postflow/internal/auth"
	"postflow/internal/core/calendar"
	clientEntity "postflow/internal/core/client"
	fileEntity "postflow/internal/core/file"
	postEntity "postflow/internal/core/post"
	reviewEntity "postflow/internal/core/review"
	userEntity "postflow/internal/core/user"

	"github.com/gin-gonic/gin"
)

// Messages the review page and admin UI show as-is.
const (
	msgEmptyMessage      = "Mensagem vazia"
	msgInvalidStatus     = "Status inválido"
	msgNothingToUpdate   = "Nada para atualizar"
	msgClientNotFound    = "Cliente não encontrado"
	msgPostNotFound      = "Post não encontrado"
	msgFileNotFound      = "Arquivo não encontrado"
	msgTransitionDenied  = "Transição de status não permitida"
	msgSlugTaken         = "Slug já está em uso"
	msgEmailTaken        = "E-mail já cadastrado"
	msgInvalidInput      = "invalid input"
	msgInvalidCredential = "invalid credentials"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, reviewEntity.ErrEmptyMessage):
		return http.StatusBadRequest, msgEmptyMessage
	case errors.Is(err, postEntity.ErrInvalidStatus):
		return http.StatusBadRequest, msgInvalidStatus
	case errors.Is(err, postEntity.ErrNothingToUpdate):
		return http.StatusBadRequest, msgNothingToUpdate
	case errors.Is(err, clientEntity.ErrNotFound):
		return http.StatusNotFound, msgClientNotFound
	case errors.Is(err, postEntity.ErrNotFound):
		return http.StatusNotFound, msgPostNotFound
	case errors.Is(err, fileEntity.ErrNotFound):
		return http.StatusNotFound, msgFileNotFound
	case errors.Is(err, postEntity.ErrValidation),
		errors.Is(err, clientEntity.ErrValidation),
		errors.Is(err, fileEntity.ErrValidation),
		errors.Is(err, userEntity.ErrValidation),
		errors.Is(err, reviewEntity.ErrInvalidAuthor),
		errors.Is(err, calendar.ErrInvalidView):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, postEntity.ErrTransitionNotAllowed):
		return http.StatusConflict, msgTransitionDenied
	case errors.Is(err, clientEntity.ErrSlugTaken):
		return http.StatusConflict, msgSlugTaken
	case errors.Is(err, userEntity.ErrEmailTaken):
		return http.StatusConflict, msgEmailTaken
	case errors.Is(err, userEntity.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredential
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	c.JSON(status, gin.H{"error": msg})
}

// currentUser aborts with 401 when the JWT middleware did not run.
func currentUser(c *gin.Context) (auth.CurrentUser, bool) {
	cu, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
	}
	return cu, ok
}
