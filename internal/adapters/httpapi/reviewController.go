package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReviewController struct{ rc ReviewUseCase }

func NewReviewController(rc ReviewUseCase) *ReviewController { return &ReviewController{rc: rc} }

type messageRequest struct {
	Message string `json:"message"`
}

// bindMessage treats an empty body as an empty message.
func bindMessage(c *gin.Context) (string, bool) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return "", false
	}
	return req.Message, true
}

func (ctl *ReviewController) ListReviews(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	reviews, err := ctl.rc.ListReviews(c.Request.Context(), cu, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (ctl *ReviewController) CreateReview(c *gin.Context) {
	message, ok := bindMessage(c)
	if !ok {
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	r, err := ctl.rc.SubmitStaffReview(c.Request.Context(), cu, c.Param("id"), message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": r.ID})
}
