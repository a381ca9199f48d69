package httpapi

import (
	"net/http"

	postEntity "postflow/internal/core/post"
	reviewEntity "postflow/internal/core/review"

	"github.com/gin-gonic/gin"
)

// PublicController serves the client review link. Nothing here is owner scoped.
type PublicController struct {
	pc PostUseCase
	rc ReviewUseCase
	cc ClientUseCase
}

func NewPublicController(pc PostUseCase, rc ReviewUseCase, cc ClientUseCase) *PublicController {
	return &PublicController{pc: pc, rc: rc, cc: cc}
}

func (ctl *PublicController) ListReviews(c *gin.Context) {
	reviews, err := ctl.rc.ListPublicReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (ctl *PublicController) CreateReview(c *gin.Context) {
	message, ok := bindMessage(c)
	if !ok {
		return
	}
	r, err := ctl.rc.SubmitReviewMessage(c.Request.Context(), c.Param("id"), message, reviewEntity.AuthorClient)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": r.ID})
}

func (ctl *PublicController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	// a missing or malformed body falls through as an empty status
	_ = c.ShouldBindJSON(&req)

	status, err := ctl.pc.PublicTransition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": c.Param("id"), "status": status})
}

// RequestAdjustment stores the message and moves the post to em_revisao together.
func (ctl *PublicController) RequestAdjustment(c *gin.Context) {
	message, ok := bindMessage(c)
	if !ok {
		return
	}
	res, err := ctl.rc.RequestAdjustment(c.Request.Context(), c.Param("id"), message, postEntity.ActorClient)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PublicController) ClientPosts(c *gin.Context) {
	res, err := ctl.cc.PublicClientPosts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
