package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	postPort "postflow/internal/ports/post"

	"github.com/gin-gonic/gin"
)

type PostController struct{ pc PostUseCase }

func NewPostController(pc PostUseCase) *PostController { return &PostController{pc: pc} }

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req postPort.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), cu, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	posts, err := ctl.pc.ListPosts(c.Request.Context(), cu, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (ctl *PostController) GetPost(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := ctl.pc.GetPost(c.Request.Context(), cu, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePost takes a partial body; keys outside the allow-list are ignored.
func (ctl *PostController) UpdatePost(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	req, err := decodeUpdateRequest(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ctl.pc.UpdatePost(c.Request.Context(), cu, c.Param("id"), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": c.Param("id")})
}

// UpdateStatus is the board's drag between columns.
func (ctl *PostController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	status, err := ctl.pc.TransitionStatus(c.Request.Context(), cu, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": c.Param("id"), "status": status})
}

// decodeUpdateRequest keeps absent keys nil. JSON null reads as "", which clears client_id.
func decodeUpdateRequest(raw []byte) (postPort.UpdatePostRequest, error) {
	var req postPort.UpdatePostRequest
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return req, err
	}

	fields := map[string]**string{
		"status":         &req.Status,
		"title":          &req.Title,
		"publish_date":   &req.PublishDate,
		"social_network": &req.SocialNetwork,
		"priority":       &req.Priority,
		"client_id":      &req.ClientID,
		"tema":           &req.Theme,
		"especificacao":  &req.Specification,
		"content":        &req.Content,
	}
	for key, dst := range fields {
		value, ok := body[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(value, &s); err != nil {
			return req, err
		}
		if s == nil {
			empty := ""
			s = &empty
		}
		*dst = s
	}
	return req, nil
}
