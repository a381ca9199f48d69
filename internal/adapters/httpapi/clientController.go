package httpapi

import (
	"net/http"

	clientPort "postflow/internal/ports/client"

	"github.com/gin-gonic/gin"
)

type ClientController struct{ cc ClientUseCase }

func NewClientController(cc ClientUseCase) *ClientController { return &ClientController{cc: cc} }

func (ctl *ClientController) ListClients(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	clients, err := ctl.cc.ListClients(c.Request.Context(), cu)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (ctl *ClientController) CreateClient(c *gin.Context) {
	var req clientPort.SaveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.cc.CreateClient(c.Request.Context(), cu, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *ClientController) UpdateClient(c *gin.Context) {
	var req clientPort.SaveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.cc.UpdateClient(c.Request.Context(), cu, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *ClientController) DeleteClient(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ctl.cc.DeleteClient(c.Request.Context(), cu, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SlugAvailable answers ?slug=...&exclude=<client id being edited>.
func (ctl *ClientController) SlugAvailable(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	slug, available, err := ctl.cc.SlugAvailable(c.Request.Context(), cu, c.Query("slug"), c.Query("exclude"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug, "available": available})
}
