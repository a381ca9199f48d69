package httpapi

import (
	"net/http"

	postPort "postflow/internal/ports/post"

	"github.com/gin-gonic/gin"
)

// CalendarController serves the read models built over the owner's posts.
type CalendarController struct {
	cc CalendarUseCase
	dc DashboardUseCase
}

func NewCalendarController(cc CalendarUseCase, dc DashboardUseCase) *CalendarController {
	return &CalendarController{cc: cc, dc: dc}
}

func (ctl *CalendarController) GetCalendar(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.cc.Calendar(c.Request.Context(), cu, postPort.CalendarQuery{
		View:          c.Query("view"),
		Date:          c.Query("date"),
		Status:        c.Query("status"),
		SocialNetwork: c.Query("network"),
		ClientID:      c.Query("client"),
		Priority:      c.Query("priority"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CalendarController) GetBoard(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.cc.Board(c.Request.Context(), cu)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CalendarController) GetDashboard(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := ctl.dc.Dashboard(c.Request.Context(), cu)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
