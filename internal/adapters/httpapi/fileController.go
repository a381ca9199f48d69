package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 50 << 20

type FileController struct{ fc FileUseCase }

func NewFileController(fc FileUseCase) *FileController { return &FileController{fc: fc} }

// Upload expects a multipart form with a "file" part.
func (ctl *FileController) Upload(c *gin.Context) {
	cu, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res, err := ctl.fc.Upload(c.Request.Context(), cu, header.Filename, header.Size, contentType, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
