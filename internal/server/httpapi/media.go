package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) presignUpload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	key, url, err := h.media.PresignUpload(c.Request.Context(), currentUser(c).ID, req.Kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, uploadResponse{Key: key, URL: url})
}

func (h *Handler) presignDownload(c *gin.Context) {
	url, err := h.media.PresignDownload(c.Request.Context(), currentUser(c).ID, c.Param("key"))
	if err != nil {
		h.failNotFound(c, err, "Media not found")
		return
	}
	c.JSON(http.StatusOK, downloadResponse{URL: url})
}
