package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	videoUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/video"
)

type VideoHandler struct {
	watchVideoUseCase *videoUC.WatchVideoUseCase
}

func NewVideoHandler(uc *videoUC.WatchVideoUseCase) *VideoHandler {
	return &VideoHandler{watchVideoUseCase: uc}
}

func (h *VideoHandler) WatchVideo(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.watchVideoUseCase.Execute(c.Request.Context(), videoUC.WatchVideoInput{Document: doc})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: output.Message})
}
