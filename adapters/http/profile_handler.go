package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/profile"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

type ProfileHandler struct {
	updateProfileUseCase *profileUC.UpdateProfileUseCase
	logger               logger.Logger
}

func NewProfileHandler(uc *profileUC.UpdateProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		updateProfileUseCase: uc,
		logger:               log,
	}
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.updateProfileUseCase.Execute(c.Request.Context(), profileUC.UpdateProfileInput{Document: doc}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Profile updated successfully"})
}
