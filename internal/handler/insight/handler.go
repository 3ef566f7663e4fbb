package insight

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emilyhospital/hospital-api/internal/handler"
	"github.com/emilyhospital/hospital-api/internal/service/insight"
)

type Handler struct {
	service *insight.Service
}

func NewHandler(service *insight.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	insights := r.Group("/ai-insights")
	{
		insights.POST("/kidney-stone", h.PredictKidneyStoneRisk)
		insights.GET("/:id", h.GetInsight)
	}
	r.GET("/patients/:id/ai-insights", h.ListInsights)
}

func (h *Handler) PredictKidneyStoneRisk(c *gin.Context) {
	actor, ok := handler.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	var req insight.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.PredictKidneyStoneRisk(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) GetInsight(c *gin.Context) {
	actor, ok := handler.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid insight ID"))
		return
	}

	result, err := h.service.GetInsight(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ListInsights(c *gin.Context) {
	actor, ok := handler.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	insights, err := h.service.ListInsights(c.Request.Context(), actor, patientID, offset, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(insights))
}
