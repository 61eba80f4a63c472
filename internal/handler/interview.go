package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abhishek622/portfolio/pkg/model"
	"github.com/abhishek622/portfolio/pkg/response"
)

const interviewNotFound = "Interview experience not found"

func (h *Handler) ListInterviews(c *gin.Context) {
	var q model.ListInterviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		// every parameter is optional; unusable values fall back to defaults
		h.Logger.Sugar().Warnw("list interviews bad query", "err", err)
	}

	page, err := h.Interviews.List(c.Request.Context(), model.ParseInterviewQuery(q))
	if err != nil {
		h.fail(c, "failed to list interviews", interviewNotFound, err)
		return
	}

	response.OK(c, gin.H{
		"interviews": page.Interviews,
		"pagination": page.Pagination,
	})
}

func (h *Handler) GetInterview(c *gin.Context) {
	id := c.Param("id")
	interview, err := h.Interviews.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get interview", interviewNotFound, err, "id", id)
		return
	}
	response.OK(c, gin.H{"interview": interview})
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.Interviews.Companies(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list companies", interviewNotFound, err)
		return
	}
	response.OK(c, gin.H{"companies": companies})
}

func (h *Handler) FeaturedInterviews(c *gin.Context) {
	limit := model.ParseLimit(c.Query("limit"), model.DefaultFeaturedLimit)
	interviews, err := h.Interviews.Featured(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, "failed to list featured interviews", interviewNotFound, err)
		return
	}
	response.OK(c, gin.H{"interviews": interviews})
}

func (h *Handler) CreateInterview(c *gin.Context) {
	var req model.CreateInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("create interview bad request", "err", err)
		response.BadRequest(c, "Invalid request body")
		return
	}

	interview, err := h.Interviews.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to create interview", interviewNotFound, err)
		return
	}
	h.Logger.Sugar().Infow("interview created", "id", interview.ID, "company", interview.Company)
	response.Created(c, gin.H{"interview": interview})
}

func (h *Handler) UpdateInterview(c *gin.Context) {
	id := c.Param("id")
	var req model.UpdateInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("update interview bad request", "id", id, "err", err)
		response.BadRequest(c, "Invalid request body")
		return
	}

	interview, err := h.Interviews.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "failed to update interview", interviewNotFound, err, "id", id)
		return
	}
	response.OK(c, gin.H{"interview": interview})
}

func (h *Handler) DeleteInterview(c *gin.Context) {
	id := c.Param("id")
	if err := h.Interviews.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "failed to delete interview", interviewNotFound, err, "id", id)
		return
	}
	h.Logger.Sugar().Infow("interview deleted", "id", id)
	response.Message(c, "Interview experience deleted successfully")
}
