package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/pkg/response"
)

func jobIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid job id")
		return 0, false
	}
	return id, true
}

// Distribute 直接分发请求体中的职位，id 必须指向已存在的职位
// @Summary 分发职位到全部平台
// @Description 每个平台一条结果，单平台失败不影响其他平台。审计记录挂在 id 对应的职位上
// @Tags 分发
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.JobPosting true "职位"
// @Success 200 {object} response.Response{data=[]social.Outcome}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/distributions [post]
func (h *Handler) Distribute(c *gin.Context) {
	var job model.JobPosting
	if err := c.ShouldBindJSON(&job); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if job.ID <= 0 {
		response.BadRequest(c, "invalid job id")
		return
	}
	// 审计按 job_id 归档，不接受库里没有的职位
	if _, err := h.jobs.GetByID(c.Request.Context(), job.ID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, h.distributor.DistributeToAll(c.Request.Context(), &job))
}

// DistributeJob 按 ID 加载职位并分发
// @Summary 分发已存在的职位
// @Tags 分发
// @Produce json
// @Security BearerAuth
// @Param id path int true "职位ID"
// @Success 200 {object} response.Response{data=[]social.Outcome}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/jobs/{id}/distribute [post]
func (h *Handler) DistributeJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, h.distributor.DistributeToAll(c.Request.Context(), job))
}

// Announce 登记异步分发事件
// @Summary 异步分发（outbox）
// @Tags 分发
// @Produce json
// @Security BearerAuth
// @Param id path int true "职位ID"
// @Success 202 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Router /api/v1/jobs/{id}/announce [post]
func (h *Handler) Announce(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	eventID, err := h.announcer.Announce(c.Request.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Accepted(c, gin.H{"event_id": eventID, "job_id": id})
}

// ListDistributions 查询职位分发记录
// @Summary 分发审计记录
// @Tags 分发
// @Produce json
// @Param id path int true "职位ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/jobs/{id}/distributions [get]
func (h *Handler) ListDistributions(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	latest, err := h.audits.Latest(c.Request.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrAuditNotFound) {
		response.InternalError(c, err)
		return
	}
	list, err := h.audits.History(c.Request.Context(), id, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"latest": latest, "page": page, "page_size": pageSize, "list": list})
}

// Platforms 平台配置状态
// @Summary 平台凭证是否已配置
// @Tags 分发
// @Produce json
// @Success 200 {object} response.Response{data=[]service.PlatformStatus}
// @Router /api/v1/platforms [get]
func (h *Handler) Platforms(c *gin.Context) {
	response.Success(c, h.distributor.Platforms())
}
