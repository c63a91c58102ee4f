package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
	analytics       *analytics.Client
}

func newWorkflowHandler(ws portssvc.WorkflowSvcFacade, ac *analytics.Client) *workflowHandler {
	return &workflowHandler{workflowService: ws, analytics: ac}
}

// registerWorkflowRoutes registers workflow definition and approval routes.
func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade, ac *analytics.Client) {
	h := newWorkflowHandler(workflowService, ac)

	rg.POST("/workflows", h.createWorkflow)

	instances := rg.Group("/workflow-instances")
	{
		instances.POST("", h.startInstance)
		instances.GET("/:instanceID", h.getInstance)
		instances.POST("/:instanceID/approve", h.approveStep)
		instances.POST("/:instanceID/reject", h.rejectStep)
	}
}

// createWorkflow godoc
// @Summary Define an approval workflow
// @Description Creates the active workflow for an entity kind, replacing any previous one. A REJECT action is only valid on automatic steps, which then reject the instance.
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   workflow body dto.CreateWorkflowRequest true "Workflow definition"
// @Success 201 {object} domain.Workflow
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create workflow"
// @Security BearerAuth
// @Router /workflows [post]
func (h *workflowHandler) createWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkflowRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	wf, err := h.workflowService.CreateWorkflow(c.Request.Context(), tenantID, req, actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create workflow")
		return
	}

	logger.Info("Workflow created", slog.String("workflow_id", wf.WorkflowID), slog.String("entity_kind", string(wf.EntityKind)))
	c.JSON(http.StatusCreated, wf)
}

// startInstance godoc
// @Summary Start approval for an entity
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   request body dto.StartWorkflowRequest true "Entity to approve"
// @Success 201 {object} dto.WorkflowInstanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Approval already in progress"
// @Failure 422 {object} map[string]string "No workflow configured"
// @Failure 500 {object} map[string]string "Failed to start workflow"
// @Security BearerAuth
// @Router /workflow-instances [post]
func (h *workflowHandler) startInstance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StartWorkflowRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entity, err := domain.ParseEntityRef(req.EntityKind, req.EntityID)
	if err != nil {
		logger.Warn("Invalid entity reference", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.workflowService.Start(c.Request.Context(), tenantID, entity, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to start workflow")
		return
	}

	logger.Info("Workflow instance started", slog.String("instance_id", inst.InstanceID), slog.String("entity", domain.RefKey(entity)))
	c.JSON(http.StatusCreated, dto.ToWorkflowInstanceResponse(inst, nil))
}

// getInstance godoc
// @Summary Get a workflow instance with its action history
// @Tags workflows
// @Produce  json
// @Param   instanceID path string true "Workflow instance ID"
// @Success 200 {object} dto.WorkflowInstanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Instance not found"
// @Failure 500 {object} map[string]string "Failed to retrieve workflow instance"
// @Security BearerAuth
// @Router /workflow-instances/{instanceID} [get]
func (h *workflowHandler) getInstance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	instanceID := c.Param("instanceID")
	inst, err := h.workflowService.GetInstance(c.Request.Context(), tenantID, instanceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve workflow instance")
		return
	}
	actions, err := h.workflowService.ListActions(c.Request.Context(), tenantID, instanceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve workflow instance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkflowInstanceResponse(inst, actions))
}

// approveStep godoc
// @Summary Approve the current step
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   instanceID path string true "Workflow instance ID"
// @Param   decision body dto.StepDecisionRequest true "Step and comment"
// @Success 200 {object} dto.WorkflowInstanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not act on this step"
// @Failure 409 {object} map[string]string "Step mismatch or instance not pending"
// @Failure 500 {object} map[string]string "Failed to approve step"
// @Security BearerAuth
// @Router /workflow-instances/{instanceID}/approve [post]
func (h *workflowHandler) approveStep(c *gin.Context) {
	h.decide(c, true)
}

// rejectStep godoc
// @Summary Reject the current step
// @Description Rejection ends the instance and returns the entity to draft
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   instanceID path string true "Workflow instance ID"
// @Param   decision body dto.StepDecisionRequest true "Step and comment"
// @Success 200 {object} dto.WorkflowInstanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not act on this step"
// @Failure 409 {object} map[string]string "Step mismatch or instance not pending"
// @Failure 500 {object} map[string]string "Failed to reject step"
// @Security BearerAuth
// @Router /workflow-instances/{instanceID}/reject [post]
func (h *workflowHandler) rejectStep(c *gin.Context) {
	h.decide(c, false)
}

func (h *workflowHandler) decide(c *gin.Context, approve bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StepDecisionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	instanceID := c.Param("instanceID")
	logger = logger.With(slog.String("instance_id", instanceID), slog.Int("step_order", req.StepOrder))

	decision, fallback, event := h.workflowService.RejectStep, "Failed to reject step", "workflow_step_rejected"
	if approve {
		decision, fallback, event = h.workflowService.ApproveStep, "Failed to approve step", "workflow_step_approved"
	}

	inst, err := decision(c.Request.Context(), tenantID, instanceID, req.StepOrder, actor, req.Comment)
	if err != nil {
		respondError(c, logger, err, fallback)
		return
	}

	middleware.PosthogEvent(c, h.analytics, event, map[string]any{
		"instance_id": inst.InstanceID,
		"step_order":  req.StepOrder,
		"status":      string(inst.Status),
	})
	logger.Info("Workflow step decided", slog.Bool("approved", approve), slog.String("status", string(inst.Status)))
	c.JSON(http.StatusOK, dto.ToWorkflowInstanceResponse(inst, nil))
}
