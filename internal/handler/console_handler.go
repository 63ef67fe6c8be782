package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/beyoung-commerce/admin-console/internal/api"
	"github.com/beyoung-commerce/admin-console/internal/domain"
	"github.com/beyoung-commerce/admin-console/internal/form"
	"github.com/beyoung-commerce/admin-console/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Inline image uploads are bounded so a runaway body cannot exhaust memory.
const maxImageBytes = 8 << 20

type ConsoleHandler struct {
	console *service.ConsoleService
	logger  *zap.Logger
}

func NewConsoleHandler(console *service.ConsoleService, logger *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		console: console,
		logger:  logger,
	}
}

func (h *ConsoleHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
		})
		return
	}

	if err := h.console.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ConsoleHandler) Logout(c *gin.Context) {
	if err := h.console.Logout(); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to log out",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ConsoleHandler) ListProducts(c *gin.Context) {
	products, err := h.console.Products(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ConsoleHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.console.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ConsoleHandler) OpenDraft(c *gin.Context) {
	var req domain.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
		})
		return
	}

	id, err := h.console.OpenDraft(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	draft, err := h.console.Draft(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"draft_id": id,
		"draft":    draft.Snapshot(),
	})
}

func (h *ConsoleHandler) GetDraft(c *gin.Context) {
	draft, err := h.console.Draft(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

func (h *ConsoleHandler) CloseDraft(c *gin.Context) {
	if err := h.console.CloseDraft(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// DraftOp applies one form mutation to an open draft and returns the updated
// draft, option lists included, so the caller can re-render.
func (h *ConsoleHandler) DraftOp(c *gin.Context) {
	draft, err := h.console.Draft(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req domain.DraftOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
		})
		return
	}

	if err := applyOp(draft, req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft.Snapshot())
}

var errUnknownOp = errors.New("unknown op")

func applyOp(draft *form.Draft, req domain.DraftOpRequest) error {
	switch req.Op {
	case "set_title":
		return draft.SetTitle(req.Value)
	case "set_description":
		return draft.SetDescription(req.Value)
	case "set_main_category":
		return draft.SetMainCategory(req.Value)
	case "set_sub_category":
		return draft.SetSubCategory(req.Value)
	case "set_specific_type":
		return draft.SetSpecificType(req.Value)
	case "set_color":
		return draft.SetColor(req.Variant, req.Value)
	case "set_custom_color":
		return draft.SetCustomColor(req.Variant, req.Value)
	case "set_specification":
		return draft.SetSpecification(req.Key, req.Value)
	case "set_custom_specification":
		return draft.SetCustomSpecification(req.Key, req.Value)
	case "set_price":
		return draft.SetPrice(req.Variant, req.Field, req.Value)
	case "add_variant":
		return draft.AddVariant()
	case "remove_variant":
		return draft.RemoveVariant(req.Variant)
	case "add_size":
		return draft.AddSize(req.Variant)
	case "remove_size":
		return draft.RemoveSize(req.Variant, req.Size)
	case "set_size":
		return draft.SetSize(req.Variant, req.Size, req.Field, req.Value)
	case "clear_image":
		return draft.ClearImage(req.Value)
	default:
		return errUnknownOp
	}
}

// UploadImage accepts raw file bytes for a slot. Encoding is asynchronous,
// so the response only acknowledges that the upload was issued.
func (h *ConsoleHandler) UploadImage(c *gin.Context) {
	draft, err := h.console.Draft(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Failed to read image",
		})
		return
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Image must be between 1 byte and 8 MiB",
		})
		return
	}

	if err := draft.SetImage(c.Param("slot"), data); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "encoding"})
}

func (h *ConsoleHandler) SubmitDraft(c *gin.Context) {
	saved, err := h.console.SubmitDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		var validation *form.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message":  "Validation failed",
				"failures": validation.Failures,
			})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

// respondError maps the service and client error kinds onto statuses. The
// backend's own message is surfaced where one exists.
func (h *ConsoleHandler) respondError(c *gin.Context, err error) {
	var authErr *api.AuthError
	var validationErr *api.ValidationError
	var netErr *api.NetworkError

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"message": authErr.Message})
	case errors.Is(err, api.ErrProductNotFound), errors.Is(err, service.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": validationErr.Message})
	case errors.Is(err, form.ErrSubmitInFlight), errors.Is(err, form.ErrDraftClosed):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, form.ErrBadIndex), errors.Is(err, form.ErrBadField), errors.Is(err, errUnknownOp):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.As(err, &netErr):
		h.logger.Error("Backend call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": netErr.Message})
	default:
		h.logger.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
	}
}
