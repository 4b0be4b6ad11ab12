package handler

import (
	"context"

	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportHistoryReader reads recorded imports
type ImportHistoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error)
	List(ctx context.Context, filter bulk.ImportHistoryFilter) (*bulk.ImportHistoryListResult, error)
}

// ImportHistoryHandler serves the import history
type ImportHistoryHandler struct {
	BaseHandler
	history ImportHistoryReader
}

// NewImportHistoryHandler creates a new ImportHistoryHandler
func NewImportHistoryHandler(history ImportHistoryReader) *ImportHistoryHandler {
	return &ImportHistoryHandler{history: history}
}

// ListHistory godoc
// @Summary      List imports
// @Description  Returns recorded imports, newest first
// @Tags         import
// @ID           listImports
// @Produce      json
// @Param        source		query		string	false	"Filter by upload kind"	Enums(archive, csv)
// @Param        status		query		string	false	"Filter by status"	Enums(processing, completed, failed)
// @Param        page		query		int		false	"Page number"	default(1)
// @Param        page_size	query		int		false	"Page size"	default(20)	maximum(100)
// @Param        order_by	query		string	false	"Sort column"	Enums(started_at, file_name, status, rows_loaded)
// @Param        order_dir	query		string	false	"Sort direction"	Enums(asc, desc)
// @Success      200			{object}	APIResponse[[]dto.ImportHistoryResponse]
// @Failure      400			{object}	ErrorResponse
// @Failure      500			{object}	ErrorResponse
// @Router       /imports [get]
func (h *ImportHistoryHandler) ListHistory(c *gin.Context) {
	var req dto.ImportHistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.history.List(c.Request.Context(), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewImportHistoryListResponse(result), result.TotalCount, result.Page, result.PageSize)
}

// GetHistory godoc
// @Summary      Get one import
// @Tags         import
// @ID           getImport
// @Produce      json
// @Param        id	path		string	true	"Import ID"	format(uuid)
// @Success      200	{object}	APIResponse[dto.ImportHistoryResponse]
// @Failure      400	{object}	ErrorResponse
// @Failure      404	{object}	ErrorResponse
// @Failure      500	{object}	ErrorResponse
// @Router       /imports/{id} [get]
func (h *ImportHistoryHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import ID")
		return
	}

	history, err := h.history.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportHistoryResponse(history))
}
