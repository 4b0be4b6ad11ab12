package handler

import (
	"context"
	"fmt"
	"io"

	importapp "github.com/Apolones/estore/internal/application/import"
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/Apolones/estore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Importer loads uploaded archives and CSV files
type Importer interface {
	ImportArchive(ctx context.Context, fileName string, data []byte, encoding string) (*importapp.ImportResult, error)
	ImportCSV(ctx context.Context, kind store.EntityKind, fileName string, data []byte, encoding string) (*importapp.ImportResult, error)
}

// ImportHandler handles archive and per-entity CSV uploads
type ImportHandler struct {
	BaseHandler
	importer      Importer
	maxUploadSize int64
}

// NewImportHandler creates a new ImportHandler. maxUploadSize bounds how much
// of an upload is read into memory.
func NewImportHandler(importer Importer, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{
		importer:      importer,
		maxUploadSize: maxUploadSize,
	}
}

// UploadArchive godoc
// @Summary      Import a ZIP archive of CSV files
// @Description  Loads every CSV entry of the archive in dependency order. Each file is committed on its own; the first failing file stops the import and earlier files stay loaded. Entries are matched by file name, case-sensitively: the name must be an entity name (Shop.csv, ElectroItem.csv) optionally followed by a non-letter suffix (Shop_2024.csv, ElectroItem-part1.csv). Names such as export_Shop.csv or shops.csv are rejected as unknown files.
// @Tags         import
// @ID           uploadArchive
// @Accept       multipart/form-data
// @Produce      json
// @Param        file		formData	file	true	"ZIP archive"
// @Param        encoding	formData	string	false	"Charset of the CSV files"	default(Windows-1251)
// @Success      200			{object}	APIResponse[dto.ImportResultResponse]
// @Failure      400			{object}	ErrorResponse
// @Failure      413			{object}	ErrorResponse
// @Failure      422			{object}	ErrorResponse
// @Failure      500			{object}	ErrorResponse
// @Router       /upload/zip [post]
func (h *ImportHandler) UploadArchive(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.importer.ImportArchive(c.Request.Context(), fileName, data, c.PostForm("encoding"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewImportResultResponse(result))
}

// UploadCSV godoc
// @Summary      Import one CSV file of a single entity kind
// @Description  Loads the file into the entity table named by the path. The file is committed as a whole or not at all.
// @Tags         import
// @ID           uploadCSV
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind		path		string	true	"Entity kind"	Enums(shop, electrotype, positiontype, purchasetype, electroitem, employee, purchase, electroshop, electroemployee)
// @Param        file		formData	file	true	"CSV file"
// @Param        encoding	formData	string	false	"Charset of the file"	default(Windows-1251)
// @Success      200			{object}	APIResponse[dto.ImportResultResponse]
// @Failure      400			{object}	ErrorResponse
// @Failure      413			{object}	ErrorResponse
// @Failure      422			{object}	ErrorResponse
// @Failure      500			{object}	ErrorResponse
// @Router       /{kind}/csv [post]
func (h *ImportHandler) UploadCSV(kind store.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileName, data, ok := h.readUpload(c)
		if !ok {
			return
		}

		result, err := h.importer.ImportCSV(c.Request.Context(), kind, fileName, data, c.PostForm("encoding"))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, dto.NewImportResultResponse(result))
	}
}

// readUpload reads the multipart "file" field. It stops reading one byte past
// the limit so oversized uploads fail without being buffered whole.
func (h *ImportHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.HandleError(c, &store.FormatError{Reason: "multipart field \"file\" is required", Err: err})
		return "", nil, false
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		h.HandleError(c, &store.SizeLimitExceededError{Size: header.Size, Limit: h.maxUploadSize})
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		h.HandleError(c, fmt.Errorf("failed to read upload: %w", err))
		return "", nil, false
	}
	if int64(len(data)) > h.maxUploadSize {
		h.HandleError(c, &store.SizeLimitExceededError{Size: int64(len(data)), Limit: h.maxUploadSize})
		return "", nil, false
	}

	return header.Filename, data, true
}
