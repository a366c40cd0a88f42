package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	documentshandler "claimflow-system/internal/services/documents/handler"
)

// maxUploadSize bounds a single document upload.
const maxUploadSize = 10 << 20

type DocumentsHTTPHandler struct {
	documents *documentshandler.DocumentHandler
}

func NewDocumentsHTTPHandler(documents *documentshandler.DocumentHandler) *DocumentsHTTPHandler {
	return &DocumentsHTTPHandler{documents: documents}
}

func (h *DocumentsHTTPHandler) Upload(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Please select a file to upload"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, errorResponse("File exceeds the upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Could not read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Could not read uploaded file"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	doc, err := h.documents.Upload(ctx, id, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Document uploaded successfully", doc))
}

func (h *DocumentsHTTPHandler) ListByClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	docs, err := h.documents.ListByClaim(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Documents retrieved successfully", docs))
}

func (h *DocumentsHTTPHandler) Delete(c *gin.Context) {
	docID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid document ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.documents.Delete(ctx, docID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Document deleted successfully", nil))
}
