package handler

import (
	"io"
	"path"
	"strings"

	"github.com/Mahmoudshee/Niru-DRS/internal/service"
	"github.com/gin-gonic/gin"
)

// 上传大小上限 20MB
const maxUploadSize = 20 << 20

// DocumentHandler 附件与签名上传处理器
type DocumentHandler struct {
	svc *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// UploadAttachment 上传请购附件，multipart字段名file
func (h *DocumentHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		BadRequest(c, "file exceeds 20MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	ref, err := h.svc.UploadAttachment(c.Request.Context(), file, fileHeader.Filename,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		InternalError(c, "upload failed: "+err.Error())
		return
	}
	Created(c, ref)
}

// UploadSignature 上传当前用户签名图
func (h *DocumentHandler) UploadSignature(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		BadRequest(c, "file exceeds 20MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	url, err := h.svc.UploadSignature(c.Request.Context(), GetUserID(c), file, fileHeader.Filename,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		InternalError(c, "upload failed: "+err.Error())
		return
	}
	Success(c, gin.H{"signature_url": url})
}

// Download 下载存储对象，object为完整对象路径
func (h *DocumentHandler) Download(c *gin.Context) {
	objectName := c.Query("object")
	if objectName == "" {
		BadRequest(c, "object is required")
		return
	}
	// 只允许访问本系统管理的两类对象前缀
	if !strings.HasPrefix(objectName, "requisitions/") && !strings.HasPrefix(objectName, "signatures/") {
		BadRequest(c, "invalid object path")
		return
	}

	reader, err := h.svc.Download(c.Request.Context(), objectName)
	if err != nil {
		InternalError(c, "download failed: "+err.Error())
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+path.Base(objectName))
	io.Copy(c.Writer, reader)
}

// DeleteSignature 删除当前用户签名图
func (h *DocumentHandler) DeleteSignature(c *gin.Context) {
	if err := h.svc.DeleteSignature(c.Request.Context(), GetUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}
