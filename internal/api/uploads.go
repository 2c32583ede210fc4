package api

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"rcs-gateway/internal/media"
	"rcs-gateway/internal/storage"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	Files *storage.FileStore
}

func NewUploadHandler(files *storage.FileStore) *UploadHandler {
	return &UploadHandler{Files: files}
}

// maxUploadBytes caps a single upload before any compliance pass runs.
const maxUploadBytes = 100 * 1024 * 1024

var allowedUploadExts = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".mp4": true, ".webm": true, ".m4v": true, ".pdf": true,
}

var allowedUploadTokens = []string{"jpeg", "jpg", "png", "gif", "mp4", "webm", "m4v", "pdf"}

// allowedUploadMIME accepts a content type naming any allowed format, so
// both "image/jpeg" and "video/mp4" pass without a full media-type table.
func allowedUploadMIME(mimetype string) bool {
	for _, token := range allowedUploadTokens {
		if strings.Contains(mimetype, token) {
			return true
		}
	}
	return false
}

func isImageExt(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

// Upload stores one media file. Images destined for an image or card slot
// get an RCS compliance pass first; when that pass fails for any reason the
// original file is kept and the upload still succeeds.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	uploadType := c.PostForm("type")
	if uploadType == "" {
		uploadType = "file"
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExts[ext] || !allowedUploadMIME(fileHeader.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only images, videos, and PDFs are allowed."})
		return
	}

	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 100MB."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	name := h.Files.UniqueName(fileHeader.Filename)
	originalSize := len(data)

	finalName := name
	finalData := data
	resized := false
	var dimensions *storage.Dimensions

	if isImageExt(ext) && (uploadType == "image" || uploadType == "card") {
		res, err := media.NormalizeImage(data)
		if err != nil {
			// Keep the original upload; compliance is best-effort.
			log.Printf("Image processing error for %s: %v", fileHeader.Filename, err)
		} else {
			dimensions = &storage.Dimensions{Width: res.Width, Height: res.Height}
			if res.Resized {
				finalName = strings.TrimSuffix(name, ext) + "_rcs" + ext
				finalData = res.Bytes
				resized = true
				log.Printf("Resized %s to %dx%d, %d bytes", fileHeader.Filename, res.Width, res.Height, len(res.Bytes))
			}
		}
	}

	if _, err := h.Files.Save(finalName, finalData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"filename":     finalName,
		"url":          fileURL(c, finalName),
		"mimetype":     fileHeader.Header.Get("Content-Type"),
		"size":         len(finalData),
		"originalSize": originalSize,
		"resized":      resized,
		"dimensions":   dimensions,
	})
}

// Delete removes a previously uploaded file.
func (h *UploadHandler) Delete(c *gin.Context) {
	filename := c.Param("filename")
	if err := h.Files.Delete(filename); err != nil {
		if err == storage.ErrFileNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted successfully"})
}

// fileURL builds the publicly resolvable URL for an upload. Behind a proxy
// the forwarded headers win; plain local HTTP is the only case that does not
// default to https.
func fileURL(c *gin.Context, filename string) string {
	forwardedProto := c.GetHeader("X-Forwarded-Proto")
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}

	protocol := "https"
	if forwardedProto == "" && c.Request.TLS == nil &&
		!strings.Contains(host, "cloudfront") && !strings.Contains(host, "vonage") {
		protocol = "http"
	}

	return protocol + "://" + host + "/uploads/" + filename
}
