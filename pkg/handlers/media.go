package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicd-directory/pkg/config"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// UploadLogo stores an uploaded logo image under the public uploads
// directory with a collision-avoiding generated filename.
func (s *Server) UploadLogo(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "no file uploaded")
		return
	}

	if header.Size > config.MaxUploadSize {
		respondError(c, http.StatusBadRequest, codeInvalidInput,
			fmt.Sprintf("file exceeds maximum size of %d bytes", config.MaxUploadSize))
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to read upload")
		return
	}
	defer src.Close()

	// Sniff the actual content rather than trusting the client header.
	head := make([]byte, 512)
	n, _ := src.Read(head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "only image uploads are allowed")
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to read upload")
		return
	}

	if err := os.MkdirAll(config.UploadDir, 0755); err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to store upload")
		return
	}

	safeName := unsafeFilenameChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safeName)

	dst, err := os.Create(filepath.Join(config.UploadDir, filename))
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to store upload")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to store upload")
		return
	}

	s.logger.Info("logo uploaded",
		zap.String("file", filename),
		zap.Int64("size", header.Size),
		zap.String("request_id", requestID(c)))

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"url":       "/uploads/" + filename,
		"name":      filename,
		"size":      header.Size,
		"requestId": requestID(c),
	})
}
