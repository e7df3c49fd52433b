package handler

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// UploadImage 处理后台图片上传请求，返回可直接写入内容的 URL。
// 能解码的图片顺带返回宽高，方便前台渲染时预留占位。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		a.logger.Error().Err(err).Str("dir", a.uploadDir).Msg("create upload dir failed")
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		a.logger.Error().Err(err).Msg("save upload failed")
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	width, height := probeImageSize(filePath)

	fileURL := strings.TrimSuffix(a.uploadURL, "/") + "/" + newFilename
	c.JSON(http.StatusOK, gin.H{
		"message": "上传成功",
		"url":     fileURL,
		"width":   width,
		"height":  height,
	})
}

// probeImageSize 尝试读取图片尺寸，不认识的格式返回 0。
func probeImageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
