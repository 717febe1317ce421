package services

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cricanalyzer/events"
	"cricanalyzer/utils"
)

const maxImageSize = 10 * 1024 * 1024

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// upload stores the multipart "file" field and points the record at it.
func (r *resource[T]) upload(c *fiber.Ctx, folder string, set func(*T, string)) error {
	rec, err := r.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest("Please upload a file")
	}
	if file.Size > maxImageSize {
		return utils.BadRequest("Please upload an image less than %d bytes", maxImageSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return utils.BadRequest("Please upload an image file")
	}
	if r.Media == nil {
		return utils.NewErrorResponse(fiber.StatusServiceUnavailable, "Media storage is not configured")
	}

	key := folder + "/" + uuid.NewString() + ext
	url, err := utils.SaveUpload(c.UserContext(), r.Media, file, key)
	if err != nil {
		return err
	}
	set(rec, url)
	if err := r.DB.WithContext(c.UserContext()).Save(rec).Error; err != nil {
		return err
	}
	r.announce(c, events.Updated, rec)
	utils.Log.WithField("key", key).Infof("[Media] stored %s upload", r.entity)
	return sendData(c, fiber.StatusOK, rec)
}
