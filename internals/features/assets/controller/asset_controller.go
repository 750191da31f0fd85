package controller

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"classtrack_backend/internals/authz"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/helpers/oss"
	"classtrack_backend/internals/middlewares/auth"
)

// AssetController serves the blob side channel: session photos and payment
// screenshots live in object storage and the API only passes keys around.
type AssetController struct {
	OSS         *oss.Service
	AssetFolder string
}

func NewAssetController(svc *oss.Service, assetFolder string) *AssetController {
	return &AssetController{OSS: svc, AssetFolder: strings.TrimSuffix(assetFolder, "/")}
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type deleteRequest struct {
	Key string `json:"key"`
}

// Presign hands the client a signed PUT URL so large uploads bypass the API.
func (ctrl *AssetController) Presign(c *fiber.Ctx) error {
	if err := authz.AssertLoggedIn(auth.AuthFromLocals(c)); err != nil {
		return helper.FromError(c, err)
	}

	var body presignRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Filename == "" {
		return helper.Error(c, fiber.StatusBadRequest, "filename is required")
	}
	contentType := body.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ctrl.buildKey(body.Filename)
	url, err := ctrl.OSS.Presign(key, contentType, 15*time.Minute)
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "failed to presign upload")
	}
	return helper.Success(c, "upload url issued", fiber.Map{
		"key":        key,
		"upload_url": url,
		"public_url": ctrl.OSS.PublicURL(key),
	})
}

// Upload takes a multipart image, re-encodes it as webp and stores it.
func (ctrl *AssetController) Upload(c *fiber.Ctx) error {
	if err := authz.AssertLoggedIn(auth.AuthFromLocals(c)); err != nil {
		return helper.FromError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "file is required")
	}

	data, err := oss.ConvertToWebP(fh)
	if err != nil {
		return helper.Error(c, fiber.StatusUnsupportedMediaType, err.Error())
	}

	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	key := ctrl.buildKey(base + ".webp")
	if err := ctrl.OSS.Put(c.UserContext(), key, bytes.NewReader(data), "image/webp"); err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "failed to store file")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "file uploaded", fiber.Map{
		"key":        key,
		"public_url": ctrl.OSS.PublicURL(key),
	})
}

func (ctrl *AssetController) Delete(c *fiber.Ctx) error {
	if err := authz.AssertAdmin(auth.AuthFromLocals(c)); err != nil {
		return helper.FromError(c, err)
	}

	var body deleteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	key := body.Key
	if key == "" || !strings.HasPrefix(key, ctrl.AssetFolder+"/") {
		return helper.Error(c, fiber.StatusBadRequest, "key must live under the asset folder")
	}
	if err := ctrl.OSS.Delete(c.UserContext(), key); err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "failed to delete file")
	}
	return helper.Success(c, "file deleted", nil)
}

var keyUnsafe = regexp.MustCompile(`[^a-z0-9.\-]+`)

// buildKey kebab-cases the filename and prefixes a uuid so concurrent uploads
// of the same name never collide.
func (ctrl *AssetController) buildKey(filename string) string {
	safe := keyUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(filename)), "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("%s/uploads/%s-%s", ctrl.AssetFolder, uuid.NewString(), safe)
}
