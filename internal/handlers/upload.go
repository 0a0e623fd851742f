package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classiccarrry/classic-carrry-backend/internal/cloudinary"
	"github.com/classiccarrry/classic-carrry-backend/internal/logging"
)

const maxUploadFiles = 10

// UploadImage handles POST /api/upload (admin): one multipart "image" file
// forwarded to Cloudinary.
func UploadImage(images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/upload"
		defer handlePanic(c, route)

		if !images.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Image hosting is not configured")
			return
		}

		header, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, "No image file provided")
			return
		}

		file, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Could not read image file")
			return
		}
		defer file.Close()

		result, err := images.Upload(c.Request.Context(), header.Filename, file)
		if err != nil {
			logging.From(c).Error("image upload failed", "filename", header.Filename, "error", err)
			respondError(c, http.StatusBadGateway, "Image upload failed")
			return
		}

		respondData(c, http.StatusOK, gin.H{
			"url":      result.SecureURL,
			"publicId": result.PublicID,
			"width":    result.Width,
			"height":   result.Height,
			"format":   result.Format,
		})
	}
}

// UploadImages handles POST /api/upload/multiple (admin): up to ten files in
// the multipart "images" field. One bad file fails the batch before any
// upload starts; a mid-batch Cloudinary failure reports what did go through.
func UploadImages(images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/upload/multiple"
		defer handlePanic(c, route)

		if !images.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Image hosting is not configured")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "No image files provided")
			return
		}
		files := form.File["images"]
		if len(files) == 0 {
			respondError(c, http.StatusBadRequest, "No image files provided")
			return
		}
		if len(files) > maxUploadFiles {
			respondError(c, http.StatusBadRequest, "Maximum 10 images per upload")
			return
		}

		uploaded := make([]gin.H, 0, len(files))
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				respondError(c, http.StatusBadRequest, "Could not read image file")
				return
			}

			result, err := images.Upload(c.Request.Context(), header.Filename, file)
			file.Close()
			if err != nil {
				logging.From(c).Error("image upload failed",
					"filename", header.Filename, "uploaded", len(uploaded), "error", err)
				c.JSON(http.StatusBadGateway, gin.H{
					"success": false,
					"message": "Image upload failed",
					"data":    uploaded,
				})
				return
			}

			uploaded = append(uploaded, gin.H{
				"url":      result.SecureURL,
				"publicId": result.PublicID,
				"width":    result.Width,
				"height":   result.Height,
				"format":   result.Format,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(uploaded),
			"data":    uploaded,
		})
	}
}

// DeleteImage handles DELETE /api/upload (admin) by publicId or url.
func DeleteImage(images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !images.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Image hosting is not configured")
			return
		}

		var req struct {
			PublicID string `json:"publicId"`
			URL      string `json:"url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		publicID := req.PublicID
		if publicID == "" {
			publicID = cloudinary.PublicIDFromURL(req.URL)
		}
		if publicID == "" {
			respondError(c, http.StatusBadRequest, "publicId or url is required")
			return
		}

		if err := images.Destroy(c.Request.Context(), publicID); err != nil {
			logging.From(c).Error("image delete failed", "publicId", publicID, "error", err)
			respondError(c, http.StatusBadGateway, "Image delete failed")
			return
		}

		respondMessage(c, http.StatusOK, "Image deleted successfully")
	}
}
