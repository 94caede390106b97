package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const uploadsDir = "/app/public/uploads/products"

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

func validateImageFile(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	const maxImageSize = 5 << 20
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return extension, nil
}

func saveImage(file *multipart.FileHeader) (string, error) {
	extension, err := validateImageFile(file)
	if err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", uploadsDir, err)
		return "", err
	}

	fullPath := filepath.Join(uploadsDir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	// relative path stored on the product document
	return filepath.ToSlash(filepath.Join("uploads", "products", filename)), nil
}

/*
POST /admin/api/uploads
- multipart form, repeated "images" field
- returns the stored relative paths in upload order
*/
func UploadProductImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart/form-data required"})
			return
		}

		files := form.File["images"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
			return
		}

		const maxImagesPerUpload = 8
		if len(files) > maxImagesPerUpload {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many images (max %d)", maxImagesPerUpload)})
			return
		}

		// Validate everything before writing anything so a bad file in the
		// batch does not leave partial uploads behind.
		for _, file := range files {
			if _, err := validateImageFile(file); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		paths := make([]string, 0, len(files))
		for _, file := range files {
			path, err := saveImage(file)
			if err != nil {
				for _, saved := range paths {
					if cleanupErr := safeDeleteUpload(saved); cleanupErr != nil {
						log.Printf("[UPLOAD] cleanup failed for %s: %v", saved, cleanupErr)
					}
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image save failed"})
				return
			}
			paths = append(paths, path)
		}

		log.Printf("[UPLOAD] stored %d images", len(paths))
		c.JSON(http.StatusCreated, gin.H{"paths": paths})
	}
}

/*
DELETE /admin/api/uploads
- body: {"path": "uploads/products/..."}
*/
func DeleteProductImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Path string `json:"path" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		if err := safeDeleteUpload(req.Path); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
	}
}
