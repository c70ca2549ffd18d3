package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const reviewPicDir = "static/reviewpic"

// SaveReviewImage decodes an uploaded image, stores the original as JPEG and
// a 300px-wide thumbnail under static/reviewpic, and returns the public path.
func SaveReviewImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := GenerateID(16)
	fileName := uniqueID + ".jpg"
	thumbDir := filepath.Join(reviewPicDir, "thumb")

	if err := ensureDirExists(reviewPicDir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := ensureDirExists(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(reviewPicDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(thumbDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/static/reviewpic/" + fileName, nil
}

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
