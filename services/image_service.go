package services

import (
	"fmt"
	"mime/multipart"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/utils"
)

// ImageService handles product photo upload, retrieval, and deletion
type ImageService interface {
	// UploadImage validates and stores a photo under the given key,
	// returning the storage key
	UploadImage(fileHeader *multipart.FileHeader, key string) (string, error)

	// GetImageURL resolves a storage key to a URL the kiosk can render
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes a photo from storage
	DeleteImage(imageKey string) error
}

// S3ImageService implements ImageService backed by S3
type S3ImageService struct {
	s3Service S3Interface
}

// LocalImageService implements ImageService on the local filesystem; used
// when no S3 bucket is configured
type LocalImageService struct {
	uploadDir string
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with an S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{s3Service: s3Service}
	return imageServiceInstance
}

// InitLocalImageService initializes the image service with a local backend
func InitLocalImageService(uploadDir string) ImageService {
	imageServiceInstance = &LocalImageService{uploadDir: uploadDir}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads a photo to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader, key string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader, key)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s3Key, nil
}

// GetImageURL generates a presigned URL for a photo
func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes a photo from S3
func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// UploadImage validates and saves a photo to the local uploads directory
func (s *LocalImageService) UploadImage(fileHeader *multipart.FileHeader, key string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, s.uploadDir, key)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return filename, nil
}

// GetImageURL returns the local serving path for a photo
func (s *LocalImageService) GetImageURL(imageKey string) (string, error) {
	return utils.LocalImageURL(imageKey), nil
}

// DeleteImage is a no-op for local storage; stale files are cleaned up out
// of band
func (s *LocalImageService) DeleteImage(imageKey string) error {
	return nil
}
