package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// allowedAttachmentExts are the extensions accepted for leave attachments
var allowedAttachmentExts = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ValidateLeaveAttachment checks size, extension, and sniffs the content
// of a leave-request attachment (e.g. a medical certificate)
func ValidateLeaveAttachment(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of 10MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAttachmentExts[ext] {
		return fmt.Errorf("only PDF and image files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	buffer = buffer[:n]

	switch ext {
	case ".pdf":
		// PDF files start with %PDF
		if len(buffer) < 4 || string(buffer[0:4]) != "%PDF" {
			return fmt.Errorf("file is not a valid PDF")
		}
	case ".png":
		if len(buffer) < 8 || string(buffer[1:4]) != "PNG" {
			return fmt.Errorf("file is not a valid PNG")
		}
	case ".jpg", ".jpeg":
		if len(buffer) < 3 || buffer[0] != 0xFF || buffer[1] != 0xD8 {
			return fmt.Errorf("file is not a valid JPEG")
		}
	}

	return nil
}
