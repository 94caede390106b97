package handlers

import (
	"mime/multipart"
	"testing"
)

func TestValidateImageFileRejectsUnknownExtension(t *testing.T) {
	file := &multipart.FileHeader{Filename: "catalog.pdf", Size: 1024}
	if _, err := validateImageFile(file); err == nil {
		t.Fatal("expected error for .pdf upload")
	}
}

func TestValidateImageFileRejectsMissingExtension(t *testing.T) {
	file := &multipart.FileHeader{Filename: "image", Size: 1024}
	if _, err := validateImageFile(file); err == nil {
		t.Fatal("expected error for upload without extension")
	}
}

func TestValidateImageFileRejectsOversizedUpload(t *testing.T) {
	file := &multipart.FileHeader{Filename: "photo.jpg", Size: 6 << 20}
	if _, err := validateImageFile(file); err == nil {
		t.Fatal("expected error for 6MB upload")
	}
}

func TestValidateImageFileAcceptsSupportedTypes(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		file := &multipart.FileHeader{Filename: name, Size: 1024}
		if _, err := validateImageFile(file); err != nil {
			t.Fatalf("expected %s to be accepted, got %v", name, err)
		}
	}
}
