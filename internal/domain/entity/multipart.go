package entity

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// MultipartPayload is the form sent to the store when a receipt is uploaded
type MultipartPayload struct {
	Email string
	File  ReceiptFile
}

// NewMultipartPayload builds the upload payload for a draft's receipt
func NewMultipartPayload(email string, file ReceiptFile) *MultipartPayload {
	return &MultipartPayload{Email: email, File: file}
}

// Encode writes the payload as multipart/form-data with "file" and "email" fields.
// The returned content type carries the generated boundary.
func (p *MultipartPayload) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", p.File.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(p.File.Content); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("email", p.Email); err != nil {
		return nil, "", fmt.Errorf("failed to write email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
