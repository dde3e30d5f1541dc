package utils

import (
	"io"
	"net/http"
	"os"
)

// UnknownMimeType is returned when the content type cannot be determined.
const UnknownMimeType = ""

// sniffLength is the number of leading bytes inspected by DetectMimeType.
const sniffLength = 8000

// DetectMimeType returns the MIME type of the file at filePath.
// It reads up to sniffLength bytes and uses http.DetectContentType.
// If the file cannot be read, UnknownMimeType is returned.
func DetectMimeType(filePath string) string {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return UnknownMimeType
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return UnknownMimeType
	}

	return http.DetectContentType(buffer[:bytesRead])
}
