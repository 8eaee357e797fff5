package wizard

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"nr6/internal/domain"
)

// Attachment is the optional supporting document held beside the record.
// It is never serialized into a draft.
type Attachment struct {
	Filename    string
	ContentType string
	FileType    domain.FileType
	Data        []byte
}

// Size returns the attachment size in bytes.
func (a *Attachment) Size() int64 {
	return int64(len(a.Data))
}

// NewAttachment checks the declared content type, the size, and the sniffed
// content before accepting a file. The sniffed type must be allowed too, so a
// renamed executable cannot pass as a PDF.
func NewAttachment(filename, declaredType string, data []byte) (*Attachment, error) {
	declared := normalizeContentType(declaredType)
	fileType, ok := domain.AllowedContentTypes[declared]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, declaredType)
	}

	if int64(len(data)) > domain.MaxAttachmentBytes {
		return nil, fmt.Errorf("%w: %d bytes, max %d", domain.ErrFileTooLarge, len(data), domain.MaxAttachmentBytes)
	}

	sniffed := normalizeContentType(http.DetectContentType(data))
	sniffedType, ok := domain.AllowedContentTypes[sniffed]
	if !ok || sniffedType != fileType {
		return nil, fmt.Errorf("%w: content is %q", domain.ErrUnsupportedFileType, sniffed)
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == "/" || name == "" {
		name = "attachment." + string(fileType)
	}

	return &Attachment{
		Filename:    name,
		ContentType: domain.AllowedFileTypes[fileType],
		FileType:    fileType,
		Data:        data,
	}, nil
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
