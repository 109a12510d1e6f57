package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
)

// formField keeps multipart fields in submission order.
type formField struct {
	name  string
	value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartPayload(fields []formField, fileField string, photo *domain.Photo) (payload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if photo != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fileField), quoteEscaper.Replace(photo.Name)))
		contentType := photo.MIME
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return payload{}, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return payload{}, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return payload{}, fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return payload{}, fmt.Errorf("failed to finish form: %w", err)
	}

	return payload{body: &buf, contentType: writer.FormDataContentType()}, nil
}
