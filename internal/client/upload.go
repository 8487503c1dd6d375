package client

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// UploadInput is a budget PDF to upload
type UploadInput struct {
	MunicipalityID uuid.UUID
	DocType        string
	Year           int
	Filename       string
	Content        io.Reader
}

// Upload streams the file as a multipart form, the document starts pending
func (c *Client) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(writer, in))
	}()

	var res UploadResult
	if err := c.do(ctx, http.MethodPost, "/documents/upload", pr, writer.FormDataContentType(), &res); err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	return &res, nil
}

func writeUploadForm(writer *multipart.Writer, in UploadInput) error {
	if err := writer.WriteField("municipality_id", in.MunicipalityID.String()); err != nil {
		return err
	}
	if err := writer.WriteField("doc_type", in.DocType); err != nil {
		return err
	}
	if in.Year != 0 {
		if err := writer.WriteField("year", strconv.Itoa(in.Year)); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("file", in.Filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return err
	}
	return writer.Close()
}
