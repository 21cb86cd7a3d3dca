package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// VideoContentType is the content type of the uploaded file part.
const VideoContentType = "video/mp4"

// Field is one scalar multipart part.
type Field struct {
	Name  string
	Value string
}

// postMultipart streams fields followed by the file as the part named fileField.
// The phone field always comes first.
func (c *Client) postMultipart(ctx context.Context, endpoint Endpoint, fields []Field, fileField, filePath string, out any) error {
	phone, token, err := c.credential(ctx)
	if err != nil {
		return err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s: open file: %w", endpoint, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, phone, fields, fileField, f))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+string(endpoint), pr)
	if err != nil {
		_ = pr.Close()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	err = c.do(req, endpoint, out)
	// Unblock the writer if the transport gave up before reading the whole body.
	_ = pr.Close()
	return err
}

func writeMultipart(mw *multipart.Writer, phone string, fields []Field, fileField string, file io.Reader) error {
	if err := mw.WriteField(ParamPhone, phone); err != nil {
		return err
	}
	for _, fl := range fields {
		if fl.Name == ParamPhone {
			continue
		}
		if err := mw.WriteField(fl.Name, fl.Value); err != nil {
			return err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, "video-"+uuid.NewString()+".mp4"))
	h.Set("Content-Type", VideoContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return mw.Close()
}

// IDFields renders ids as repeated "name[]" parts.
func IDFields(name string, ids []int) []Field {
	out := make([]Field, 0, len(ids))
	for _, id := range ids {
		out = append(out, Field{Name: name + "[]", Value: strconv.Itoa(id)})
	}
	return out
}
