package request

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
)

// FormFile is a file part of a multipart form. Content is kept in memory so
// the form can be replayed after a token refresh.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// FormData is a multipart payload. It is sent as is, never JSON encoded.
type FormData struct {
	Fields map[string]string
	Files  []FormFile
}

// AddField sets a text field.
func (f *FormData) AddField(name, value string) *FormData {
	if f.Fields == nil {
		f.Fields = map[string]string{}
	}
	f.Fields[name] = value
	return f
}

// AddFile appends a file part.
func (f *FormData) AddFile(field, fileName, contentType string, content []byte) *FormData {
	f.Files = append(f.Files, FormFile{Field: field, FileName: fileName, ContentType: contentType, Content: content})
	return f
}

// encode returns the body and its content type including the boundary.
func (f *FormData) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for name, value := range f.Fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", multipart.FileContentDisposition(file.Field, file.FileName))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err = part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}
