package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"go-blog-api/internal/storage"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

// multipartMemory is how much of a form is buffered before parts spill to
// temporary files.
const multipartMemory = 1 << 20

func parseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apierror.New(apierror.CodePayloadTooLarge, "upload exceeds the size limit", "", http.StatusRequestEntityTooLarge)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return apierror.Validation("expected a multipart form", "")
		}
		return apierror.Validation("invalid multipart body", err.Error())
	}

	return nil
}

// formImage returns the uploaded file under field, or nil when the field is
// absent. The caller closes the returned file.
func formImage(r *http.Request, field string) (*storage.UploadInput, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apierror.Validation("invalid file upload", field)
	}
	if !util.IsImageFilename(header.Filename) {
		_ = file.Close()
		return nil, nil, apierror.New(apierror.CodeUnsupportedType, "file is not a supported image", header.Filename, http.StatusUnsupportedMediaType)
	}

	name, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		name = field
	}

	return &storage.UploadInput{
		Name:        name,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	}, file, nil
}

func closeFile(file multipart.File) {
	if file != nil {
		_ = file.Close()
	}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
