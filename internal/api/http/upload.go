package http

import (
	"errors"
	"mime/multipart"
	"net/http"
)

// MissingUploadWarning is shown when evaluation is requested without a file.
const MissingUploadWarning = "Please upload a PDF file."

var errNoUpload = errors.New("no file uploaded")

// formFile pulls the "file" part of a multipart form, capping the body at
// maxBytes. A request that is not multipart counts as having no file.
func formFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil, errNoUpload
		}
		return nil, nil, err
	}
	f, fh, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, errNoUpload
	}
	return f, fh, err
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
