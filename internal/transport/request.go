package transport

import (
	"errors"
	"io"
	"net/http"

	"partforge/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxUploadSize bounds in-memory multipart parsing (uploads are buffered
// fully before validation).
const maxUploadSize = 10 << 20 // 10 MiB

var errInvalidID = errors.New("invalid id")

// objectIDParam parses a chi URL parameter as an ObjectID hex string
func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// parseObjectIDs converts a list of hex strings to ObjectIDs
func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			return nil, errInvalidID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// imageFromForm reads the optional "image" file of a multipart form.
// Returns (nil, nil) when no file was sent. The MIME type is taken from the
// part header; the allow-list check happens in the service.
func imageFromForm(r *http.Request) (*domain.Image, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &domain.Image{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// formValue returns a pointer to the form field value when the field was
// present in the request, nil otherwise. Partial updates rely on the
// present/absent distinction.
func formValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
