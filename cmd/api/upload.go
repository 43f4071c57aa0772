package main

import (
	"errors"
	"net/http"
	"time"

	"cityguide/internal/images"
)

type UploadImageResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message" example:"Image uploaded successfully"`
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
}

// uploadImageHandler godoc
//
//	@Summary		Upload an image
//	@Description	Stores an image (max 5 MB) and returns its public URL for use in submissions and updates
//	@Tags			images
//	@Accept			mpfd
//	@Produce		json
//	@Param			image	formData	file	true	"Image file"
//	@Success		200		{object}	UploadImageResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/upload-image [post]
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	// room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			app.badRequestResponse(w, r, images.ErrTooLarge)
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			app.badRequestResponse(w, r, errors.New("no image file provided"))
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	if err := images.Validate(header); err != nil {
		app.domainError(w, r, err)
		return
	}
	if err := images.Sniff(file); err != nil {
		app.domainError(w, r, err)
		return
	}

	filename := images.NewFilename(header.Filename, time.Now())

	url, err := app.images.Save(r.Context(), filename, file)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.logger.Infow("image uploaded", "filename", filename, "size", header.Size, "user", getUserFromContext(r).ID)

	if err := writeJSON(w, http.StatusOK, &UploadImageResponse{
		Success:  true,
		Message:  "Image uploaded successfully",
		ImageURL: url,
		Filename: filename,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}
