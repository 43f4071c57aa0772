package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"cityguide/internal/domain/users"
	"cityguide/internal/images"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, token, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "storefront"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadImage(t *testing.T) {
	app, _ := newTestApplication(t)
	token := tokenFor(t, app, createUser(t, app, "xena", users.RoleUser))
	png := []byte("\x89PNG\r\n\x1a\nfake")

	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		wantStatus  int
		wantMessage string
	}{
		{"png", "image", "front.PNG", "image/png", http.StatusOK, "Image uploaded successfully"},
		{"missing file", "", "", "", http.StatusBadRequest, "no image file provided"},
		{"wrong field", "photo", "front.png", "image/png", http.StatusBadRequest, "no image file provided"},
		{"not an image", "image", "notes.txt", "text/plain", http.StatusBadRequest, images.ErrNotImage.Error()},
		{"image type with bad extension", "image", "front.exe", "image/png", http.StatusBadRequest, images.ErrNotImage.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.mount().ServeHTTP(rr, multipartRequest(t, token, tt.field, tt.filename, tt.contentType, png))

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			var resp testResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp.Message)

			if tt.wantStatus == http.StatusOK {
				assert.True(t, resp.Success)
				assert.Regexp(t, `^place-\d+-\d+\.png$`, resp.Filename)
				assert.Equal(t, "http://localhost:5000/uploads/"+resp.Filename, resp.ImageURL)
			}
		})
	}
}

func TestUploadImageChecksContent(t *testing.T) {
	app, _ := newTestApplication(t)
	token := tokenFor(t, app, createUser(t, app, "yuri", users.RoleUser))

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, multipartRequest(t, token, "image", "front.png", "image/png", []byte("<html><script>alert(1)</script></html>")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp testResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, images.ErrNotImage.Error(), resp.Message)
}

func TestUploadImageRequiresAuth(t *testing.T) {
	app, _ := newTestApplication(t)

	req := multipartRequest(t, "", "image", "a.png", "image/png", []byte("x"))
	req.Header.Del("Authorization")
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPushTokens(t *testing.T) {
	app, _ := newTestApplication(t)
	user := createUser(t, app, "yara", users.RoleUser)
	token := tokenFor(t, app, user)
	ctx := context.Background()

	rr, _ := do(t, app, http.MethodPost, "/api/push-tokens", token, SavePushTokenRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, app, http.MethodPost, "/api/push-tokens", token, SavePushTokenRequest{
		Token:      "ExponentPushToken[abc]",
		DeviceInfo: json.RawMessage(`{"platform":"ios"}`),
	})
	require.Equal(t, http.StatusNoContent, rr.Code)

	saved, err := app.store.PushTokens.TokensForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, saved)

	rr, _ = do(t, app, http.MethodDelete, "/api/push-tokens", token, RemovePushTokenRequest{Token: "ExponentPushToken[abc]"})
	require.Equal(t, http.StatusNoContent, rr.Code)

	saved, err = app.store.PushTokens.TokensForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	app, _ := newTestApplication(t)
	token := tokenFor(t, app, createUser(t, app, "zed", users.RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/api/push-tokens", strings.NewReader(`{"token":"t","extra":1}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
