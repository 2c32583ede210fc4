package api_test

import (
	"bytes"
	"fmt"
	"io"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcs-gateway/internal/api"
	"rcs-gateway/internal/storage"
)

func uploadRouter(t *testing.T) (*gin.Engine, *storage.FileStore) {
	t.Helper()
	files, err := storage.NewFileStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	h := api.NewUploadHandler(files)

	r := gin.New()
	r.POST("/api/upload", h.Upload)
	r.DELETE("/api/upload/:filename", h.Delete)
	return r, files
}

func multipartUpload(t *testing.T, filename, mimetype, uploadType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", mimetype)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("type", uploadType))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type uploadResponse struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	Size         int    `json:"size"`
	OriginalSize int    `json:"originalSize"`
	Resized      bool   `json:"resized"`
	Dimensions   *struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
}

func TestUploadCompliantImage(t *testing.T) {
	r, files := uploadRouter(t)

	data := encodeJPEG(t, 640, 480)
	body, contentType := multipartUpload(t, "photo.jpg", "image/jpeg", "image", data)

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Host = "localhost:3000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Resized)
	assert.Equal(t, len(data), resp.Size)
	assert.Equal(t, len(data), resp.OriginalSize)
	require.NotNil(t, resp.Dimensions)
	assert.Equal(t, 640, resp.Dimensions.Width)
	assert.Equal(t, 480, resp.Dimensions.Height)
	assert.True(t, strings.HasSuffix(resp.Filename, ".jpg"))
	assert.Equal(t, "http://localhost:3000/uploads/"+resp.Filename, resp.URL)
	assert.True(t, files.Exists(resp.Filename))
}

func TestUploadOversizedImageIsResized(t *testing.T) {
	r, files := uploadRouter(t)

	body, contentType := multipartUpload(t, "big.jpg", "image/jpeg", "image", encodeJPEG(t, 2000, 1000))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Resized)
	assert.True(t, strings.HasSuffix(resp.Filename, "_rcs.jpg"), resp.Filename)
	require.NotNil(t, resp.Dimensions)
	assert.Equal(t, 1440, resp.Dimensions.Width)
	assert.Equal(t, 720, resp.Dimensions.Height)
	assert.True(t, files.Exists(resp.Filename))
}

func TestUploadVideoSkipsNormalization(t *testing.T) {
	r, _ := uploadRouter(t)

	body, contentType := multipartUpload(t, "clip.mp4", "video/mp4", "video", []byte("not really a video"))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Resized)
	assert.Nil(t, resp.Dimensions)
}

// A corrupt image still uploads: compliance normalization failing must never
// fail the upload itself.
func TestUploadCorruptImageKeepsOriginal(t *testing.T) {
	r, files := uploadRouter(t)

	data := []byte("jpeg on the label only")
	body, contentType := multipartUpload(t, "broken.jpg", "image/jpeg", "image", data)

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Resized)
	assert.Nil(t, resp.Dimensions)
	assert.Equal(t, len(data), resp.Size)
	assert.True(t, files.Exists(resp.Filename))
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	r, _ := uploadRouter(t)

	body, contentType := multipartUpload(t, "script.exe", "application/octet-stream", "file", []byte("nope"))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type")
}

// The extension alone is not enough: the declared content type has to name
// an allowed format too, so relabeled content never reaches storage.
func TestUploadRejectsMismatchedContentType(t *testing.T) {
	r, files := uploadRouter(t)

	body, contentType := multipartUpload(t, "evil.jpg", "text/html", "image", []byte("<script>alert(1)</script>"))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type")

	entries, err := os.ReadDir(files.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	r, files := uploadRouter(t)

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="huge.mp4"`)
		header.Set("Content-Type", "video/mp4")
		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		chunk := bytes.Repeat([]byte("a"), 1<<20)
		for written := 0; written <= 100; written++ {
			if _, err := part.Write(chunk); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(writer.Close())
	}()

	req := httptest.NewRequest("POST", "/api/upload", pr)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")

	entries, err := os.ReadDir(files.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := uploadRouter(t)

	req := httptest.NewRequest("POST", "/api/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestDeleteUpload(t *testing.T) {
	r, files := uploadRouter(t)

	name := files.UniqueName("doc.pdf")
	_, err := files.Save(name, []byte("pdf bytes"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/upload/"+name, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, files.Exists(name))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/upload/"+name, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadForwardedHeadersBuildHTTPSURL(t *testing.T) {
	r, _ := uploadRouter(t)

	body, contentType := multipartUpload(t, "photo.png", "image/png", "file", []byte("png-ish"))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "gw.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "https://gw.example.com/uploads/"))
}
