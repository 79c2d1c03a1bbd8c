package files

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrop/gateway/internal/errs"
	"github.com/filedrop/gateway/internal/response"
	"github.com/filedrop/gateway/internal/storage"
)

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func newTestHandler() (*Handler, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage("test-bucket")
	return NewHandler(newTestService(store)), store
}

func TestHandler_Upload(t *testing.T) {
	h, store := newTestHandler()
	body, ct := multipartBody(t, "file", "my file!.pdf", "application/pdf", []byte("%PDF-1.4 x"))

	req := httptest.NewRequest(http.MethodPost, "/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp uploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "uploads/my_file.pdf", resp.Key)
	assert.Contains(t, resp.URL, "X-Amz-Expires=60")

	data, storedType, ok := store.Object("uploads/my_file.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4 x"), data)
	assert.Equal(t, "application/pdf", storedType)
}

func TestHandler_Upload_SurvivesClientCancel(t *testing.T) {
	h, store := newTestHandler()
	body, ct := multipartBody(t, "file", "a.pdf", "application/pdf", []byte("%PDF-1.7"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/files/upload", body).WithContext(ctx)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data, _, ok := store.Object("uploads/a.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.7"), data)
}

func TestHandler_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		ctype    string
		data     []byte
		wantMsg  string
	}{
		{"zip", "file", "archive.zip", "application/zip", []byte("PK\x03\x04"), "invalid file type"},
		{"wrong field", "document", "a.pdf", "application/pdf", []byte("%PDF"), `no file provided under "file" field`},
		{"empty file", "file", "a.pdf", "application/pdf", nil, `no file provided under "file" field`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestHandler()
			body, ct := multipartBody(t, tt.field, tt.filename, tt.ctype, tt.data)

			req := httptest.NewRequest(http.MethodPost, "/files/upload", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.Upload(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var eb response.ErrorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&eb))
			assert.Contains(t, eb.Error, tt.wantMsg)

			objs, err := store.List(req.Context(), "")
			require.NoError(t, err)
			assert.Empty(t, objs)
		})
	}
}

func TestHandler_Upload_NotMultipart(t *testing.T) {
	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/files/upload", bytes.NewBufferString(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Upload_TooLarge(t *testing.T) {
	h, store := newTestHandler()
	body, ct := multipartBody(t, "file", "huge.png", "image/png", make([]byte, MaxFileSize+1))

	req := httptest.NewRequest(http.MethodPost, "/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file too large")
	_, _, ok := store.Object("uploads/huge.png")
	assert.False(t, ok)
}

func TestHandler_List(t *testing.T) {
	h, store := newTestHandler()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	require.NoError(t, store.Put(ctx, "uploads/a.pdf", bytes.NewReader([]byte("a")), 1, "application/pdf"))
	require.NoError(t, store.Put(ctx, "other/b.pdf", bytes.NewReader([]byte("bb")), 2, "application/pdf"))

	list := func(target string) []StoredObject {
		t.Helper()
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var objs []StoredObject
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&objs))
		return objs
	}

	def := list("/files")
	require.Len(t, def, 1)
	assert.Equal(t, "uploads/a.pdf", def[0].Key)
	require.NotNil(t, def[0].Size)
	assert.Equal(t, int64(1), *def[0].Size)

	assert.Len(t, list("/files?prefix="), 2)

	other := list("/files?prefix=other/")
	require.Len(t, other, 1)
	assert.Equal(t, "other/b.pdf", other[0].Key)

	assert.Empty(t, list("/files?prefix=none/"))
}

func TestHandler_List_EmptyIsArray(t *testing.T) {
	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/files", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_Link(t *testing.T) {
	h, _ := newTestHandler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantIn     string
	}{
		{"default lifetime", "/files/url?key=uploads/a.pdf", http.StatusOK, "X-Amz-Expires=60"},
		{"explicit lifetime", "/files/url?key=uploads/a.pdf&expiresIn=900", http.StatusOK, "X-Amz-Expires=900"},
		{"missing key", "/files/url", http.StatusBadRequest, `missing \"key\" query parameter`},
		{"blank key", "/files/url?key=%20%20", http.StatusBadRequest, `missing \"key\" query parameter`},
		{"non numeric", "/files/url?key=a&expiresIn=soon", http.StatusBadRequest, "expiresIn"},
		{"zero", "/files/url?key=a&expiresIn=0", http.StatusBadRequest, "expiresIn"},
		{"too long", "/files/url?key=a&expiresIn=604801", http.StatusBadRequest, "expiresIn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Link(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantIn)
		})
	}
}

func TestParseExpiresIn(t *testing.T) {
	v, err := ParseExpiresIn("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLinkTTL, v)

	v, err = ParseExpiresIn(" 300 ")
	require.NoError(t, err)
	assert.Equal(t, 300, v)

	for _, raw := range []string{"abc", "1.5", "-5", "0", "60s"} {
		_, err := ParseExpiresIn(raw)
		assert.True(t, errs.IsInvalidInput(err), raw)
	}
}
