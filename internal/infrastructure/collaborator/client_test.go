package collaborator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dgm-demo/internal/domain/entity"
)

type capturedUpload struct {
	method      string
	filename    string
	contentType string
	data        []byte
}

func TestClient_SendsMultipartImageField(t *testing.T) {
	captured := make(chan capturedUpload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		captured <- capturedUpload{
			method:      r.Method,
			filename:    header.Filename,
			contentType: header.Header.Get("Content-Type"),
			data:        data,
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":["a.png","b.png"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	file := entity.NewSelectedFile("shape.png", "image/png", []byte("png-data"))

	resp, err := client.Visualize(context.Background(), file)
	require.NoError(t, err)

	got := <-captured
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "shape.png", got.filename)
	require.Equal(t, "image/png", got.contentType)
	require.Equal(t, []byte("png-data"), got.data)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.ContentType)
	require.JSONEq(t, `{"images":["a.png","b.png"]}`, string(resp.Body))
}

func TestClient_CustomFieldName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("upload"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithFieldName("upload"))
	resp, err := client.Visualize(context.Background(), entity.NewSelectedFile("a.png", "image/png", []byte("x")))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_NonSuccessStatusIsNotTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Visualize(context.Background(), entity.NewSelectedFile("a.png", "", []byte("x")))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := NewClient(endpoint).Visualize(context.Background(), entity.NewSelectedFile("a.png", "", []byte("x")))
	require.Error(t, err)
	require.NotEmpty(t, err.Error())
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Visualize(context.Background(), entity.NewSelectedFile("a.png", "", []byte("x")))
	require.Error(t, err)
}

func TestEncodeMultipart_DefaultsFilename(t *testing.T) {
	body, contentType, err := encodeMultipart("image", &entity.SelectedFile{Data: []byte("x")})
	require.NoError(t, err)
	require.Contains(t, contentType, "multipart/form-data")
	require.Contains(t, body.String(), `filename="image"`)
	require.Contains(t, body.String(), "Content-Type: application/octet-stream")
}
