package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/infrastructure/collaborator"
	"dgm-demo/internal/infrastructure/storage"
)

type visualizerFunc func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error)

func (f visualizerFunc) Visualize(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
	return f(ctx, file)
}

func respond(status int, contentType, body string) visualizerFunc {
	return func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		return &entity.CollaboratorResponse{StatusCode: status, ContentType: contentType, Body: []byte(body)}, nil
	}
}

func fail(err error) visualizerFunc {
	return func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		return nil, err
	}
}

func testFile(name string) *entity.SelectedFile {
	return entity.NewSelectedFile(name, "image/png", []byte("png-data"))
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not settle")
	}
}

func submitAndWait(t *testing.T, ctrl *UploadController, file *entity.SelectedFile) entity.Submission {
	t.Helper()
	wait(t, ctrl.Submit(context.Background(), file))
	return ctrl.State()
}

func TestUploadController_StartsIdle(t *testing.T) {
	ctrl := NewUploadController(respond(200, "", ""), storage.NewMemoryBlobStore(), ControllerOptions{})
	state := ctrl.State()
	require.Equal(t, entity.PhaseIdle, state.Phase)
	require.True(t, state.ShowsPlaceholder())
}

func TestUploadController_JSONImageList(t *testing.T) {
	ctrl := NewUploadController(respond(200, "application/json", `{"images":["a.png","b.png"]}`), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseSucceeded, state.Phase)
	require.Equal(t, []entity.ImageRef{{URI: "a.png"}, {URI: "b.png"}}, state.Images)
}

func TestUploadController_JSONWithCharset(t *testing.T) {
	ctrl := NewUploadController(respond(200, "application/json; charset=utf-8", `{"images":[]}`), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseSucceeded, state.Phase)
	require.Empty(t, state.Images)
	require.True(t, state.ShowsPlaceholder())
}

func TestUploadController_InvalidResponseFormat(t *testing.T) {
	ctrl := NewUploadController(respond(200, "application/json", `{"foo": 1}`), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Equal(t, "Invalid response format", state.Message)
}

func TestUploadController_MalformedJSON(t *testing.T) {
	ctrl := NewUploadController(respond(200, "application/json", `{"images": [`), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Equal(t, "Malformed JSON response", state.Message)
	require.False(t, state.IsBusy())
}

func TestUploadController_BinaryFallback(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	ctrl := NewUploadController(respond(200, "image/png", "\x89PNG-bytes"), blobs, ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseSucceeded, state.Phase)
	require.Len(t, state.Images, 1)
	require.True(t, state.Images[0].IsBlob())
	require.Equal(t, "image/png", state.Images[0].ContentType)

	data, _, ok := blobs.Get(state.Images[0])
	require.True(t, ok)
	require.Equal(t, []byte("\x89PNG-bytes"), data)
}

func TestUploadController_BinaryWithoutContentType(t *testing.T) {
	ctrl := NewUploadController(respond(200, "", "raw"), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseSucceeded, state.Phase)
	require.Len(t, state.Images, 1)
	require.Equal(t, entity.DefaultContentType, state.Images[0].ContentType)
}

func TestUploadController_StrictContentType(t *testing.T) {
	ctrl := NewUploadController(respond(200, "text/html", "<html>"), storage.NewMemoryBlobStore(), ControllerOptions{StrictContentType: true})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Equal(t, "Unsupported response type: text/html", state.Message)
}

func TestUploadController_HTTPFailure(t *testing.T) {
	ctrl := NewUploadController(respond(500, "application/json", `{"images":["a.png"]}`), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Contains(t, state.Message, "500")
	require.Empty(t, state.Images)
}

func TestUploadController_TransportFailure(t *testing.T) {
	ctrl := NewUploadController(fail(errors.New("dial tcp: connection refused")), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Equal(t, "dial tcp: connection refused", state.Message)
}

func TestUploadController_TransportFailureWithoutMessage(t *testing.T) {
	ctrl := NewUploadController(fail(errors.New("")), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, "Upload failed", state.Message)
}

func TestUploadController_PanicIsRecovered(t *testing.T) {
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		panic("decoder exploded")
	}), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.Equal(t, "Upload failed", state.Message)
	require.False(t, state.IsBusy())
}

func TestUploadController_BusyClearedForEveryOutcome(t *testing.T) {
	cases := map[string]visualizerFunc{
		"json":      respond(200, "application/json", `{"images":["a.png"]}`),
		"binary":    respond(200, "image/jpeg", "jpeg"),
		"http":      respond(404, "text/plain", "not found"),
		"transport": fail(errors.New("reset by peer")),
		"decode":    respond(200, "application/json", "not json"),
		"contract":  respond(200, "application/json", `{"images":"a.png"}`),
	}

	for name, visualizer := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := NewUploadController(visualizer, storage.NewMemoryBlobStore(), ControllerOptions{})
			state := submitAndWait(t, ctrl, testFile("shape.png"))
			require.False(t, state.IsBusy())
			require.True(t, state.Settled())
		})
	}
}

func TestUploadController_NilFileIsIgnored(t *testing.T) {
	ctrl := NewUploadController(respond(200, "", ""), storage.NewMemoryBlobStore(), ControllerOptions{})

	wait(t, ctrl.Submit(context.Background(), nil))
	require.Equal(t, entity.PhaseIdle, ctrl.State().Phase)
}

func TestUploadController_ResetOnResubmit(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		calls++
		if calls == 1 {
			return &entity.CollaboratorResponse{StatusCode: 500}, nil
		}
		<-release
		return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":["x.png"]}`)}, nil
	}), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("first.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)

	done := ctrl.Submit(context.Background(), testFile("second.png"))
	state = ctrl.State()
	require.True(t, state.IsBusy())
	require.Empty(t, state.Message)
	require.Empty(t, state.Images)

	close(release)
	wait(t, done)
	require.Equal(t, []entity.ImageRef{{URI: "x.png"}}, ctrl.State().Images)
}

func TestUploadController_ResubmitClearsImages(t *testing.T) {
	release := make(chan struct{})
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		if file.Name == "slow.png" {
			<-release
		}
		return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":["a.png"]}`)}, nil
	}), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("fast.png"))
	require.True(t, state.HasResults())

	done := ctrl.Submit(context.Background(), testFile("slow.png"))
	state = ctrl.State()
	require.True(t, state.IsBusy())
	require.False(t, state.HasResults())
	require.Empty(t, state.Images)

	close(release)
	wait(t, done)
}

func TestUploadController_StaleResultIsIgnored(t *testing.T) {
	release := make(chan struct{})
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		if file.Name == "slow.png" {
			<-release
			return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":["stale.png"]}`)}, nil
		}
		return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":["fresh.png"]}`)}, nil
	}), storage.NewMemoryBlobStore(), ControllerOptions{})

	slow := ctrl.Submit(context.Background(), testFile("slow.png"))
	fast := ctrl.Submit(context.Background(), testFile("fast.png"))

	wait(t, fast)
	require.Equal(t, []entity.ImageRef{{URI: "fresh.png"}}, ctrl.State().Images)

	close(release)
	wait(t, slow)
	state := ctrl.State()
	require.Equal(t, []entity.ImageRef{{URI: "fresh.png"}}, state.Images)
	require.Equal(t, uint64(2), state.Generation)
}

func TestUploadController_ResubmitCancelsPreviousRequest(t *testing.T) {
	cancelled := make(chan struct{})
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		if file.Name == "slow.png" {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":[]}`)}, nil
	}), storage.NewMemoryBlobStore(), ControllerOptions{})

	slow := ctrl.Submit(context.Background(), testFile("slow.png"))
	fast := ctrl.Submit(context.Background(), testFile("fast.png"))

	wait(t, cancelled)
	wait(t, slow)
	wait(t, fast)
	require.Equal(t, entity.PhaseSucceeded, ctrl.State().Phase)
}

func TestUploadController_ReleasesSupersededBlobs(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	ctrl := NewUploadController(respond(200, "image/png", "png"), blobs, ControllerOptions{})

	first := submitAndWait(t, ctrl, testFile("a.png"))
	require.Equal(t, 1, blobs.Len())

	second := submitAndWait(t, ctrl, testFile("b.png"))
	require.Equal(t, 1, blobs.Len())
	require.NotEqual(t, first.Images[0].URI, second.Images[0].URI)

	_, _, ok := blobs.Get(first.Images[0])
	require.False(t, ok)

	ctrl.Close()
	require.Equal(t, 0, blobs.Len())
}

func TestUploadController_StaleBlobIsReleased(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	release := make(chan struct{})
	ctrl := NewUploadController(visualizerFunc(func(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
		if file.Name == "slow.png" {
			<-release
			return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "image/png", Body: []byte("stale")}, nil
		}
		return &entity.CollaboratorResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"images":["a.png"]}`)}, nil
	}), blobs, ControllerOptions{})

	slow := ctrl.Submit(context.Background(), testFile("slow.png"))
	wait(t, ctrl.Submit(context.Background(), testFile("fast.png")))

	close(release)
	wait(t, slow)
	require.Equal(t, 0, blobs.Len())
}

func TestUploadController_Subscribe(t *testing.T) {
	ctrl := NewUploadController(respond(200, "application/json", `{"images":["a.png"]}`), storage.NewMemoryBlobStore(), ControllerOptions{})

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	first := <-updates
	require.Equal(t, entity.PhaseIdle, first.Phase)

	ctrl.Submit(context.Background(), testFile("shape.png"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case state := <-updates:
			require.False(t, state.IsBusy() && state.HasResults())
			if state.Settled() {
				require.Equal(t, entity.PhaseSucceeded, state.Phase)
				return
			}
		case <-deadline:
			t.Fatal("subscriber did not observe settlement")
		}
	}
}

func TestUploadController_UnsubscribeClosesChannel(t *testing.T) {
	ctrl := NewUploadController(respond(200, "", ""), storage.NewMemoryBlobStore(), ControllerOptions{})

	updates, unsubscribe := ctrl.Subscribe()
	<-updates
	unsubscribe()
	unsubscribe()

	_, ok := <-updates
	require.False(t, ok)
}

func TestUploadController_CloseStopsSubmissions(t *testing.T) {
	ctrl := NewUploadController(respond(200, "", ""), storage.NewMemoryBlobStore(), ControllerOptions{})
	updates, _ := ctrl.Subscribe()
	<-updates

	ctrl.Close()
	_, ok := <-updates
	require.False(t, ok)

	wait(t, ctrl.Submit(context.Background(), testFile("late.png")))
	require.Equal(t, entity.PhaseIdle, ctrl.State().Phase)
}

func TestUploadController_WithHTTPCollaborator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("image"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}))
	defer server.Close()

	blobs := storage.NewMemoryBlobStore()
	ctrl := NewUploadController(collaborator.NewClient(server.URL), blobs, ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseSucceeded, state.Phase)
	require.Len(t, state.Images, 1)
	require.Equal(t, 1, blobs.Len())
}

func TestUploadController_WithUnreachableCollaborator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	ctrl := NewUploadController(collaborator.NewClient(endpoint), storage.NewMemoryBlobStore(), ControllerOptions{})

	state := submitAndWait(t, ctrl, testFile("shape.png"))
	require.Equal(t, entity.PhaseFailed, state.Phase)
	require.NotEmpty(t, state.Message)
}
