package container

import (
	"dgm-demo/config"
	app "dgm-demo/internal/application"
	"dgm-demo/internal/domain/port"
	"dgm-demo/internal/infrastructure/collaborator"
	"dgm-demo/internal/infrastructure/storage"
	"dgm-demo/internal/infrastructure/vision"
)

type Container struct {
	SessionService *app.SessionService
	DemoService    *app.DemoService
	Blobs          port.BlobStore
	Previewer      port.ImagePreviewer
}

func New(sessionRepo port.SessionRepository, visualizer port.Visualizer, blobs port.BlobStore, previewer port.ImagePreviewer, options app.ControllerOptions) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	demoService := app.NewDemoService(sessionService, visualizer, blobs, options)

	return &Container{
		SessionService: sessionService,
		DemoService:    demoService,
		Blobs:          blobs,
		Previewer:      previewer,
	}
}

// Close освобождает контроллеры и картинки.
func (c *Container) Close() {
	c.DemoService.Close()
}

// Build собирает приложение из конфигурации.
func Build(cfg *config.Config) *Container {
	visualizer := collaborator.NewClient(cfg.EndpointURL,
		collaborator.WithFieldName(cfg.UploadField),
		collaborator.WithTimeout(cfg.RequestTimeout),
	)

	return New(
		storage.NewMemorySessionRepository(),
		visualizer,
		storage.NewMemoryBlobStore(),
		vision.NewPreviewer(cfg.PreviewMaxSide),
		app.ControllerOptions{StrictContentType: cfg.StrictContentType},
	)
}
