package app

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/domain/port"
)

// ControllerOptions настройки разбора ответа.
type ControllerOptions struct {
	// StrictContentType запрещает считать картинкой ответ с типом не image/*.
	StrictContentType bool
}

// UploadController ведёт жизненный цикл одной загрузки: Idle -> InFlight -> Succeeded/Failed.
type UploadController struct {
	visualizer port.Visualizer
	blobs      port.BlobStore
	options    ControllerOptions
	log        *logrus.Entry

	mu          sync.Mutex
	state       entity.Submission
	generation  uint64
	cancel      context.CancelFunc
	subscribers map[int]chan entity.Submission
	nextSubID   int
	closed      bool
}

// NewUploadController создаёт контроллер в состоянии Idle.
func NewUploadController(visualizer port.Visualizer, blobs port.BlobStore, options ControllerOptions) *UploadController {
	return &UploadController{
		visualizer:  visualizer,
		blobs:       blobs,
		options:     options,
		log:         logrus.WithField("component", "upload"),
		state:       entity.Idle(),
		subscribers: make(map[int]chan entity.Submission),
	}
}

// Submit переводит состояние в InFlight и отправляет файл в фоне.
// Возвращённый канал закрывается, когда эта отправка завершилась.
// Предыдущая незавершённая отправка отменяется, её результат не попадёт в состояние.
func (c *UploadController) Submit(ctx context.Context, file *entity.SelectedFile) <-chan struct{} {
	done := make(chan struct{})
	if file == nil {
		close(done)
		return done
	}

	reqCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		close(done)
		return done
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	generation := c.generation
	c.cancel = cancel
	superseded := c.state.Images
	c.state = entity.InFlight(generation)
	c.publishLocked()
	c.mu.Unlock()

	c.blobs.Release(superseded...)

	c.log.WithFields(logrus.Fields{
		"generation":   generation,
		"file":         file.Name,
		"content_type": file.ContentType,
		"size":         file.Size(),
	}).Info("submitting image")

	go func() {
		defer close(done)
		defer cancel()
		c.settle(generation, c.process(reqCtx, generation, file))
	}()

	return done
}

// process выполняет запрос и всегда возвращает завершённое состояние.
func (c *UploadController) process(ctx context.Context, generation uint64, file *entity.SelectedFile) (next entity.Submission) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("upload processing panicked")
			next = entity.Failed(generation, ErrUploadFailed.Error())
		}
	}()

	resp, err := c.visualizer.Visualize(ctx, file)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log.WithError(err).Warn("upload transport failed")
		}
		return entity.Failed(generation, failureMessage(err))
	}

	images, err := c.decode(resp)
	if err != nil {
		c.log.WithError(err).WithField("status", resp.StatusCode).Warn("upload rejected")
		return entity.Failed(generation, failureMessage(err))
	}

	return entity.Succeeded(generation, images)
}

func (c *UploadController) decode(resp *entity.CollaboratorResponse) ([]entity.ImageRef, error) {
	decoded, err := classifyResponse(resp, c.options.StrictContentType)
	if err != nil {
		return nil, err
	}

	switch p := decoded.(type) {
	case imageListPayload:
		images := make([]entity.ImageRef, 0, len(p.images))
		for _, uri := range p.images {
			images = append(images, entity.ImageRef{URI: uri})
		}
		return images, nil
	case binaryPayload:
		contentType := p.contentType
		if contentType == "" || contentType == entity.DefaultContentType {
			contentType = entity.SniffContentType(p.data)
		}
		ref, err := c.blobs.Put(p.data, contentType)
		if err != nil {
			return nil, err
		}
		return []entity.ImageRef{ref}, nil
	default:
		return nil, ErrInvalidResponseFormat
	}
}

// settle записывает результат, если отправка всё ещё актуальна.
func (c *UploadController) settle(generation uint64, next entity.Submission) {
	c.mu.Lock()
	if generation != c.generation || c.closed {
		c.mu.Unlock()
		c.blobs.Release(next.Images...)
		c.log.WithField("generation", generation).Debug("discarding stale upload result")
		return
	}
	c.state = next
	c.cancel = nil
	c.publishLocked()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"generation": generation,
		"phase":      next.Phase,
		"images":     len(next.Images),
	}).Info("upload settled")
}

// State возвращает копию текущего состояния.
func (c *UploadController) State() entity.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe возвращает канал с последним состоянием. Первым приходит текущее состояние.
// Медленный подписчик пропускает промежуточные состояния, но всегда получает последнее.
func (c *UploadController) Subscribe() (<-chan entity.Submission, func()) {
	ch := make(chan entity.Submission, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.state.Clone()
	c.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe
}

// publishLocked рассылает состояние подписчикам. Вызывается под c.mu.
func (c *UploadController) publishLocked() {
	for _, ch := range c.subscribers {
		snapshot := c.state.Clone()
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// Close отменяет текущий запрос, освобождает картинки и закрывает подписки.
func (c *UploadController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	held := c.state.Images
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
	c.mu.Unlock()

	c.blobs.Release(held...)
}
