package collaborator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/domain/port"
)

// DefaultFieldName имя поля multipart, которое ждёт сервис визуализации.
const DefaultFieldName = "image"

// Client отправляет изображение во внешний сервис визуализации.
type Client struct {
	endpoint string
	field    string
	timeout  time.Duration
	client   *http.Client
	log      *logrus.Entry
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithFieldName задаёт имя поля с файлом.
func WithFieldName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.field = name
		}
	}
}

// WithTimeout ограничивает время запроса. При 0 ждём без ограничения.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient создаёт клиента для endpoint (например https://host/visualize).
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		field:    DefaultFieldName,
		client:   &http.Client{},
		log:      logrus.WithField("component", "collaborator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Visualize делает один POST и читает тело ответа целиком.
// Статус не проверяется: это задача контроллера.
func (c *Client) Visualize(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error) {
	body, contentType, err := encodeMultipart(c.field, file)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"status":       resp.StatusCode,
		"content_type": resp.Header.Get("Content-Type"),
		"bytes":        len(data),
		"duration":     time.Since(start),
	}).Debug("collaborator responded")

	return &entity.CollaboratorResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart собирает тело с одним файлом и его собственным Content-Type.
func encodeMultipart(field string, file *entity.SelectedFile) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	name := file.Name
	if name == "" {
		name = field
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = entity.DefaultContentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}

// Проверка реализации интерфейса
var _ port.Visualizer = (*Client)(nil)
