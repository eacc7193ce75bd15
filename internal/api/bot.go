package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "dgm-demo/internal/application"
	"dgm-demo/internal/container"
	"dgm-demo/internal/content"
	"dgm-demo/internal/domain/entity"
)

const (
	btnDocs = "Read Docs"
	btnDemo = "Demo"
	btnBack = "← Back to Home"

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Open the demo with /demo
2️⃣ Send a photo or an image file
3️⃣ Wait for the DGM visualization results

📋 Commands:
/start - home page
/docs - documentation
/demo - image upload demo
/back - back to home`

	msgOpenDemo       = "📸 Open the demo with /demo to upload an image."
	msgSendImage      = "📸 Send a photo or an image file to visualize it."
	msgUnknownCommand = "❓ Unknown command. Use /help to see what I can do."
	msgDownloadError  = "⚠️ Could not download the file from Telegram. Please try again."
)

// botAPI часть tgbotapi.BotAPI, которой пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота
type Bot struct {
	api        botAPI
	app        *container.Container
	httpClient *http.Client
	log        *logrus.Entry

	mu       sync.Mutex
	watching map[int64]*watcher
}

// watcher подписка чата на состояние загрузки
type watcher struct {
	stop func()
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	bot := newBot(api, c)
	bot.log.WithField("account", api.Self.UserName).Info("authorized")
	return bot, nil
}

func newBot(api botAPI, c *container.Container) *Bot {
	return &Bot{
		api:        api,
		app:        c,
		httpClient: http.DefaultClient,
		log:        logrus.WithField("component", "telegram"),
		watching:   make(map[int64]*watcher),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := senderID(msg)
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, userID, chatID, msg.Command())
		return
	}

	// Кнопки клавиатуры приходят обычным текстом
	switch msg.Text {
	case btnDocs:
		b.handleCommand(ctx, userID, chatID, "docs")
		return
	case btnDemo:
		b.handleCommand(ctx, userID, chatID, "demo")
		return
	case btnBack:
		b.handleCommand(ctx, userID, chatID, "back")
		return
	}

	if len(msg.Photo) > 0 || msg.Document != nil {
		b.handleUpload(ctx, userID, chatID, msg)
		return
	}

	session, err := b.app.SessionService.Get(ctx, userID, chatID)
	if err != nil {
		b.log.WithError(err).Error("get session")
		return
	}
	if session.View == entity.ViewDemo {
		b.sendMessage(chatID, msgSendImage)
		return
	}
	b.sendMessage(chatID, msgOpenDemo)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, userID, chatID int64, command string) {
	var err error

	switch command {
	case "start", "back":
		if _, err = b.app.SessionService.Back(ctx, userID, chatID); err == nil {
			b.sendWithKeyboard(chatID, landingText(), landingKeyboard())
		}

	case "docs":
		if _, err = b.app.SessionService.OpenDocs(ctx, userID, chatID); err == nil {
			b.sendWithKeyboard(chatID, content.DocsPlainText(), backKeyboard())
		}

	case "demo":
		if _, err = b.app.SessionService.OpenDemo(ctx, userID, chatID); err == nil {
			b.sendWithKeyboard(chatID, demoText(), backKeyboard())
			b.render(chatID, b.app.DemoService.State(userID), true)
			b.watch(userID, chatID)
		}

	case "help":
		b.sendMessage(chatID, msgHelp)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.WithError(err).WithField("command", command).Error("navigation failed")
	}
}

// handleUpload скачивает присланный файл и отправляет его на визуализацию
func (b *Bot) handleUpload(ctx context.Context, userID, chatID int64, msg *tgbotapi.Message) {
	session, err := b.app.SessionService.Get(ctx, userID, chatID)
	if err != nil {
		b.log.WithError(err).Error("get session")
		return
	}
	if session.View != entity.ViewDemo {
		b.sendMessage(chatID, msgOpenDemo)
		return
	}

	fileID, name, contentType := attachment(msg)
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.log.WithError(err).WithField("file_id", fileID).Error("download file")
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	b.watch(userID, chatID)

	file := entity.NewSelectedFile(name, contentType, data)
	if _, err := b.app.DemoService.Upload(ctx, userID, chatID, file); err != nil {
		if errors.Is(err, app.ErrNotOnDemo) {
			b.sendMessage(chatID, msgOpenDemo)
			return
		}
		b.log.WithError(err).Error("upload")
		b.sendMessage(chatID, content.ErrorLabel(err.Error()))
	}
}

// watch запускает отрисовку состояния загрузки в чат, один раз на пользователя
func (b *Bot) watch(userID, chatID int64) {
	b.mu.Lock()
	if _, ok := b.watching[userID]; ok {
		b.mu.Unlock()
		return
	}
	updates, stop := b.app.DemoService.Subscribe(userID)
	w := &watcher{stop: stop}
	b.watching[userID] = w
	b.mu.Unlock()

	done := func() {
		b.mu.Lock()
		if b.watching[userID] == w {
			delete(b.watching, userID)
		}
		b.mu.Unlock()
	}

	// первое значение это текущее состояние, его уже показал экран демо
	if _, ok := <-updates; !ok {
		done()
		return
	}

	go func() {
		defer done()
		for state := range updates {
			b.render(chatID, state, false)
		}
	}()
}

// Close отписывает все чаты от состояния загрузки
func (b *Bot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for userID, w := range b.watching {
		w.stop()
		delete(b.watching, userID)
	}
}

// render показывает состояние загрузки. Idle показывается только на экране демо.
func (b *Bot) render(chatID int64, state entity.Submission, onOpen bool) {
	switch {
	case state.IsBusy():
		b.sendMessage(chatID, "⏳ "+content.DemoProcessing)
	case state.HasError():
		b.sendMessage(chatID, "⚠️ "+content.ErrorLabel(state.Message))
	case state.HasResults():
		b.sendResults(chatID, state.Images)
	case state.Phase == entity.PhaseSucceeded || onOpen:
		b.sendMessage(chatID, content.DemoPlaceholder)
	}
}

// sendResults отправляет по фото на каждую ссылку
func (b *Bot) sendResults(chatID int64, images []entity.ImageRef) {
	for i, ref := range images {
		label := content.ResultLabel(i)

		media, ok := b.resultMedia(ref, i)
		if !ok {
			if ref.IsBlob() {
				// картинку уже заменила новая загрузка
				b.log.WithField("ref", ref.URI).Debug("skipping released result")
				continue
			}
			b.sendMessage(chatID, label+": "+ref.URI)
			continue
		}

		photo := tgbotapi.NewPhoto(chatID, media)
		photo.Caption = label
		if _, err := b.api.Send(photo); err != nil {
			b.log.WithError(err).WithField("ref", ref.URI).Warn("send result photo")
			if !ref.IsBlob() {
				b.sendMessage(chatID, label+": "+ref.URI)
			}
		}
	}
}

// resultMedia превращает ссылку в файл для Telegram.
// Картинки из хранилища уменьшаются превьюером, абсолютные URL отдаются как есть.
func (b *Bot) resultMedia(ref entity.ImageRef, index int) (tgbotapi.RequestFileData, bool) {
	if ref.IsBlob() {
		data, contentType, ok := b.app.Blobs.Get(ref)
		if !ok {
			return nil, false
		}

		preview, err := b.app.Previewer.Preview(data)
		if err != nil {
			b.log.WithError(err).Warn("preview failed, sending original")
			preview = data
		}
		if sniffed := entity.SniffContentType(preview); sniffed != entity.DefaultContentType {
			contentType = sniffed
		}

		return tgbotapi.FileBytes{
			Name:  fmt.Sprintf("result-%d.%s", index+1, entity.ExtensionFor(contentType)),
			Bytes: preview,
		}, true
	}

	u, err := url.Parse(ref.URI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	return tgbotapi.FileURL(ref.URI), true
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send message")
	}
}

// attachment выбирает файл из сообщения: самое большое фото или документ
func attachment(msg *tgbotapi.Message) (fileID, name, contentType string) {
	if len(msg.Photo) > 0 {
		// Telegram всегда перекодирует фото в JPEG
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, "photo.jpg", "image/jpeg"
	}
	return msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func landingText() string {
	return fmt.Sprintf("🎓 %s\n%s\n\n%s", content.LandingTitle, content.LandingSubtitle, msgHelp)
}

func demoText() string {
	return fmt.Sprintf("🔬 %s\n\n📄 Paper: %s\n\n%s", content.DemoTitle, content.PaperURL, msgSendImage)
}

func landingKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDocs),
			tgbotapi.NewKeyboardButton(btnDemo),
		),
	)
}

func backKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
}
