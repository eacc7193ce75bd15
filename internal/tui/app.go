package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"dgm-demo/internal/container"
	"dgm-demo/internal/content"
	"dgm-demo/internal/domain/entity"
)

// localUser единственная сессия терминального интерфейса
const localUser int64 = 0

type App struct {
	app       *container.Container
	ctx       context.Context
	outputDir string
	theme     *Theme

	view    entity.View
	state   entity.Submission
	updates <-chan entity.Submission
	stop    func()

	// подписи к результатам, считаются один раз на состояние
	captions map[string]string

	input         string
	docsOffset    int
	width         int
	height        int
	statusMessage string
	statusIsError bool
}

func NewApp(ctx context.Context, c *container.Container, outputDir string) *App {
	updates, stop := c.DemoService.Subscribe(localUser)

	return &App{
		app:       c,
		ctx:       ctx,
		outputDir: outputDir,
		theme:     DefaultTheme(),
		view:      entity.ViewLanding,
		state:     entity.Idle(),
		updates:   updates,
		stop:      stop,
		width:     80,
		height:    24,
	}
}

func (a *App) Init() tea.Cmd {
	return waitForState(a.updates)
}

// waitForState ждёт следующее состояние контроллера
func waitForState(updates <-chan entity.Submission) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return StateChangedMsg{State: state}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKeyPress(msg)

	case StateChangedMsg:
		a.state = msg.State
		a.captions = a.captionResults(msg.State.Images)
		return a, waitForState(a.updates)

	case ResultsSavedMsg:
		if msg.Error != nil {
			a.setError("Save failed", msg.Error.Error())
		} else {
			a.setStatus(fmt.Sprintf("Saved %d file(s) to %s", len(msg.Paths), a.outputDir))
		}

	case FileReadErrorMsg:
		a.setError("Cannot read "+msg.Path, msg.Error.Error())
	}

	return a, nil
}

func (a *App) setStatus(message string) {
	a.statusMessage = message
	a.statusIsError = false
}

func (a *App) setError(message, details string) {
	errorMsg := message
	if details != "" {
		errorMsg += ": " + details
	}
	a.statusMessage = errorMsg
	a.statusIsError = true
}

// navigate переключает экран через сессию, состояние загрузки не трогает
func (a *App) navigate(view entity.View) {
	session, err := a.app.SessionService.Navigate(a.ctx, localUser, localUser, view)
	if err != nil {
		a.setError("Navigation failed", err.Error())
		return
	}
	a.view = session.View
	a.docsOffset = 0
	a.statusMessage = ""
}

func (a *App) View() string {
	var body string
	switch a.view {
	case entity.ViewDocs:
		body = a.renderDocs()
	case entity.ViewDemo:
		body = a.renderDemo()
	default:
		body = a.renderLanding()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar())
}

func (a *App) renderLanding() string {
	t := a.theme
	lines := []string{
		t.TitleStyle.Render(content.LandingTitle),
		t.SubtitleStyle.Render(content.LandingSubtitle),
		"",
		t.TextStyle.Render("[d] Read Docs    [m] Demo"),
	}
	return t.PanelStyle.Render(strings.Join(lines, "\n"))
}

// docsLines документация построчно со стилями заголовков
func (a *App) docsLines() []string {
	t := a.theme
	lines := []string{t.TitleStyle.Render(content.DocsTitle), ""}

	for _, section := range content.Docs {
		if section.Heading != "" {
			style := t.SubheadStyle
			if section.Level <= 2 {
				style = t.HeadingStyle
			}
			lines = append(lines, style.Render(section.Heading))
		}
		for _, paragraph := range section.Body {
			lines = append(lines, t.TextStyle.Render(paragraph))
		}
		for _, bullet := range section.Bullets {
			lines = append(lines, t.TextStyle.Render("  • "+bullet))
		}
		lines = append(lines, "")
	}
	return lines
}

func (a *App) docsPageSize() int {
	return max(a.height-4, 1)
}

func (a *App) renderDocs() string {
	lines := a.docsLines()

	start := min(a.docsOffset, max(len(lines)-1, 0))
	end := min(start+a.docsPageSize(), len(lines))

	return lipgloss.NewStyle().Width(a.width).Render(strings.Join(lines[start:end], "\n"))
}

func (a *App) renderDemo() string {
	t := a.theme

	button := t.ButtonStyle.Render(content.DemoUpload)
	if a.state.IsBusy() {
		button = t.BusyStyle.Render(content.DemoUploading)
	}

	input := t.InputStyle.Render(a.input + "█")

	lines := []string{
		t.TitleStyle.Render(content.DemoTitle),
		t.LinkStyle.Render(content.PaperURL),
		"",
		t.MutedStyle.Render("Image path:"),
		lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button),
		"",
		a.renderSubmission(),
	}

	return lipgloss.NewStyle().Width(a.width).Render(strings.Join(lines, "\n"))
}

// renderSubmission показывает ровно одно из: загрузка, ошибка, результаты, заглушка
func (a *App) renderSubmission() string {
	t := a.theme
	state := a.state

	switch {
	case state.IsBusy():
		return t.MutedStyle.Render(content.DemoProcessing)
	case state.HasError():
		return t.ErrorStyle.Render(content.ErrorLabel(state.Message))
	case state.HasResults():
		lines := []string{t.HeadingStyle.Render(content.ResultsHeader)}
		for i, ref := range state.Images {
			caption, ok := a.captions[ref.URI]
			if !ok {
				caption = ref.URI
			}
			lines = append(lines, t.SuccessStyle.Render(content.ResultLabel(i)+": ")+t.TextStyle.Render(caption))
		}
		return strings.Join(lines, "\n")
	default:
		return t.MutedStyle.Render(content.DemoPlaceholder)
	}
}

func (a *App) captionResults(images []entity.ImageRef) map[string]string {
	captions := make(map[string]string, len(images))
	for _, ref := range images {
		captions[ref.URI] = a.describe(ref)
	}
	return captions
}

// describe подпись к результату; для картинок из хранилища добавляются размеры
func (a *App) describe(ref entity.ImageRef) string {
	if !ref.IsBlob() {
		return ref.URI
	}

	data, contentType, ok := a.app.Blobs.Get(ref)
	if !ok {
		return ref.URI
	}

	w, h, err := a.app.Previewer.Dimensions(data)
	if err != nil {
		return fmt.Sprintf("%s (%s, %d bytes)", ref.URI, contentType, len(data))
	}
	return fmt.Sprintf("%s (%s, %dx%d)", ref.URI, contentType, w, h)
}

func (a *App) renderStatusBar() string {
	if a.statusMessage != "" {
		if a.statusIsError {
			return a.theme.ErrorStyle.Render(" ERROR: " + a.statusMessage)
		}
		return a.theme.SuccessStyle.Render(" " + a.statusMessage)
	}

	var help string
	switch a.view {
	case entity.ViewDocs:
		help = "↑/↓ scroll • esc back • q quit"
	case entity.ViewDemo:
		help = "type a path • enter upload • ctrl+s save results • esc back • ctrl+c quit"
	default:
		help = "d docs • m demo • q quit"
	}
	return a.theme.HelpStyle.Render(" " + help)
}

// Close отписывается от контроллера
func (a *App) Close() {
	a.stop()
}

func initLogging() error {
	logDir := filepath.Join(os.TempDir(), "dgm-demo")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	logFile := filepath.Join(logDir, "tui.log")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logrus.SetOutput(f)
	logrus.WithField("ts", time.Now().Format(time.RFC3339)).Info("tui session start")
	return nil
}

// Run запускает терминальный интерфейс и блокируется до выхода
func Run(ctx context.Context, c *container.Container, outputDir string) error {
	if err := initLogging(); err != nil {
		return err
	}

	app := NewApp(ctx, c, outputDir)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	return err
}
