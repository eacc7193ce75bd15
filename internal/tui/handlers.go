package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/infrastructure/storage"
)

func (a *App) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Global
	if key == "ctrl+c" {
		return tea.Quit
	}

	switch a.view {
	case entity.ViewDocs:
		return a.handleDocsKeys(key)
	case entity.ViewDemo:
		return a.handleDemoKeys(msg)
	default:
		return a.handleLandingKeys(key)
	}
}

func (a *App) handleLandingKeys(key string) tea.Cmd {
	switch key {
	case "q":
		return tea.Quit
	case "d", "1":
		a.navigate(entity.ViewDocs)
	case "m", "2":
		a.navigate(entity.ViewDemo)
	}
	return nil
}

func (a *App) handleDocsKeys(key string) tea.Cmd {
	switch key {
	case "q":
		return tea.Quit
	case "esc", "b":
		a.navigate(entity.ViewLanding)
	case "up", "k":
		if a.docsOffset > 0 {
			a.docsOffset--
		}
	case "down", "j":
		if a.docsOffset < len(a.docsLines())-1 {
			a.docsOffset++
		}
	case "pgup":
		a.docsOffset = max(a.docsOffset-a.docsPageSize(), 0)
	case "pgdown":
		a.docsOffset = min(a.docsOffset+a.docsPageSize(), max(len(a.docsLines())-1, 0))
	}
	return nil
}

// handleDemoKeys на экране демо печатные клавиши идут в поле пути
func (a *App) handleDemoKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.navigate(entity.ViewLanding)
		return nil
	case tea.KeyEnter:
		return a.submit()
	case tea.KeyCtrlS:
		return a.saveResults()
	case tea.KeyBackspace:
		if runes := []rune(a.input); len(runes) > 0 {
			a.input = string(runes[:len(runes)-1])
		}
		return nil
	case tea.KeyCtrlU:
		a.input = ""
		return nil
	case tea.KeySpace:
		a.input += " "
		return nil
	case tea.KeyRunes:
		a.input += string(msg.Runes)
		return nil
	}
	return nil
}

// submit читает файл по введённому пути и отправляет его контроллеру
func (a *App) submit() tea.Cmd {
	path := cleanPath(a.input)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return func() tea.Msg {
			return FileReadErrorMsg{Path: path, Error: err}
		}
	}

	file := entity.NewSelectedFile(filepath.Base(path), "", data)
	if _, err := a.app.DemoService.Upload(a.ctx, localUser, localUser, file); err != nil {
		a.setError("Upload failed", err.Error())
		return nil
	}

	a.statusMessage = ""
	return nil
}

// saveResults сохраняет картинки из хранилища в выходной каталог
func (a *App) saveResults() tea.Cmd {
	images := a.state.Images
	blobs := a.app.Blobs
	dir := a.outputDir

	return func() tea.Msg {
		var paths []string
		for i, ref := range images {
			if !ref.IsBlob() {
				continue
			}
			path, err := storage.SaveBlob(blobs, ref, dir, fmt.Sprintf("result-%d", i+1))
			if err != nil {
				return ResultsSavedMsg{Paths: paths, Error: err}
			}
			paths = append(paths, path)
		}
		if len(paths) == 0 {
			return ResultsSavedMsg{Error: errors.New("no downloadable results")}
		}
		return ResultsSavedMsg{Paths: paths}
	}
}

// cleanPath убирает пробелы и кавычки, которые оставляет перетаскивание файла в терминал
func cleanPath(input string) string {
	path := strings.TrimSpace(input)
	path = strings.Trim(path, `"'`)
	return strings.TrimSpace(path)
}
