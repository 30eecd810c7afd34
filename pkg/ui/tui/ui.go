// Package tui is the terminal front-end: a games list, install progress
// and forms for hosting and joining multiplayer games.
package tui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/helpers/syncutil"
	"github.com/quake2touch/launcher/pkg/installer"
	"github.com/quake2touch/launcher/pkg/launcher"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	PageMain   = "main"
	PageHost   = "host"
	PageJoin   = "join"
	PageDelete = "delete"
	PageFile   = "file"
	PageError  = "error"
)

const (
	DefaultGameMode = "deathmatch"
	subscribeBuffer = 64
)

// Service is the part of the launcher service the TUI drives.
type Service interface {
	Games() ([]string, error)
	Progress() float64
	JobState() installer.State
	Subscribe(bufferSize int) (<-chan notifications.Notification, int)
	Unsubscribe(id int)
	FetchDemo() (string, error)
	UnpackLocal(archive string) (string, error)
	DeleteGame(name string) error
	RefreshGames()
}

type UI struct {
	svc      Service
	app      *tview.Application
	pages    *tview.Pages
	list     *tview.List
	status   *tview.TextView
	progress *tview.TextView
	help     *tview.TextView
	launch   *launcher.Request
	games    []string
	mu       syncutil.Mutex
}

// New builds the UI. Apply a theme with SetCurrentTheme before calling it.
func New(svc Service) *UI {
	u := &UI{
		svc:   svc,
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
	}
	u.buildMainPage()
	u.app.SetRoot(u.pages, true)
	return u
}

func (u *UI) App() *tview.Application {
	return u.app
}

// Run shows the UI until the user exits or picks a game to launch. The
// returned request is nil when the user exited. The terminal is restored
// before Run returns, so the caller can exec the engine directly.
func (u *UI) Run() (*launcher.Request, error) {
	ch, id := u.svc.Subscribe(subscribeBuffer)
	stopped := make(chan struct{})
	go u.listen(ch, stopped)

	err := u.app.Run()
	close(stopped)
	u.svc.Unsubscribe(id)
	if err != nil {
		return nil, fmt.Errorf("error running tui: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.launch, nil
}

// listen applies notifications on the event loop until the app stops.
// QueueUpdateDraw waits for the event loop, which never runs again once
// the app has stopped, so the hand-off is abandoned on stop.
func (u *UI) listen(ch <-chan notifications.Notification, stopped <-chan struct{}) {
	for n := range ch {
		queued := make(chan struct{})
		go func() {
			defer close(queued)
			u.app.QueueUpdateDraw(func() {
				u.apply(n)
			})
		}()
		select {
		case <-queued:
		case <-stopped:
			return
		}
	}
}

// apply updates widgets for a notification. Must run on the event loop.
func (u *UI) apply(n notifications.Notification) {
	t := CurrentTheme()
	switch n.Method {
	case notifications.DownloadProgress:
		if p, ok := n.Params.(notifications.ProgressParams); ok {
			u.progress.SetText(FormatProgress(p))
		}
	case notifications.DownloadSucceeded:
		u.status.SetText("Download finished, unpacking...")
	case notifications.DownloadFailed, notifications.UnpackFailed, notifications.InstallFailed:
		msg := "Install failed"
		if p, ok := n.Params.(notifications.FailureParams); ok {
			msg = p.Error
		}
		u.status.SetText(fmt.Sprintf("[%s]%s[-]", t.ErrorColorName, tview.Escape(msg)))
		u.progress.SetText("")
	case notifications.InstallSucceeded:
		game := ""
		if p, ok := n.Params.(notifications.InstallParams); ok {
			game = p.Game
		}
		u.status.SetText(fmt.Sprintf("[%s]Installed %s[-]", t.SuccessColorName, tview.Escape(game)))
		u.progress.SetText("")
	case notifications.GamesChanged:
		u.reloadGames()
	}
}

func (u *UI) reloadGames() {
	names, err := u.svc.Games()
	if err != nil {
		log.Error().Err(err).Msg("error listing games")
		u.status.SetText("Error listing games: " + tview.Escape(err.Error()))
		return
	}

	current := u.selectedGame()
	u.games = names
	u.list.Clear()
	for _, name := range names {
		u.list.AddItem(name, "", 0, nil)
	}
	if len(names) == 0 {
		u.list.AddItem("No games installed", "Select \"Get demo\" to download one.", 0, nil)
		return
	}
	for i, name := range names {
		if name == current {
			u.list.SetCurrentItem(i)
		}
	}
}

func (u *UI) selectedGame() string {
	i := u.list.GetCurrentItem()
	if i < 0 || i >= len(u.games) {
		return ""
	}
	return u.games[i]
}

// requestLaunch records req and stops the app so Run can return it.
func (u *UI) requestLaunch(req launcher.Request) {
	if err := launcher.DefaultValidator.Validate(req); err != nil {
		u.showError(err.Error())
		return
	}
	u.mu.Lock()
	u.launch = &req
	u.mu.Unlock()
	u.app.Stop()
}

func (u *UI) withGame(action func(game string)) func() {
	return func() {
		game := u.selectedGame()
		if game == "" {
			u.showError("No game selected.")
			return
		}
		action(game)
	}
}

func (u *UI) fetchDemo() {
	u.startInstall(installer.StateDownloading, u.svc.FetchDemo)
}

func (u *UI) unpackLocal(archive string) {
	u.startInstall(installer.StateUnpacking, func() (string, error) {
		return u.svc.UnpackLocal(archive)
	})
}

func (u *UI) startInstall(first installer.State, start func() (string, error)) {
	if _, err := start(); err != nil {
		if errors.Is(err, installer.ErrJobRunning) {
			u.status.SetText("An install is already running.")
			return
		}
		u.showError(err.Error())
		return
	}
	u.status.SetText(StateText(first))
	if first == installer.StateDownloading {
		u.progress.SetText(FormatProgress(notifications.ProgressParams{Ratio: 0, Total: 1}))
	}
}

func (u *UI) buildMainPage() {
	main := tview.NewFlex()
	main.SetBorder(true).
		SetTitle(" Quake2Touch Launcher v" + config.AppVersion + " ").
		SetTitleAlign(tview.AlignCenter)

	u.list = tview.NewList().ShowSecondaryText(false)
	u.list.SetBorder(true).SetTitle(" Games ")
	u.list.SetSelectedFunc(func(int, string, string, rune) {
		u.withGame(func(game string) {
			u.requestLaunch(launcher.Request{Game: game, Mode: launcher.ModeSingle})
		})()
	})

	u.status = tview.NewTextView().SetDynamicColors(true)
	u.status.SetText(StateText(u.svc.JobState()))
	u.progress = tview.NewTextView()
	u.help = tview.NewTextView().SetDynamicColors(true)

	type action struct {
		fn    func()
		label string
		help  string
	}
	actions := []action{
		{label: "Play", help: "Start a single player game.", fn: u.withGame(func(game string) {
			u.requestLaunch(launcher.Request{Game: game, Mode: launcher.ModeSingle})
		})},
		{label: "Host", help: "Host a multiplayer game on this device.", fn: u.withGame(u.showHostForm)},
		{label: "Join", help: "Join a multiplayer game on the network.", fn: u.withGame(u.showJoinForm)},
		{label: "Delete", help: "Remove the selected game's data.", fn: u.withGame(u.showDeleteModal)},
		{label: "Get demo", help: "Download and install the shareware demo.", fn: u.fetchDemo},
		{label: "From file", help: "Install game data from a zip archive.", fn: u.showFileForm},
		{label: "Refresh", help: "Re-read the installed games.", fn: u.svc.RefreshGames},
		{label: "Exit", help: "Exit the launcher.", fn: u.app.Stop},
	}

	buttons := make([]*tview.Button, 0, len(actions))
	buttonCol := tview.NewFlex().SetDirection(tview.FlexRow)
	for _, a := range actions {
		b := tview.NewButton(a.label).SetSelectedFunc(a.fn)
		help := a.help
		b.SetFocusFunc(func() {
			u.help.SetText(help)
		})
		buttons = append(buttons, b)
		buttonCol.AddItem(b, 1, 1, false).
			AddItem(tview.NewBox(), 1, 1, false)
	}
	setupButtonNavigation(u.app, u.list, buttons...)

	u.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyRight, tcell.KeyTab:
			u.app.SetFocus(buttons[0])
			return nil
		case tcell.KeyEscape:
			u.app.Stop()
			return nil
		}
		return event
	})

	top := tview.NewFlex().
		AddItem(u.list, 0, 1, true).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(buttonCol, 14, 0, false)

	main.SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, true).
		AddItem(u.progress, 1, 0, false).
		AddItem(u.status, 1, 0, false).
		AddItem(u.help, 1, 0, false)

	u.reloadGames()
	u.pages.AddAndSwitchToPage(PageMain, main, true)
}

func setupButtonNavigation(app *tview.Application, back tview.Primitive, buttons ...*tview.Button) {
	for i, button := range buttons {
		prevIndex := (i - 1 + len(buttons)) % len(buttons)
		nextIndex := (i + 1) % len(buttons)

		button.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() { //nolint:exhaustive
			case tcell.KeyUp:
				app.SetFocus(buttons[prevIndex])
				return nil
			case tcell.KeyDown, tcell.KeyTab:
				app.SetFocus(buttons[nextIndex])
				return nil
			case tcell.KeyLeft, tcell.KeyEscape, tcell.KeyBacktab:
				app.SetFocus(back)
				return nil
			}
			return event
		})
	}
}
