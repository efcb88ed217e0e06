// Package tui is the terminal front end: login and request-access forms, the
// product catalog, the chat screens, and the admin management screens.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"frostmart/internal/api"
	"frostmart/internal/config"
	"frostmart/internal/session"
	"frostmart/internal/uploader"
)

const (
	pageLogin         = "login"
	pageRequestAccess = "request-access"
	pageUserHome      = "user-home"
	pageProducts      = "products"
	pageChat          = "chat"
	pageProfile       = "profile"
	pageAdminHome     = "admin-home"
	pageAdminRoster   = "admin-roster"
	pageAdminUsers    = "admin-users"
	pageAdminProducts = "admin-products"
	pageProductForm   = "product-form"
	pageEnquiry       = "enquiry"
	pageNotice        = "notice"
)

// App wires the terminal UI to the client core.
type App struct {
	ui       *tview.Application
	pages    *tview.Pages
	cfg      config.Config
	client   *api.Client
	sessions *session.Store
	uploads  *uploader.Uploader
	log      zerolog.Logger
}

// New builds the UI. uploads may be nil when no upload endpoint is configured;
// the product form then only accepts already-hosted image URLs.
func New(cfg config.Config, client *api.Client, sessions *session.Store, uploads *uploader.Uploader, log zerolog.Logger) *App {
	return &App{
		ui:       tview.NewApplication(),
		pages:    tview.NewPages(),
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		uploads:  uploads,
		log:      log,
	}
}

// Run shows the screen picked by the auth gate and enters the event loop.
func (a *App) Run() error {
	route, err := a.sessions.Gate(time.Now())
	if err != nil {
		return err
	}
	a.showLogin()
	switch route {
	case session.RouteAdmin:
		a.showAdminHome()
	case session.RouteUser:
		a.showUserHome()
	}
	return a.ui.SetRoot(a.pages, true).Run()
}

// call runs fn off the event loop, then applies done on it. Failures land in
// a dismissible notice and leave the current screen untouched; a 401 forces
// logout.
func (a *App) call(fn func(ctx context.Context) error, done func()) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
		defer cancel()
		err := fn(ctx)
		a.ui.QueueUpdateDraw(func() {
			if err != nil {
				if api.IsAuthError(err) {
					a.forceLogout()
					return
				}
				a.notice("Error", err.Error(), nil)
				return
			}
			if done != nil {
				done()
			}
		})
	}()
}

// notice shows a dismissible message over the current screen.
func (a *App) notice(title, text string, after func()) {
	modal := tview.NewModal().
		SetText(title + "\n\n" + text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(pageNotice)
			if after != nil {
				after()
			}
		})
	a.pages.AddPage(pageNotice, modal, true, true)
}

// confirm asks before a destructive action.
func (a *App) confirm(text string, onYes func()) {
	const page = "confirm"
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Cancel", "Confirm"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(page)
			if label == "Confirm" {
				onYes()
			}
		})
	a.pages.AddPage(page, modal, true, true)
}

func (a *App) forceLogout() {
	if err := a.sessions.Clear(); err != nil {
		a.log.Warn().Err(err).Msg("clear session")
	}
	a.notice("Session Expired", "Please log in again.", func() {
		a.pages.SwitchToPage(pageLogin)
	})
}

// keyHandler maps plain rune presses to actions on screens without focused
// text inputs.
func keyHandler(actions map[rune]func()) func(*tcell.EventKey) *tcell.EventKey {
	return func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			if action, ok := actions[event.Rune()]; ok {
				action()
				return nil
			}
		}
		return event
	}
}

func (a *App) logout() {
	if err := a.sessions.Clear(); err != nil {
		a.notice("Error", "Failed to log out. Please try again.", nil)
		return
	}
	a.pages.SwitchToPage(pageLogin)
}
