package tui

import (
	"context"
	"errors"

	"github.com/rivo/tview"

	"frostmart/internal/api"
	"frostmart/internal/session"
	"frostmart/pkg/domain"
)

// loginFailedNotice is the only text shown for a rejected login. The backend
// says why it refused; the notice never does.
const loginFailedNotice = "Invalid mobile or password or approval pending"

// loginFailure replaces any backend rejection with the generic notice so the
// login screen cannot reveal whether credentials were wrong or approval is
// still pending. Client-side validation errors keep their own text.
func loginFailure(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return errors.New(loginFailedNotice)
	}
	return err
}

func (a *App) showLogin() {
	var mobile, password string
	form := tview.NewForm().
		AddInputField("Mobile", "", 20, nil, func(text string) { mobile = text }).
		AddPasswordField("Password", "", 20, '*', func(text string) { password = text })
	form.AddButton("Login", func() {
		a.login(mobile, password)
	})
	form.AddButton("Request Access", func() {
		a.showRequestAccess()
	})
	form.AddButton("Quit", func() {
		a.ui.Stop()
	})
	form.SetBorder(true)
	form.SetTitle(" Frostmart — Login ")
	a.pages.AddPage(pageLogin, center(form, 46, 11), true, true)
}

func (a *App) login(mobile, password string) {
	var token string
	a.call(func(ctx context.Context) error {
		got, err := a.client.Login(ctx, mobile, password, a.cfg.PushToken)
		if err != nil {
			return loginFailure(err)
		}
		token = got
		return nil
	}, func() {
		if err := a.sessions.Save(token); err != nil {
			a.notice("Error", err.Error(), nil)
			return
		}
		claims, err := session.Decode(token)
		if err != nil {
			a.notice("Login Error", loginFailedNotice, nil)
			return
		}
		if claims.Admin {
			a.showAdminHome()
		} else {
			a.showUserHome()
		}
	})
}

func (a *App) showRequestAccess() {
	var name, mobile, password string
	form := tview.NewForm().
		AddInputField("Name", "", 20, nil, func(text string) { name = text }).
		AddInputField("Mobile", "", 20, nil, func(text string) { mobile = text }).
		AddPasswordField("Password", "", 20, '*', func(text string) { password = text })
	form.AddButton("Submit", func() {
		a.call(func(ctx context.Context) error {
			return a.client.RequestAccess(ctx, name, mobile, password)
		}, func() {
			a.notice("Success", "Access request submitted. Please wait for admin approval.", func() {
				a.pages.SwitchToPage(pageLogin)
			})
		})
	})
	form.AddButton("Back", func() {
		a.pages.SwitchToPage(pageLogin)
	})
	form.SetBorder(true)
	form.SetTitle(" Request Access ")
	a.pages.AddPage(pageRequestAccess, center(form, 46, 13), true, true)
}

func (a *App) showUserHome() {
	menu := tview.NewList().
		AddItem("Products", "Browse the catalog, ask rates, place orders", 'p', func() {
			a.showProducts()
		}).
		AddItem("Chat", "Messages with the seller", 'c', func() {
			a.showUserChat()
		}).
		AddItem("Profile", "Account details and logout", 'o', func() {
			a.showProfile()
		}).
		AddItem("Logout", "", 'q', func() {
			a.logout()
		})
	menu.SetBorder(true)
	menu.SetTitle(" Frostmart ")
	a.pages.AddPage(pageUserHome, menu, true, true)
	a.pages.SwitchToPage(pageUserHome)
}

func (a *App) showProfile() {
	view := tview.NewTextView().SetDynamicColors(true)
	view.SetBorder(true)
	view.SetTitle(" Profile ")
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(newHint("[b] back  [l] logout"), 1, 0, false)
	flex.SetInputCapture(keyHandler(map[rune]func(){
		'b': func() { a.pages.SwitchToPage(pageUserHome) },
		'l': func() { a.logout() },
	}))
	a.pages.AddPage(pageProfile, flex, true, true)
	a.pages.SwitchToPage(pageProfile)

	var user domain.User
	a.call(func(ctx context.Context) error {
		got, err := a.client.UserDetail(ctx)
		if err != nil {
			return err
		}
		user = got
		return nil
	}, func() {
		view.SetText(
			"[::b]" + user.Name + "[::-]\n\n" +
				"Mobile:  " + user.Mobile + "\n" +
				"Joined:  " + user.CreatedAt.Local().Format("02/01/2006"))
	})
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func newHint(text string) *tview.TextView {
	return tview.NewTextView().SetText(text).SetTextAlign(tview.AlignCenter)
}
