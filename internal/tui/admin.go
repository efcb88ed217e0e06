package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"frostmart/internal/chat"
	"frostmart/internal/search"
	"frostmart/pkg/domain"
)

func (a *App) showAdminHome() {
	menu := tview.NewList().
		AddItem("Enquiries", "Chat with customers", 'e', func() {
			a.showAdminRoster()
		}).
		AddItem("Manage Users", "Approve or remove accounts", 'u', func() {
			a.showAdminUsers()
		}).
		AddItem("Manage Products", "Edit or remove catalog entries", 'p', func() {
			a.showAdminProducts()
		}).
		AddItem("Create Product", "Add a catalog entry", 'c', func() {
			a.showProductForm(nil)
		}).
		AddItem("Logout", "", 'q', func() {
			a.logout()
		})
	menu.SetBorder(true)
	menu.SetTitle(" Frostmart — Admin ")
	a.pages.AddPage(pageAdminHome, menu, true, true)
	a.pages.SwitchToPage(pageAdminHome)
}

// showAdminRoster lists accounts with chat metadata: last activity, unread
// count, and a stable avatar color per user. Filtering is local.
func (a *App) showAdminRoster() {
	var users []domain.User
	var query string

	roster := tview.NewList().ShowSecondaryText(true)
	roster.SetBorder(true)
	roster.SetTitle(" Enquiries ")

	var visible []domain.User
	render := func() {
		roster.Clear()
		visible = visible[:0]
		needle := strings.ToLower(strings.TrimSpace(query))
		for _, user := range users {
			if needle != "" &&
				!strings.Contains(strings.ToLower(user.Name), needle) &&
				!strings.Contains(user.Mobile, needle) {
				continue
			}
			visible = append(visible, user)
			line := fmt.Sprintf("[%s]%s[-] %s", avatarColor(user.ID), initial(user.Name), user.Name)
			if user.Unread > 0 {
				line += fmt.Sprintf("  [red](%d)[-]", user.Unread)
			}
			roster.AddItem(line, formatActivity(user.UpdatedAt, time.Now()), 0, nil)
		}
	}

	fetch := func() {
		a.call(func(ctx context.Context) error {
			got, err := a.client.ChatUsers(ctx)
			if err != nil {
				return err
			}
			users = got
			return nil
		}, render)
	}

	filter := search.NewDebouncer(a.cfg.DebounceInterval, func(text string) {
		a.ui.QueueUpdateDraw(func() {
			query = text
			render()
		})
	})

	searchField := tview.NewInputField().
		SetLabel("Search: ").
		SetChangedFunc(filter.Trigger)
	searchField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab {
			a.ui.SetFocus(roster)
		}
	})

	roster.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if index < len(visible) {
			a.showEnquiry(visible[index])
		}
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchField, 1, 0, true).
		AddItem(roster, 0, 1, false).
		AddItem(newHint("[Tab] list  [Ctrl-R] refresh  [Esc] back"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			filter.Stop()
			a.pages.SwitchToPage(pageAdminHome)
			return nil
		case tcell.KeyCtrlR:
			fetch()
			return nil
		}
		return event
	})

	a.pages.AddPage(pageAdminRoster, flex, true, true)
	a.pages.SwitchToPage(pageAdminRoster)
	fetch()
}

// showEnquiry is the admin side of one user's conversation.
func (a *App) showEnquiry(user domain.User) {
	conv := chat.NewAdminConversation(a.client, user.ID)
	a.showConversation(conversationScreen{
		page:     pageEnquiry,
		title:    fmt.Sprintf(" %s — %s ", user.Name, user.Mobile),
		backPage: pageAdminRoster,
		conv:     conv,
		mine:     "Admin",
		theirs:   user.Name,
		extraKeys: map[tcell.Key]func(){
			tcell.KeyCtrlP: func() {
				a.showSharePicker(conv)
			},
		},
	})
}

// showSharePicker is the paginated, debounced product picker used to share a
// product into an enquiry.
func (a *App) showSharePicker(conv *chat.Conversation) {
	const page = "share-product"
	ctrl := a.newProductList()
	picker := tview.NewList().ShowSecondaryText(true)
	picker.SetBorder(true)
	picker.SetTitle(" Share a Product ")

	render := func() {
		picker.Clear()
		for _, product := range ctrl.Items() {
			picker.AddItem(productLine(product), productDetailLine(product), 0, nil)
		}
		if ctrl.HasMore() {
			picker.AddItem("— Load more —", "", 0, nil)
		} else {
			picker.AddItem("No More Products", "", 0, nil)
		}
	}
	load := func(pageNum int, query string) {
		a.call(func(ctx context.Context) error {
			return ctrl.Load(ctx, pageNum, query)
		}, render)
	}
	debouncer := search.NewDebouncer(a.cfg.DebounceInterval, func(query string) {
		a.ui.QueueUpdateDraw(func() {
			load(1, query)
		})
	})

	searchField := tview.NewInputField().
		SetLabel("Search: ").
		SetChangedFunc(debouncer.Trigger)
	searchField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab {
			a.ui.SetFocus(picker)
		}
	})

	picker.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		items := ctrl.Items()
		if index >= len(items) {
			if ctrl.HasMore() {
				a.call(func(ctx context.Context) error {
					return ctrl.LoadMore(ctx)
				}, render)
			}
			return
		}
		product := items[index]
		a.call(func(ctx context.Context) error {
			return conv.SendProduct(ctx, product, product.Name)
		}, func() {
			debouncer.Stop()
			a.pages.RemovePage(page)
		})
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchField, 1, 0, true).
		AddItem(picker, 0, 1, false).
		AddItem(newHint("[Tab] list  [Esc] close"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			debouncer.Stop()
			a.pages.RemovePage(page)
			return nil
		}
		return event
	})

	a.pages.AddPage(page, center(flex, 70, 20), true, true)
	load(1, "")
}

// showAdminUsers is the approval table: verify pending accounts, delete any.
func (a *App) showAdminUsers() {
	var users []domain.User

	table := tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	table.SetBorder(true)
	table.SetTitle(" Manage Users ")

	render := func() {
		table.Clear()
		for col, header := range []string{"Name", "Mobile", "Status"} {
			table.SetCell(0, col, tview.NewTableCell("[::b]"+header).SetSelectable(false))
		}
		for i, user := range users {
			status := "[green]Approved"
			if !user.Approved {
				status = "[yellow]Pending"
			}
			table.SetCell(i+1, 0, tview.NewTableCell(user.Name))
			table.SetCell(i+1, 1, tview.NewTableCell(user.Mobile))
			table.SetCell(i+1, 2, tview.NewTableCell(status))
		}
	}

	fetch := func() {
		a.call(func(ctx context.Context) error {
			got, err := a.client.Users(ctx)
			if err != nil {
				return err
			}
			users = got
			return nil
		}, render)
	}

	selected := func() (domain.User, bool) {
		row, _ := table.GetSelection()
		if row < 1 || row > len(users) {
			return domain.User{}, false
		}
		return users[row-1], true
	}

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(newHint("[v] verify  [d] delete  [Ctrl-R] refresh  [Esc] back"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.pages.SwitchToPage(pageAdminHome)
			return nil
		case tcell.KeyCtrlR:
			fetch()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'v':
				if user, ok := selected(); ok && !user.Approved {
					a.confirm("Are you sure you want to verify this user?", func() {
						a.call(func(ctx context.Context) error {
							return a.client.ApproveUser(ctx, user.ID)
						}, func() {
							for i := range users {
								if users[i].ID == user.ID {
									users[i].Approved = true
								}
							}
							render()
						})
					})
				}
				return nil
			case 'd':
				if user, ok := selected(); ok {
					a.confirm("Are you sure you want to delete this user?", func() {
						a.call(func(ctx context.Context) error {
							return a.client.DeleteUser(ctx, user.ID)
						}, func() {
							kept := users[:0]
							for _, u := range users {
								if u.ID != user.ID {
									kept = append(kept, u)
								}
							}
							users = kept
							render()
						})
					})
				}
				return nil
			}
		}
		return event
	})

	a.pages.AddPage(pageAdminUsers, flex, true, true)
	a.pages.SwitchToPage(pageAdminUsers)
	fetch()
}

func formatActivity(t time.Time, now time.Time) string {
	local := t.Local()
	y1, m1, d1 := local.Date()
	y2, m2, d2 := now.Local().Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return local.Format("3:04 PM")
	}
	return local.Format("02/01/2006")
}
