package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"frostmart/internal/chat"
	"frostmart/pkg/domain"
)

func (a *App) showUserChat() {
	conv := chat.NewUserConversation(a.client)
	a.showConversation(conversationScreen{
		page:     pageChat,
		title:    " Chat ",
		backPage: pageUserHome,
		conv:     conv,
		mine:     "Me",
		theirs:   "Seller",
	})
}

type conversationScreen struct {
	page     string
	title    string
	backPage string
	conv     *chat.Conversation
	mine     string
	theirs   string
	// extraKeys adds screen-specific shortcuts, e.g. the admin share picker.
	extraKeys map[tcell.Key]func()
}

func (a *App) showConversation(screen conversationScreen) {
	logView := tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	logView.SetBorder(true)
	logView.SetTitle(screen.title)

	render := func() {
		logView.SetText(renderDays(screen.conv.Days(), screen.conv.OwnSide, screen.mine, screen.theirs))
		logView.ScrollToEnd()
	}
	refresh := func() {
		a.call(func(ctx context.Context) error {
			return screen.conv.Refresh(ctx)
		}, render)
	}

	input := tview.NewInputField().SetLabel("Message: ")
	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		body := input.GetText()
		if strings.TrimSpace(body) == "" {
			return
		}
		a.call(func(ctx context.Context) error {
			return screen.conv.Send(ctx, body)
		}, func() {
			input.SetText("")
			render()
		})
	})

	pollCtx, stopPolling := context.WithCancel(context.Background())
	updates := chat.NewPoller(screen.conv, a.cfg.PollInterval, a.log).Run(pollCtx)
	go func() {
		for range updates {
			a.ui.QueueUpdateDraw(render)
		}
	}()

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(logView, 0, 1, false).
		AddItem(input, 1, 0, true).
		AddItem(newHint("[Enter] send  [Ctrl-R] refresh  [Ctrl-D] delete  [Esc] back"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			stopPolling()
			a.pages.SwitchToPage(screen.backPage)
			return nil
		case tcell.KeyCtrlR:
			refresh()
			return nil
		case tcell.KeyCtrlD:
			a.showDeleteMessage(screen.conv, render)
			return nil
		}
		if action, ok := screen.extraKeys[event.Key()]; ok {
			action()
			return nil
		}
		return event
	})

	a.pages.AddPage(screen.page, flex, true, true)
	a.pages.SwitchToPage(screen.page)
	refresh()
}

// showDeleteMessage lists the messages this side may try to delete and runs
// the delete flow on the chosen one.
func (a *App) showDeleteMessage(conv *chat.Conversation, render func()) {
	const page = "delete-message"
	messages := conv.Messages()
	picker := tview.NewList().ShowSecondaryText(true)
	picker.SetBorder(true)
	picker.SetTitle(" Delete Message ")

	// Own messages only; orders stay listed past their window so the user
	// gets the explanatory notice instead of a silently missing entry.
	var own []domain.Message
	for _, msg := range messages {
		if conv.OwnSide(msg) {
			own = append(own, msg)
		}
	}
	if len(own) == 0 {
		a.notice("Delete Message", "Nothing to delete.", nil)
		return
	}
	for _, msg := range own {
		picker.AddItem(messageSummary(msg), msg.CreatedAt.Local().Format("Jan 2, 3:04 PM"), 0, nil)
	}
	picker.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		msg := own[index]
		if !conv.CanDelete(msg, time.Now()) {
			a.notice("Delete Option Disabled", "You can only Cancel Order within 20 minutes.", nil)
			return
		}
		a.confirm("Are you sure you want to delete this message?", func() {
			a.call(func(ctx context.Context) error {
				err := conv.Delete(ctx, msg, time.Now())
				if errors.Is(err, chat.ErrCancelWindowElapsed) {
					return fmt.Errorf("you can only cancel an order within 20 minutes")
				}
				return err
			}, func() {
				a.pages.RemovePage(page)
				render()
			})
		})
	})
	picker.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.pages.RemovePage(page)
			return nil
		}
		return event
	})
	a.pages.AddPage(page, center(picker, 60, 16), true, true)
}

func renderDays(days []chat.Day, own func(domain.Message) bool, mine, theirs string) string {
	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "[gray]        ── %s ──[-]\n", day.Label)
		for _, msg := range day.Messages {
			sender := theirs
			color := "teal"
			if own(msg) {
				sender = mine
				color = "white"
			}
			stamp := msg.CreatedAt.Local().Format("3:04 PM")
			fmt.Fprintf(&b, "[%s]%s[-] [gray](%s)[-]  %s\n", color, sender, stamp, messageSummary(msg))
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "[gray]No Messages Yet[-]"
	}
	return b.String()
}

func messageSummary(msg domain.Message) string {
	switch {
	case msg.IsOrder():
		return fmt.Sprintf("[green]Order[-] %s × %d", msg.Name, msg.Quantity)
	case msg.ProductID != "":
		return fmt.Sprintf("[yellow]Product[-] %s", msg.Body)
	case msg.Image != "":
		if msg.Body != "" {
			return fmt.Sprintf("[yellow]Image[-] %s", msg.Body)
		}
		return "[yellow]Image[-] " + msg.Image
	default:
		return msg.Body
	}
}
