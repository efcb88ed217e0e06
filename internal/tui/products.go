package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"frostmart/internal/catalog"
	"frostmart/internal/search"
	"frostmart/pkg/domain"
)

func (a *App) newProductList() *catalog.List[domain.Product] {
	return catalog.NewList(
		func(ctx context.Context, page int, query string) ([]domain.Product, error) {
			return a.client.Products(ctx, page, query)
		},
		func(p domain.Product) string { return p.ID },
	)
}

// showProducts is the end-user catalog: debounced search, incremental pages,
// ask-rate and place-order actions.
func (a *App) showProducts() {
	ctrl := a.newProductList()
	listView := tview.NewList().ShowSecondaryText(true)
	listView.SetBorder(true)
	listView.SetTitle(" Products ")

	render := func() {
		listView.Clear()
		for _, product := range ctrl.Items() {
			listView.AddItem(productLine(product), productDetailLine(product), 0, nil)
		}
		if ctrl.HasMore() {
			listView.AddItem("— Load more —", "", 0, nil)
		} else {
			listView.AddItem("No More Products", "", 0, nil)
		}
	}

	load := func(page int, query string) {
		a.call(func(ctx context.Context) error {
			return ctrl.Load(ctx, page, query)
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
			a.ui.SetFocus(listView)
		}
	})

	listView.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		items := ctrl.Items()
		if index >= len(items) {
			if ctrl.HasMore() {
				a.call(func(ctx context.Context) error {
					return ctrl.LoadMore(ctx)
				}, render)
			}
			return
		}
		a.showProductActions(items[index], debouncer.Stop)
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchField, 1, 0, true).
		AddItem(listView, 0, 1, false).
		AddItem(newHint("[Tab] list  [Esc] back"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			debouncer.Stop()
			a.pages.SwitchToPage(pageUserHome)
			return nil
		}
		return event
	})

	a.pages.AddPage(pageProducts, flex, true, true)
	a.pages.SwitchToPage(pageProducts)
	load(1, "")
}

// showProductActions offers the per-product actions. leave runs before any
// action that navigates away from the products screen, so its pending search
// timer cannot fire into a hidden page.
func (a *App) showProductActions(product domain.Product, leave func()) {
	const page = "product-actions"
	modal := tview.NewModal().
		SetText(productLine(product)).
		AddButtons([]string{"Details", "Ask Rate", "Place Order", "Back"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(page)
			switch label {
			case "Details":
				a.showProductDetail(product)
			case "Ask Rate":
				a.showAskRate(product, leave)
			case "Place Order":
				a.showPlaceOrder(product, leave)
			}
		})
	a.pages.AddPage(page, modal, true, true)
}

func (a *App) showProductDetail(product domain.Product) {
	const page = "product-detail"
	image := "No Image"
	if url := product.FirstImage(); url != "" {
		image = url
	}
	status := ""
	if product.Status == domain.ProductComingSoon {
		status = "\nComing Soon"
	}
	text := fmt.Sprintf("%s\n\n₹%s/%s%s\n\n%s\n\nImage: %s",
		product.Name, product.Price, product.Unit, status, product.Description, image)
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Back"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(page)
		})
	a.pages.AddPage(page, modal, true, true)
}

func (a *App) showAskRate(product domain.Product, leave func()) {
	const page = "ask-rate"
	var note string
	form := tview.NewForm().
		AddInputField("Message", "", 40, nil, func(text string) { note = text })
	form.AddButton("Send", func() {
		if strings.TrimSpace(note) == "" {
			a.notice("Error", "Please Enter Message.", nil)
			return
		}
		a.call(func(ctx context.Context) error {
			return a.client.SendMessage(ctx, note, product.FirstImage(), product.ID)
		}, func() {
			a.pages.RemovePage(page)
			leave()
			a.showUserChat()
		})
	})
	form.AddButton("Cancel", func() {
		a.pages.RemovePage(page)
	})
	form.SetBorder(true)
	form.SetTitle(" Ask Rate — " + product.Name + " ")
	a.pages.AddPage(page, center(form, 56, 9), true, true)
}

func (a *App) showPlaceOrder(product domain.Product, leave func()) {
	const page = "place-order"
	var quantity string
	form := tview.NewForm().
		AddInputField("Quantity ("+string(product.Unit)+")", "", 10, tview.InputFieldInteger, func(text string) { quantity = text })
	form.AddButton("Order", func() {
		qty, err := strconv.Atoi(strings.TrimSpace(quantity))
		if err != nil || qty <= 0 {
			a.notice("Invalid Quantity", "Please enter a valid positive quantity to place the order.", nil)
			return
		}
		a.call(func(ctx context.Context) error {
			return a.client.PlaceOrder(ctx, product, qty)
		}, func() {
			a.pages.RemovePage(page)
			leave()
			a.showUserChat()
		})
	})
	form.AddButton("Cancel", func() {
		a.pages.RemovePage(page)
	})
	form.SetBorder(true)
	form.SetTitle(" Place Order — " + product.Name + " ")
	a.pages.AddPage(page, center(form, 56, 9), true, true)
}

func productLine(p domain.Product) string {
	name := p.Name
	if runes := []rune(name); len(runes) > 35 {
		name = string(runes[:32]) + "..."
	}
	if p.Status == domain.ProductComingSoon {
		return fmt.Sprintf("%s  [green](Coming Soon)[-]", name)
	}
	return name
}

func productDetailLine(p domain.Product) string {
	if p.Price == "" {
		return string(p.Unit)
	}
	return fmt.Sprintf("₹%s/%s", p.Price, p.Unit)
}
