package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"frostmart/internal/api"
	"frostmart/internal/search"
	"frostmart/pkg/domain"
)

// showAdminProducts is the catalog management screen: the same incremental
// list as the storefront plus edit and delete actions.
func (a *App) showAdminProducts() {
	ctrl := a.newProductList()
	listView := tview.NewList().ShowSecondaryText(true)
	listView.SetBorder(true)
	listView.SetTitle(" Manage Products ")

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
		product := items[index]
		const page = "product-admin-actions"
		modal := tview.NewModal().
			SetText(productLine(product)).
			AddButtons([]string{"Edit", "Delete", "Back"}).
			SetDoneFunc(func(_ int, label string) {
				a.pages.RemovePage(page)
				switch label {
				case "Edit":
					debouncer.Stop()
					a.showProductForm(&product)
				case "Delete":
					a.confirm("Are you sure you want to delete this product?", func() {
						a.call(func(ctx context.Context) error {
							return a.client.DeleteProduct(ctx, product.ID)
						}, func() {
							load(1, ctrl.Search())
						})
					})
				}
			})
		a.pages.AddPage(page, modal, true, true)
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchField, 1, 0, true).
		AddItem(listView, 0, 1, false).
		AddItem(newHint("[Tab] list  [Esc] back"), 1, 0, false)
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			debouncer.Stop()
			a.pages.SwitchToPage(pageAdminHome)
			return nil
		}
		return event
	})

	a.pages.AddPage(pageAdminProducts, flex, true, true)
	a.pages.SwitchToPage(pageAdminProducts)
	load(1, "")
}

var productUnits = []string{"Piece", "Kg", "Box", "Unit"}

// showProductForm creates a product when existing is nil, edits it otherwise.
// Local image paths are uploaded to the image host; http(s) entries are kept
// as already-hosted URLs.
func (a *App) showProductForm(existing *domain.Product) {
	input := api.ProductInput{
		Unit:   domain.UnitPiece,
		Status: domain.ProductAvailable,
	}
	title := " Create Product "
	imageText := ""
	if existing != nil {
		title = " Edit Product "
		input = api.ProductInput{
			Name:        existing.Name,
			Price:       existing.Price,
			Description: existing.Description,
			Unit:        existing.Unit,
			Status:      existing.Status,
		}
		imageText = strings.Join(existing.Images, ", ")
	}

	unitIndex := 0
	for i, unit := range productUnits {
		if domain.ProductUnit(unit) == input.Unit {
			unitIndex = i
		}
	}
	statusIndex := 0
	if input.Status == domain.ProductComingSoon {
		statusIndex = 1
	}

	form := tview.NewForm().
		AddInputField("Name", input.Name, 40, nil, func(text string) { input.Name = text }).
		AddInputField("Price", input.Price, 20, nil, func(text string) { input.Price = text }).
		AddDropDown("Unit", productUnits, unitIndex, func(option string, _ int) {
			input.Unit = domain.ProductUnit(option)
		}).
		AddDropDown("Status", []string{"Available", "Coming Soon"}, statusIndex, func(_ string, index int) {
			if index == 1 {
				input.Status = domain.ProductComingSoon
			} else {
				input.Status = domain.ProductAvailable
			}
		}).
		AddInputField("Description", input.Description, 40, nil, func(text string) { input.Description = text }).
		AddInputField("Images (paths or URLs, comma-separated)", imageText, 40, nil, func(text string) {
			imageText = text
		})

	submit := func() {
		entries := splitList(imageText)
		if len(entries) == 0 {
			a.notice("Validation Error", "Please fill Product Name and upload images", nil)
			return
		}
		a.call(func(ctx context.Context) error {
			urls, err := a.resolveImages(ctx, entries)
			if err != nil {
				return err
			}
			in := input
			in.Images = urls
			if existing != nil {
				return a.client.UpdateProduct(ctx, existing.ID, in)
			}
			return a.client.CreateProduct(ctx, in)
		}, func() {
			if existing != nil {
				a.notice("Success", "Product updated successfully!", func() {
					a.pages.SwitchToPage(pageAdminHome)
				})
			} else {
				a.notice("Success", "Product created successfully!", func() {
					a.pages.SwitchToPage(pageAdminHome)
				})
			}
		})
	}

	form.AddButton("Save", submit)
	form.AddButton("Cancel", func() {
		a.pages.SwitchToPage(pageAdminHome)
	})
	form.SetBorder(true)
	form.SetTitle(title)
	a.pages.AddPage(pageProductForm, center(form, 66, 19), true, true)
	a.pages.SwitchToPage(pageProductForm)
}

// resolveImages uploads local paths and passes hosted URLs through unchanged.
func (a *App) resolveImages(ctx context.Context, entries []string) ([]string, error) {
	var urls []string
	var uploads []string
	for _, entry := range entries {
		if strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://") {
			urls = append(urls, entry)
			continue
		}
		uploads = append(uploads, entry)
	}
	if len(uploads) > 0 {
		if a.uploads == nil {
			return nil, fmt.Errorf("no image host configured; only hosted URLs can be used")
		}
		uploaded, err := a.uploads.UploadFiles(ctx, uploads)
		if err != nil {
			return nil, err
		}
		urls = append(urls, uploaded...)
	}
	return urls, nil
}

func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
