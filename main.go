package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"aluquote/collections"
	"aluquote/handlers"
	"aluquote/services"
)

func main() {
	app := pocketbase.New()

	var initialPassword string
	extras := services.DefaultExtras
	app.RootCmd.PersistentFlags().StringVar(&initialPassword, "initial-password",
		os.Getenv("ALUQUOTE_INITIAL_PASSWORD"),
		"access password stored on first start (env ALUQUOTE_INITIAL_PASSWORD)")
	app.RootCmd.PersistentFlags().Float64Var(&extras.BlockagePrice, "blockage-price",
		extras.BlockagePrice, "price of one blockage add-on in SAR")
	app.RootCmd.PersistentFlags().Float64Var(&extras.OutletPrice, "outlet-price",
		extras.OutletPrice, "price of one outlet add-on in SAR")

	catalog := services.NewCatalogStore(app)
	passwords := services.NewPasswordStore(app)
	quotes := services.NewQuoteBook()

	// Create collections, seed the catalog and the access password on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := extras.Validate(); err != nil {
			return fmt.Errorf("invalid add-on prices: %w", err)
		}
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := catalog.Reload(); err != nil {
			return err
		}
		created, err := passwords.EnsureInitial(initialPassword)
		switch {
		case err == nil && created:
			log.Printf("Access password initialised")
		case err != nil && initialPassword == "":
			log.Printf("Warning: no access password set; start once with --initial-password")
		case err != nil:
			log.Printf("Warning: initial password not stored: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.RequireSession(quotes))

		// ── Sign in ──────────────────────────────────────────────
		se.Router.GET("/login", handlers.HandleLoginPage(quotes))
		se.Router.POST("/login", handlers.HandleLogin(passwords, quotes))
		se.Router.POST("/logout", handlers.HandleLogout(quotes))

		// ── Pricing ──────────────────────────────────────────────
		se.Router.GET("/pricing", handlers.HandlePricingPage(catalog, quotes, extras))
		se.Router.GET("/pricing/products", handlers.HandleProductOptions(catalog, extras))
		se.Router.POST("/pricing/preview", handlers.HandlePricePreview(catalog, extras))

		// ── Quote ────────────────────────────────────────────────
		se.Router.POST("/quote/items", handlers.HandleQuoteAdd(catalog, quotes, extras))
		se.Router.DELETE("/quote/items/{id}", handlers.HandleQuoteRemove(quotes))
		se.Router.POST("/quote/items/{id}/price", handlers.HandleQuoteOverride(quotes))
		se.Router.POST("/quote/items/{id}/reset", handlers.HandleQuoteReset(quotes))
		se.Router.POST("/quote/clear", handlers.HandleQuoteClear(quotes))

		// Quote export
		se.Router.GET("/quote/export/pdf", handlers.HandleQuoteExportPDF(quotes))
		se.Router.GET("/quote/export/excel", handlers.HandleQuoteExportExcel(quotes))
		se.Router.GET("/quote/print", handlers.HandleQuotePrint(quotes))
		se.Router.GET("/quote/share/whatsapp", handlers.HandleQuoteShareWhatsApp(quotes))

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/catalog", handlers.HandleCatalogPage(catalog))
		se.Router.POST("/catalog/categories", handlers.HandleCategoryAdd(catalog))
		se.Router.POST("/catalog/categories/{id}/delete", handlers.HandleCategoryDelete(catalog, passwords))
		se.Router.POST("/catalog/products", handlers.HandleProductSave(catalog))
		se.Router.GET("/catalog/products/{id}/edit", handlers.HandleProductEdit(catalog))
		se.Router.POST("/catalog/products/{id}", handlers.HandleProductUpdate(catalog))
		se.Router.POST("/catalog/products/{id}/delete", handlers.HandleProductDelete(catalog, passwords))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettingsPage(catalog))
		se.Router.POST("/settings/password", handlers.HandlePasswordChange(catalog, passwords))
		se.Router.GET("/settings/export", handlers.HandleCatalogExport(catalog))
		se.Router.POST("/settings/import", handlers.HandleCatalogImport(catalog))
		se.Router.GET("/settings/price-list/template", handlers.HandlePriceListTemplate())
		se.Router.POST("/settings/price-list", handlers.HandlePriceListValidate(catalog))
		se.Router.POST("/settings/price-list/commit", handlers.HandlePriceListCommit(catalog))
		se.Router.POST("/settings/price-list/errors", handlers.HandlePriceListErrors())

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/pricing")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
