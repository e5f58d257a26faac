package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

// maxUploadSize caps backup and price-list uploads.
const maxUploadSize = 10 << 20

func settingsData(store *services.CatalogStore, errs map[string]string) templates.SettingsData {
	cat := store.Snapshot()
	if errs == nil {
		errs = map[string]string{}
	}
	return templates.SettingsData{
		CategoryCount: len(cat.Categories),
		ProductCount:  len(cat.Products),
		Errors:        errs,
	}
}

func renderSettings(e *core.RequestEvent, data templates.SettingsData) error {
	if isHTMX(e) {
		return templates.SettingsContent(data).Render(e.Request.Context(), e.Response)
	}
	return templates.SettingsPage(data).Render(e.Request.Context(), e.Response)
}

func HandleSettingsPage(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderSettings(e, settingsData(store, nil))
	}
}

// HandlePasswordChange replaces the shop password.
// Route: POST /settings/password
func HandlePasswordChange(store *services.CatalogStore, passwords *services.PasswordStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		err := passwords.Change(e.Request.FormValue("current_password"), e.Request.FormValue("new_password"))
		switch {
		case err == nil:
			log.Printf("settings: access password changed")
			return flashRedirect(e, "success", "Password updated", "/settings")
		case errors.Is(err, services.ErrWrongPassword):
			SetToast(e, "warning", "Please fix the errors below")
			return renderSettings(e, settingsData(store, map[string]string{"current_password": err.Error()}))
		case errors.Is(err, services.ErrWeakPassword):
			SetToast(e, "warning", "Please fix the errors below")
			return renderSettings(e, settingsData(store, map[string]string{"new_password": err.Error()}))
		}
		log.Printf("settings: change password: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// HandleCatalogExport downloads the catalog as a JSON backup.
// Route: GET /settings/export
func HandleCatalogExport(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.ExportCatalogJSON(store.Snapshot())
		if err != nil {
			log.Printf("catalog_export: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to export catalog")
		}

		e.Response.Header().Set("Content-Type", "application/json")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, services.CatalogExportFilename(time.Now())))
		e.Response.Write(data)
		return nil
	}
}

// readUpload returns the uploaded "file" field.
func readUpload(e *core.RequestEvent) (io.ReadCloser, string, error) {
	if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", errors.New("File too large or invalid form data")
	}
	file, header, err := e.Request.FormFile("file")
	if err != nil {
		return nil, "", errors.New("Please select a file to upload")
	}
	return file, header.Filename, nil
}

// HandleCatalogImport restores categories and products from a JSON backup.
// Route: POST /settings/import
func HandleCatalogImport(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, _, err := readUpload(e)
		if err != nil {
			return renderSettings(e, settingsData(store, map[string]string{"import": err.Error()}))
		}
		defer file.Close()

		body, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded file")
		}

		summary, err := store.ImportCatalogJSON(body)
		if err != nil {
			log.Printf("catalog_import: %v", err)
			SetToast(e, "error", "Import failed")
			return renderSettings(e, settingsData(store, map[string]string{"import": err.Error()}))
		}

		msg := fmt.Sprintf("Imported %d categories and %d products", summary.Categories, summary.Products)
		if summary.Dropped > 0 {
			msg += fmt.Sprintf(" (%d products removed with their category)", summary.Dropped)
		}
		log.Printf("catalog_import: %s", msg)
		return flashRedirect(e, "success", msg, "/settings")
	}
}

// HandlePriceListTemplate downloads an empty price-list workbook.
// Route: GET /settings/price-list/template
func HandlePriceListTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GeneratePriceListTemplate()
		if err != nil {
			log.Printf("price_list_template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Price_List_Template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandlePriceListValidate validates an uploaded price list and returns the
// results as an HTMX partial.
// Route: POST /settings/price-list
func HandlePriceListValidate(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, name, err := readUpload(e)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		defer file.Close()

		result, err := services.ValidatePriceListFile(store.Snapshot(), file, name)
		if err != nil {
			log.Printf("price_list_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		data := templates.PriceListResultData{
			FileName:  result.FileName,
			TotalRows: result.TotalRows,
			ValidRows: result.ValidRows,
			ErrorRows: result.ErrorRows,
			Errors:    result.Errors,
		}
		if result.ErrorRows == 0 {
			if b, err := json.Marshal(result.Products); err == nil {
				data.ProductsJSON = string(b)
			} else {
				log.Printf("price_list_validate: marshal products: %v", err)
			}
		} else if b, err := json.Marshal(result.Errors); err == nil {
			data.ErrorsJSON = string(b)
		}
		return templates.PriceListResults(data).Render(e.Request.Context(), e.Response)
	}
}

// HandlePriceListCommit re-validates the posted products and stores them.
// Route: POST /settings/price-list/commit
func HandlePriceListCommit(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		raw := e.Request.FormValue("products_json")
		if raw == "" {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}
		var products []services.Product
		if err := json.Unmarshal([]byte(raw), &products); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid product data")
		}

		// The catalog may have changed since the file was validated.
		cat := store.Snapshot()
		for i, p := range products {
			p.ID = ""
			products[i] = services.NormalizeProduct(p)
			if errs := services.ValidateProduct(cat, products[i]); len(errs) > 0 {
				return ErrorToast(e, http.StatusUnprocessableEntity,
					fmt.Sprintf("Row %d is no longer valid: %v. Please re-upload.", i+2, errs))
			}
		}

		n, err := store.ImportPriceList(&services.ValidationResult{Products: products})
		if err != nil {
			log.Printf("price_list_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return flashRedirect(e, "success", fmt.Sprintf("%d products imported successfully", n), "/catalog")
	}
}

// HandlePriceListErrors downloads the validation errors as an Excel file.
// Route: POST /settings/price-list/errors
func HandlePriceListErrors() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errs []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("price_list_errors: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Price_List_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
