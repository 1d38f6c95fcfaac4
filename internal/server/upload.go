package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/spreadsheet"
)

// readUpload parses the multipart "file" field as an .xlsx workbook.
func readUpload(c *fiber.Ctx) (dataset.Table, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return dataset.Table{}, fiber.NewError(fiber.StatusBadRequest, "file could not be uploaded: "+err.Error())
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return dataset.Table{}, fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return dataset.Table{}, fiber.NewError(fiber.StatusInternalServerError, "file could not be opened: "+err.Error())
	}
	defer file.Close()

	t, err := spreadsheet.ReadTable(file)
	switch {
	case errors.Is(err, spreadsheet.ErrEmptySheet):
		return dataset.Table{}, fiber.NewError(fiber.StatusBadRequest, "spreadsheet is empty")
	case errors.Is(err, spreadsheet.ErrNoSheet):
		return dataset.Table{}, fiber.NewError(fiber.StatusBadRequest, "spreadsheet has no sheet")
	case err != nil:
		return dataset.Table{}, fiber.NewError(fiber.StatusBadRequest, "spreadsheet could not be read: "+err.Error())
	}
	return t, nil
}

func parseKind(c *fiber.Ctx) (dataset.Kind, error) {
	kind, err := dataset.ParseKind(c.Params("kind"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return kind, nil
}
