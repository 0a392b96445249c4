package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opencampus/wolfcafe/internal/cafe"
	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/internal/webserver"
)

func registerInventoryRoutes() {
	staffOrAdmin := webserver.RequireRole(domain.RoleAdmin, domain.RoleStaff)

	webserver.ApiGET("/inventory", getInventory, staffOrAdmin)
	webserver.ApiPUT("/inventory", updateInventory, staffOrAdmin)
	webserver.ApiPOST("/inventory", addInventoryItem, staffOrAdmin)
}

func inventoryService(c echo.Context) *cafe.InventoryService {
	return cafe.NewInventoryService(GetDB(c))
}

type inventoryPayload struct {
	Items []orderItemPayload `json:"items"`
}

func getInventory(c echo.Context) error {
	inv, err := inventoryService(c).Get(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory", err.Error())
	}
	return ok(c, inv)
}

func updateInventory(c echo.Context) error {
	var payload inventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inventory", nil)
	}
	if payload.Items == nil {
		return fail(c, http.StatusConflict, "MISSING_ITEMS", "Inventory update requires an item list", nil)
	}

	items := make([]domain.Item, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, domain.Item{
			Name:        it.Name,
			Amount:      it.Amount,
			Price:       it.Price,
			Description: it.Description,
		})
	}

	inv, err := inventoryService(c).Update(c.Request().Context(), items)
	switch {
	case errors.Is(err, cafe.ErrInvalidAmount):
		return fail(c, http.StatusConflict, "INVALID_AMOUNT", "Item amounts cannot be negative", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update inventory", err.Error())
	}
	logOperation(c, "update_inventory", "bulk update")
	return ok(c, inv)
}

func addInventoryItem(c echo.Context) error {
	var payload orderItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Item name is required", nil)
	}

	item, err := inventoryService(c).AddItem(c.Request().Context(), domain.Item{
		Name:        payload.Name,
		Amount:      payload.Amount,
		Price:       payload.Price,
		Description: payload.Description,
	})
	switch {
	case errors.Is(err, cafe.ErrInvalidAmount):
		return fail(c, http.StatusConflict, "INVALID_AMOUNT", "Item amount must be a positive integer", nil)
	case errors.Is(err, cafe.ErrDuplicateItem):
		return fail(c, http.StatusConflict, "DUPLICATE_ITEM", "An item with this name already exists", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add item", err.Error())
	}
	logOperation(c, "add_inventory_item", item.Name)
	return ok(c, item)
}
