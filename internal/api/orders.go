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

func registerOrderRoutes() {
	customerOrAdmin := webserver.RequireRole(domain.RoleAdmin, domain.RoleCustomer)

	webserver.ApiGET("/orders", listOrders)
	webserver.ApiPOST("/orders", createOrder, customerOrAdmin)
	webserver.ApiGET("/orders/active", getActiveOrder, customerOrAdmin)
	webserver.ApiGET("/orders/history", orderHistory)
	webserver.ApiGET("/orders/:name", getOrderByName)
	webserver.ApiPUT("/orders/active/items", addItemToActiveOrder, customerOrAdmin)
	webserver.ApiPUT("/orders/:id", updateOrder, customerOrAdmin)
	webserver.ApiDELETE("/orders/:id", deleteOrder, customerOrAdmin)
}

func orderService(c echo.Context) *cafe.OrderService {
	db := GetDB(c)
	return cafe.NewOrderService(db, cafe.NewGormOrderRepository(db))
}

type orderItemPayload struct {
	Name        string  `json:"name"`
	Amount      int     `json:"amount"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type orderPayload struct {
	Name   string             `json:"name"`
	Status string             `json:"status"`
	Items  []orderItemPayload `json:"items"`
}

func (p *orderPayload) toOrder() *domain.Order {
	order := &domain.Order{
		Name:   strings.TrimSpace(p.Name),
		Status: domain.OrderStatus(p.Status),
	}
	for _, it := range p.Items {
		order.Items = append(order.Items, domain.Item{
			Name:        it.Name,
			Amount:      it.Amount,
			Price:       it.Price,
			Description: it.Description,
		})
	}
	return order
}

func listOrders(c echo.Context) error {
	orders, err := orderService(c).List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order name is required", nil)
	}

	order, err := orderService(c).Create(c.Request().Context(), payload.toOrder())
	switch {
	case errors.Is(err, cafe.ErrDuplicateName):
		return fail(c, http.StatusConflict, "DUPLICATE_ORDER", "An order with this name already exists", nil)
	case errors.Is(err, cafe.ErrOrderLimit):
		return fail(c, http.StatusInsufficientStorage, "ORDER_LIMIT", "Maximum number of orders reached", nil)
	case errors.Is(err, cafe.ErrInvalidOrder):
		return fail(c, http.StatusBadRequest, "INVALID_ORDER", "Order must have at least one item with a positive amount", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err.Error())
	}
	logOperation(c, "create_order", order.Name)
	return created(c, order)
}

func getActiveOrder(c echo.Context) error {
	order, err := orderService(c).ActiveOrder(c.Request().Context())
	switch {
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NO_ACTIVE_ORDER", "No active order found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query active order", err.Error())
	}
	return ok(c, order)
}

func orderHistory(c echo.Context) error {
	orders, err := orderService(c).History(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order history", err.Error())
	}
	return ok(c, orders)
}

func getOrderByName(c echo.Context) error {
	order, err := orderService(c).GetByName(c.Request().Context(), c.Param("name"))
	switch {
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}

	order, err := orderService(c).Update(c.Request().Context(), id, payload.toOrder())
	switch {
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, cafe.ErrInvalidOrder):
		return fail(c, http.StatusConflict, "INVALID_ORDER", "Order must have at least one item with a positive amount", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	err = orderService(c).Delete(c.Request().Context(), id)
	switch {
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err.Error())
	}
	logOperation(c, "delete_order", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

type addItemPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func addItemToActiveOrder(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", nil)
	}
	order, err := orderService(c).AddItemToActiveOrder(c.Request().Context(), payload.Name, payload.Quantity)
	switch {
	case errors.Is(err, cafe.ErrInvalidAmount):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be a positive integer", nil)
	case errors.Is(err, cafe.ErrItemNotFound):
		return fail(c, http.StatusBadRequest, "ITEM_NOT_FOUND", "Item not found in the active order", nil)
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NO_ACTIVE_ORDER", "No active order found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update active order", err.Error())
	}
	return ok(c, order)
}
