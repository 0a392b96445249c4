package api

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opencampus/wolfcafe/internal/cafe"
	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/internal/webserver"
)

func registerMakeOrderRoutes() {
	staffOrAdmin := webserver.RequireRole(domain.RoleAdmin, domain.RoleStaff)
	customerOrAdmin := webserver.RequireRole(domain.RoleAdmin, domain.RoleCustomer)

	webserver.ApiPOST("/makeorder/:name", makeOrder, customerOrAdmin)
	webserver.ApiGET("/makeorder/queue", ordersToFulfill, staffOrAdmin)
	webserver.ApiPUT("/makeorder/fulfill/:id", fulfillOrder, staffOrAdmin)
	webserver.ApiPUT("/makeorder/pickup/:id", pickupOrder, customerOrAdmin)
	webserver.ApiGET("/makeorder/fulfilled", fulfilledOrders)
}

func makeOrderService(c echo.Context) *cafe.MakeOrderService {
	db := GetDB(c)
	return cafe.NewMakeOrderService(db, cafe.NewGormOrderRepository(db))
}

// makeOrder purchases the named order. The request body is the amount paid
// as plain text, matching the payment terminal client.
func makeOrder(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read payment amount", nil)
	}
	amountPaid, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil || math.IsNaN(amountPaid) || math.IsInf(amountPaid, 0) {
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "Payment amount is not a number", nil)
	}

	db := GetDB(c)
	order, err := cafe.NewGormOrderRepository(db).GetByName(c.Request().Context(), c.Param("name"))
	if errors.Is(err, cafe.ErrOrderNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	change, err := makeOrderService(c).Purchase(c.Request().Context(), order.ID, amountPaid)
	switch {
	case errors.Is(err, cafe.ErrInsufficientPayment):
		return fail(c, http.StatusConflict, "INSUFFICIENT_PAYMENT", "Amount paid does not cover the order cost", nil)
	case errors.Is(err, cafe.ErrInsufficientStock):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough inventory for this order", nil)
	case errors.Is(err, cafe.ErrNotActive):
		return fail(c, http.StatusConflict, "ORDER_NOT_ACTIVE", "Order has already been purchased", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to purchase order", err.Error())
	}
	logOperation(c, "purchase_order", order.Name)
	return ok(c, map[string]interface{}{"change": change})
}

func ordersToFulfill(c echo.Context) error {
	orders, err := makeOrderService(c).OrdersToFulfill(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}

func fulfillOrder(c echo.Context) error {
	return transitionOrder(c, "fulfill")
}

func pickupOrder(c echo.Context) error {
	return transitionOrder(c, "pickup")
}

func transitionOrder(c echo.Context, action string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	svc := makeOrderService(c)
	var moved bool
	if action == "fulfill" {
		moved, err = svc.Fulfill(c.Request().Context(), id)
	} else {
		moved, err = svc.Pickup(c.Request().Context(), id)
	}
	switch {
	case errors.Is(err, cafe.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	if !moved {
		return fail(c, http.StatusConflict, "WRONG_STATE", "Order is not in the required status", nil)
	}
	logOperation(c, action+"_order", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id, "done": true})
}

func fulfilledOrders(c echo.Context) error {
	orders, err := makeOrderService(c).FulfilledOrders(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}
