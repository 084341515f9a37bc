package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/internal/order"
)

type orderPayload struct {
	BuyerUsername string           `json:"buyer_username" validate:"required"`
	Items         []order.CartLine `json:"items" validate:"required,dive"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func placeOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	orderID, err := orderService(c).Place(c.Request().Context(), payload.BuyerUsername, payload.Items)
	if err != nil {
		return failDomain(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Message string `json:"message"`
		OrderID int64  `json:"order_id,string"`
	}{Message: "Order placed", OrderID: orderID})
}

func listMyOrders(c echo.Context) error {
	views, err := orderService(c).ListByBuyer(c.Request().Context(), c.Param("username"))
	if err != nil {
		return failDomain(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func listIncomingOrders(c echo.Context) error {
	views, err := orderService(c).ListIncoming(c.Request().Context(), c.Param("seller_username"))
	if err != nil {
		return failDomain(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
	}

	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	if err := orderService(c).UpdateStatus(c.Request().Context(), id, domain.OrderStatus(payload.Status)); err != nil {
		return failDomain(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated"})
}
