package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req := service.PlaceOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	req.IdempotentKey = c.Request().Header.Get("Idempotent-Key")

	order, err := h.orderService.PlaceOrder(ctx, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"success": true,
		"order": map[string]interface{}{
			"id":         order.ID,
			"total":      order.Total,
			"status":     order.Status,
			"created_at": order.CreatedAt,
		},
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Status entity.OrderStatus `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, order)
}

func (h *OrderHandler) UpdateTracking(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid item ID"})
	}

	body := struct {
		TrackingNumber    string     `json:"tracking_number"`
		EstimatedDelivery *time.Time `json:"estimated_delivery"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.SetItemTracking(c.Request().Context(), orderID, itemID, body.TrackingNumber, body.EstimatedDelivery)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, order)
}
