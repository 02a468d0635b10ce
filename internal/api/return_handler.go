package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
)

type ReturnHandler struct {
	returnService *service.ReturnService
}

func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// CreateReturn opens an RMA --> POST /returns
func (h *ReturnHandler) CreateReturn(c echo.Context) error {
	body := struct {
		OrderID     int    `json:"order_id"`
		OrderItemID int    `json:"order_item_id"`
		Reason      string `json:"reason"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	ret, err := h.returnService.CreateReturn(c.Request().Context(), body.OrderID, body.OrderItemID, body.Reason)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, ret)
}

// UpdateReturn advances the RMA lifecycle --> PATCH /returns/:id
func (h *ReturnHandler) UpdateReturn(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Status entity.ReturnStatus `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	ret, err := h.returnService.UpdateReturnStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, ret)
}

// GetReturn fetches an RMA --> GET /returns/:id
func (h *ReturnHandler) GetReturn(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ret, err := h.returnService.GetReturn(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, ret)
}
