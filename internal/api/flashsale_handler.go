package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
)

type FlashSaleHandler struct {
	saleService *service.FlashSaleService
}

func NewFlashSaleHandler(saleService *service.FlashSaleService) *FlashSaleHandler {
	return &FlashSaleHandler{saleService: saleService}
}

func (h *FlashSaleHandler) CreateSale(c echo.Context) error {
	sale := entity.FlashSale{}
	if err := c.Bind(&sale); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.saleService.CreateSale(c.Request().Context(), &sale)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, created)
}

func (h *FlashSaleHandler) ListSales(c echo.Context) error {
	storeID, err := strconv.Atoi(c.QueryParam("store_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid store ID"})
	}

	sales, err := h.saleService.ListSales(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, sales)
}

func (h *FlashSaleHandler) GetSale(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}
	storeID, err := strconv.Atoi(c.QueryParam("store_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid store ID"})
	}

	sale, err := h.saleService.GetSale(c.Request().Context(), storeID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, sale)
}

func (h *FlashSaleHandler) UpdateSale(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	sale := entity.FlashSale{}
	if err := c.Bind(&sale); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	sale.ID = id

	updated, err := h.saleService.UpdateSale(c.Request().Context(), &sale)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, updated)
}

func (h *FlashSaleHandler) DeleteSale(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}
	storeID, err := strconv.Atoi(c.QueryParam("store_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid store ID"})
	}

	if err := h.saleService.DisableSale(c.Request().Context(), storeID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Sale disabled"})
}
