package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
)

type ProductHandler struct {
	stockService *service.StockService
}

func NewProductHandler(stockService *service.StockService) *ProductHandler {
	return &ProductHandler{stockService: stockService}
}

// UpdateStock handles manual ledger mutations --> POST /products/update-stock
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	body := struct {
		ProductID int    `json:"product_id"`
		StoreID   int    `json:"store_id"`
		Quantity  int    `json:"quantity"`
		Action    string `json:"action"`
		OrderID   int    `json:"order_id"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.stockService.UpdateStock(c.Request().Context(), body.StoreID, body.ProductID, body.Quantity, body.Action)
	if err != nil {
		return writeError(c, err)
	}

	message := "Stock increased"
	if body.Action == service.ActionDecrease {
		message = "Stock decreased"
	}
	return c.JSON(200, map[string]interface{}{
		"success": true,
		"product": product,
		"message": message,
	})
}

// GetProductStock gets the stock of a product --> GET /products/:id/stock
func (h *ProductHandler) GetProductStock(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}
	storeID, err := strconv.Atoi(c.QueryParam("store_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid store ID"})
	}

	stock, err := h.stockService.GetProductStock(c.Request().Context(), storeID, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]int{"stock": stock})
}

// CreateProduct registers a product --> POST /admin/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.stockService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, created)
}

// ListProducts lists a store's catalog --> GET /products?store_id=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	storeID, err := strconv.Atoi(c.QueryParam("store_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid store ID"})
	}

	products, err := h.stockService.ListProducts(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, products)
}
