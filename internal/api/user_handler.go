package api

import (
	"github.com/labstack/echo/v4"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a user account --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.userService.Register(c.Request().Context(), &user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"id":       created.ID,
		"username": created.Username,
		"email":    created.Email,
	})
}

// Login authenticates a user and returns a JWT --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if body.Email == "" || body.Password == "" {
		return c.JSON(400, map[string]string{"error": "email and password are required"})
	}

	token, err := h.userService.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"token": token})
}

type CouponHandler struct {
	couponService *service.CouponService
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// CreateCoupon registers a coupon --> POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c echo.Context) error {
	coupon := entity.Coupon{}
	if err := c.Bind(&coupon); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.couponService.CreateCoupon(c.Request().Context(), &coupon)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, created)
}
