package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"refuge/internal/domain"
	"refuge/internal/service"
)

// @Summary Current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CartView
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	view, err := s.Carts.Get(c, identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Empty the cart
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	if err := s.Carts.Clear(c, identity(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemReq struct {
	ProductID int64  `json:"product_id"`
	Quantity  *int64 `json:"quantity"`
}

// @Summary Add product to cart, merging with an existing line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body addItemReq true "Item"
// @Success 200 {object} domain.CartLine
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	line, err := s.Carts.AddItem(c, identity(c).UserID, req.ProductID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

type setQuantityReq struct {
	Quantity *int64 `json:"quantity"`
}

// @Summary Set line quantity; 0 removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product_id path int true "Product ID"
// @Param input body setQuantityReq true "Quantity"
// @Success 200 {object} service.CartView
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /cart/items/{product_id} [put]
func (s *Server) setCartItem(c *gin.Context) {
	productID, err := parseID(c.Param("product_id"))
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}
	userID := identity(c).UserID
	if _, err := s.Carts.SetQuantity(c, userID, productID, *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	s.getCart(c)
}

// @Summary Remove product from cart
// @Tags cart
// @Security BearerAuth
// @Param product_id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /cart/items/{product_id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	productID, err := parseID(c.Param("product_id"))
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	if err := s.Carts.RemoveItem(c, identity(c).UserID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type checkoutResp struct {
	Success     bool          `json:"success"`
	OrderNumber string        `json:"order_number"`
	Order       *domain.Order `json:"order"`
}

// @Summary Turn the cart into an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CheckoutInput false "Delivery details"
// @Success 201 {object} checkoutResp
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /checkout [post]
func (s *Server) checkout(c *gin.Context) {
	// тело необязательно; пустое тело означает данные из профиля
	var in service.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid json")
		return
	}
	o, err := s.Orders.Checkout(c, identity(c).UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutResp{Success: true, OrderNumber: o.OrderNumber, Order: o})
}

// @Summary Own orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listMyOrders(c *gin.Context) {
	list, err := s.Orders.ListOrders(c, identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Order by number
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number, e.g. CMD-0001"
// @Success 200 {object} domain.Order
// @Failure 404 {object} errorBody
// @Router /orders/{number} [get]
func (s *Server) getOrder(c *gin.Context) {
	id := identity(c)
	o, err := s.Orders.GetOrder(c, id.UserID, id.IsAdmin(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary All orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /admin/orders [get]
func (s *Server) listAllOrders(c *gin.Context) {
	list, err := s.Orders.ListAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type orderStatusReq struct {
	Status domain.OrderStatus `json:"status"`
}

// @Summary Move order status forward and notify the owner
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number"
// @Param input body orderStatusReq true "Status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /admin/orders/{number}/status [patch]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req orderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	o, err := s.Orders.UpdateStatus(c, c.Param("number"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
