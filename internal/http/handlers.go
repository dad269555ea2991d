package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"refuge/internal/domain"
	"refuge/internal/report"
	"refuge/internal/repository"
)

// Product handlers
type productReq struct {
	SerialNumber string          `json:"serial_number"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"9.99"`
	Stock        int64           `json:"stock"`
	Category     domain.Category `json:"category"`
	ImageURL     string          `json:"image_url"`
}

func (r productReq) product(id int64) domain.Product {
	return domain.Product{
		ID:           id,
		SerialNumber: r.SerialNumber,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Stock:        r.Stock,
		Category:     r.Category,
		ImageURL:     r.ImageURL,
	}
}

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body productReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /admin/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	p, err := s.Products.Create(c, req.product(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	p, err := s.Products.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Update product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param input body productReq true "Update"
// @Success 200 {object} domain.Product
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /admin/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	p, err := s.Products.Update(c, req.product(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /admin/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	if err := s.Products.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Nutrition, Accessories or Hygiene"
// @Param ordering query string false "id, name, price, stock, created_at; prefix - for descending"
// @Param page query int false "Page, starting at 1"
// @Param page_size query int false "Page size, at most 100"
// @Success 200 {array} domain.Product
// @Failure 400 {object} errorBody
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	f := repository.ProductFilter{
		NameSubstring: c.Query("q"),
		Category:      domain.Category(c.Query("category")),
		OrderBy:       c.Query("ordering"),
	}
	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		badRequest(c, "invalid page")
		return
	}
	if f.PageSize, err = queryInt(c, "page_size"); err != nil {
		badRequest(c, "invalid page_size")
		return
	}
	list, err := s.Products.List(c, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Export products as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/products/export [get]
func (s *Server) exportProducts(c *gin.Context) {
	list, err := s.Products.List(c, repository.ProductFilter{})
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "products.xlsx")
	if err := report.Products(c.Writer, list); err != nil {
		_ = c.Error(err)
	}
}

// @Summary Export orders as xlsx, one row per order line
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/orders/export [get]
func (s *Server) exportOrders(c *gin.Context) {
	list, err := s.Orders.ListAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "orders.xlsx")
	if err := report.Orders(c.Writer, list); err != nil {
		_ = c.Error(err)
	}
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", report.ContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err == nil && id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, err
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
