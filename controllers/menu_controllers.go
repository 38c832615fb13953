package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

// MenuController manages the product catalog orders are taken from.
type MenuController struct {
	Floor *services.FloorService
}

func NewMenuController(floor *services.FloorService) *MenuController {
	return &MenuController{Floor: floor}
}

// GetAllProducts -> ?category=, ?type=COCINA|BARRA, ?available=true
func (mc *MenuController) GetAllProducts(c *gin.Context) {
	products, err := mc.Floor.ListProducts(c.Request.Context(), services.ProductFilter{
		Category:      c.Query("category"),
		Type:          c.Query("type"),
		AvailableOnly: c.Query("available") == "true",
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if !bindJSON(c, &req) {
		return
	}
	product, err := mc.Floor.CreateProduct(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("New product: %s (%s) price=%s", product.Name, product.Type, product.Price.StringFixed(2))
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.ProductUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	product, err := mc.Floor.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}
