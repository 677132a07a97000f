package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

func GetProducts(c *gin.Context) {
	products, totals, err := models.GetProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "totals": totals})
}

func GetProduct(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := models.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
