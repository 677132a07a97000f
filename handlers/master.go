package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

// Master-table lookups backing the client's select boxes.

func GetRegions(c *gin.Context) {
	regions, err := models.GetRegions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func GetCities(c *gin.Context) {
	regionId, _ := strconv.Atoi(c.Query("region_id"))
	cities, err := models.GetCities(c.Request.Context(), regionId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func GetCommunes(c *gin.Context) {
	cityId, _ := strconv.Atoi(c.Query("city_id"))
	communes, err := models.GetCommunes(c.Request.Context(), cityId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communes": communes})
}

func GetDocumentTypes(c *gin.Context) {
	types, err := models.GetDocumentTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_types": types})
}

func GetPaymentTypes(c *gin.Context) {
	types, err := models.GetPaymentTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_types": types})
}

func GetTransactionTypes(c *gin.Context) {
	types, err := models.GetTransactionTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_types": types})
}
