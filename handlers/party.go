package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

func GetParties(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	parties, err := models.GetParties(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parties": parties})
}

func GetParty(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	party, err := models.GetParty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

func CreateParty(c *gin.Context) {
	var input models.NewParty
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	party, err := models.CreateParty(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, party)
}

func UpdateParty(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewParty
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	party, err := models.UpdateParty(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

func DeactivateParty(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := models.DeactivateParty(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "party deactivated"})
}

func DeleteParty(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := models.DeleteParty(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "party deleted"})
}
