package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

// documentResponse pairs the stored record with its computed financial
// snapshot.
type documentResponse struct {
	Document   *models.Document          `json:"document"`
	Financials models.DocumentFinancials `json:"financials"`
}

func toDocumentResponse(doc *models.Document) documentResponse {
	return documentResponse{Document: doc, Financials: doc.Financials(time.Now())}
}

func GetDocuments(c *gin.Context) {
	documents, summary, err := models.GetDocuments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]documentResponse, 0, len(documents))
	for _, doc := range documents {
		responses = append(responses, toDocumentResponse(doc))
	}
	c.JSON(http.StatusOK, gin.H{"documents": responses, "summary": summary})
}

func GetDocument(c *gin.Context) {
	num, ok := pathId(c, "num")
	if !ok {
		return
	}
	doc, err := models.GetDocument(c.Request.Context(), num)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func CreateDocument(c *gin.Context) {
	var input models.NewDocument
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	doc, err := models.CreateDocument(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

func UpdateDocument(c *gin.Context) {
	num, ok := pathId(c, "num")
	if !ok {
		return
	}
	var input models.NewDocument
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	doc, err := models.UpdateDocument(c.Request.Context(), num, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func DeleteDocument(c *gin.Context) {
	num, ok := pathId(c, "num")
	if !ok {
		return
	}
	if err := models.DeleteDocument(c.Request.Context(), num); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// RecordDocumentPayment appends a signed payment and returns the refreshed
// snapshot.
func RecordDocumentPayment(c *gin.Context) {
	num, ok := pathId(c, "num")
	if !ok {
		return
	}
	var input models.NewDocumentPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	doc, err := models.RecordDocumentPayment(c.Request.Context(), num, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

func DetachDocumentFromProject(c *gin.Context) {
	num, ok := pathId(c, "num")
	if !ok {
		return
	}
	if err := models.DetachDocumentFromProject(c.Request.Context(), num); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document detached from project"})
}
