package controllers

import (
	"net/http"

	"github.com/ABAKHAR721/sakane-be/services"
	"github.com/gin-gonic/gin"
)

type LeadController struct {
	leadService *services.LeadService
}

func NewLeadController() *LeadController {
	return &LeadController{
		leadService: services.NewLeadService(),
	}
}

// PropertyRequestPayload mirrors the public intake form: property
// details, location and contact, validated before anything reaches the
// database.
type PropertyRequestPayload struct {
	PropertyDetails struct {
		Mode           string `json:"mode" binding:"required"`
		Type           string `json:"type" binding:"required"`
		Bedrooms       string `json:"bedrooms"`
		Area           string `json:"area"`
		Budget         string `json:"budget"`
		RentalDuration string `json:"rentalDuration"`
		Timing         string `json:"timing"`
	} `json:"propertyDetails" binding:"required"`
	Location struct {
		Address     string `json:"address" binding:"required"`
		Coordinates struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"coordinates"`
	} `json:"location" binding:"required"`
	Contact struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone" binding:"required"`
	} `json:"contact" binding:"required"`
}

// CreatePropertyRequest receives a lead from the public form.
func (lc *LeadController) CreatePropertyRequest(c *gin.Context) {
	var payload PropertyRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	lead, err := lc.leadService.CreateLead(services.CreateLeadInput{
		Mode:           payload.PropertyDetails.Mode,
		Type:           payload.PropertyDetails.Type,
		Bedrooms:       payload.PropertyDetails.Bedrooms,
		Area:           payload.PropertyDetails.Area,
		Budget:         payload.PropertyDetails.Budget,
		RentalDuration: payload.PropertyDetails.RentalDuration,
		Timing:         payload.PropertyDetails.Timing,
		Address:        payload.Location.Address,
		Latitude:       payload.Location.Coordinates.Lat,
		Longitude:      payload.Location.Coordinates.Lng,
		ContactName:    payload.Contact.Name,
		ContactEmail:   payload.Contact.Email,
		ContactPhone:   payload.Contact.Phone,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Impossible d'enregistrer la demande"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": lead.ID},
	})
}
