package main

import (
	"net/http"
	"strconv"

	"github.com/aluguelfacil/locacoes_backend/middlewares"
	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/aluguelfacil/locacoes_backend/workflow"
	"github.com/gin-gonic/gin"
)

type reservationNode struct {
	*models.Reservation
	ClientName string `json:"client_name"`
	VenueName  string `json:"venue_name,omitempty"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type finalizeRequest struct {
	Items []workflow.ItemReturn `json:"items" binding:"required"`
}

func registerReservationRoutes(r *gin.RouterGroup) {
	r.POST("/reservations", createBudgetHandler())
	r.GET("/reservations", listReservationsHandler())
	r.GET("/reservations/export", exportReservationsHandler())
	r.GET("/reservations/:id", getReservationHandler())
	r.PUT("/reservations/:id/status", updateReservationStatusHandler())
	r.POST("/reservations/:id/finalize", finalizeReservationHandler())
	r.DELETE("/reservations/:id", deleteReservationHandler())

	r.PUT("/reservation-items/:id/status", updateReservationItemStatusHandler())
	r.DELETE("/reservation-items/:id", deleteReservationItemHandler())
}

func createBudgetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReservation
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		reservation, err := models.CreateBudget(c.Request.Context(), &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reservation)
	}
}

func bindReservationFilter(c *gin.Context) (*models.ReservationFilter, bool) {
	var filter models.ReservationFilter
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseReservationStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		filter.Status = &status
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return nil, false
		}
		filter.ClientId = &id
	}
	if raw := c.Query("venue_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
			return nil, false
		}
		filter.VenueId = &id
	}
	var ok bool
	if filter.From, ok = queryTime(c, "from"); !ok {
		return nil, false
	}
	if filter.To, ok = queryTime(c, "to"); !ok {
		return nil, false
	}
	return &filter, true
}

func listReservationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := bindReservationFilter(c)
		if !ok {
			return
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		var after *string
		if raw := c.Query("after"); raw != "" {
			after = &raw
		}

		edges, pageInfo, err := models.PaginateReservations(c.Request.Context(), filter, limit, after)
		if err != nil {
			respondModelError(c, err)
			return
		}

		// batched client/venue expansion through the request loaders
		ctx := c.Request.Context()
		type edgeResponse struct {
			Node   reservationNode `json:"node"`
			Cursor string          `json:"cursor"`
		}
		response := make([]edgeResponse, 0, len(edges))
		for _, edge := range edges {
			node := reservationNode{Reservation: edge.Node}
			if client, err := middlewares.GetClient(ctx, edge.Node.ClientId); err == nil {
				node.ClientName = client.Name
			}
			if edge.Node.VenueId > 0 {
				if venue, err := middlewares.GetVenue(ctx, edge.Node.VenueId); err == nil {
					node.VenueName = venue.Name
				}
			}
			response = append(response, edgeResponse{Node: node, Cursor: edge.Cursor})
		}

		c.JSON(http.StatusOK, gin.H{
			"edges":    response,
			"pageInfo": pageInfo,
		})
	}
}

func getReservationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		reservation, err := models.GetReservation(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}

		ctx := c.Request.Context()
		node := reservationNode{Reservation: reservation}
		if client, err := middlewares.GetClient(ctx, reservation.ClientId); err == nil {
			node.ClientName = client.Name
		}
		if reservation.VenueId > 0 {
			if venue, err := middlewares.GetVenue(ctx, reservation.VenueId); err == nil {
				node.VenueName = venue.Name
			}
		}
		c.JSON(http.StatusOK, node)
	}
}

func updateReservationStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		reservation, err := models.UpdateReservationStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	}
}

func updateReservationItemStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		item, err := models.UpdateReservationItemStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteReservationItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		item, err := models.DeleteReservationItem(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteReservationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		reservation, err := models.DeleteReservation(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	}
}

func finalizeReservationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req finalizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
			return
		}
		result, err := workflow.FinalizeReservation(c.Request.Context(), id, req.Items)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func exportReservationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := bindReservationFilter(c)
		if !ok {
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=reservas.xlsx")
		if err := models.ExportReservationsExcel(c.Request.Context(), filter, c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
}
