package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondModelError maps the typed model errors onto HTTP statuses.
func respondModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case utils.IsConflictError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respondBindError surfaces per-field binding failures when the payload was
// valid JSON but failed the struct validation tags.
func respondBindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC3339"})
		return nil, false
	}
	return &t, true
}

func registerCatalogRoutes(r *gin.RouterGroup) {
	r.GET("/products", listProductsHandler())
	r.POST("/products", createProductHandler())
	r.GET("/products/:id", getProductHandler())
	r.PUT("/products/:id", updateProductHandler())
	r.DELETE("/products/:id", deleteProductHandler())
	r.GET("/products/:id/availability", availabilityHandler())

	r.GET("/clients", listClientsHandler())
	r.POST("/clients", createClientHandler())
	r.GET("/clients/:id", getClientHandler())
	r.PUT("/clients/:id", updateClientHandler())
	r.DELETE("/clients/:id", deleteClientHandler())

	r.GET("/venues", listVenuesHandler())
	r.POST("/venues", createVenueHandler())
	r.GET("/venues/:id", getVenueHandler())
	r.PUT("/venues/:id", updateVenueHandler())
	r.DELETE("/venues/:id", deleteVenueHandler())

	r.GET("/movements", listMovementsHandler())
	r.POST("/movements", createMovementHandler())

	r.GET("/dashboard", dashboardHandler())
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		activeOnly := c.Query("active") == "true"
		products, err := models.GetAllProducts(c.Request.Context(), &name, activeOnly)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
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
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func availabilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		from, ok := queryTime(c, "from")
		if !ok {
			return
		}
		to, ok := queryTime(c, "to")
		if !ok {
			return
		}
		if from == nil || to == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
			return
		}
		available, err := models.CheckAvailability(c.Request.Context(), id, *from, *to)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": id, "available": available})
	}
}

func listClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		activeOnly := c.Query("active") == "true"
		clients, err := models.GetAllClients(c.Request.Context(), &name, activeOnly)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func createClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClient
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		client, err := models.CreateClient(c.Request.Context(), &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, client)
	}
}

func getClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		client, err := models.GetClient(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func updateClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewClient
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		client, err := models.UpdateClient(c.Request.Context(), id, &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func deleteClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		client, err := models.DeleteClient(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func listVenuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		activeOnly := c.Query("active") == "true"
		venues, err := models.GetAllVenues(c.Request.Context(), &name, activeOnly)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, venues)
	}
}

func createVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewVenue
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		venue, err := models.CreateVenue(c.Request.Context(), &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, venue)
	}
}

func getVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		venue, err := models.GetVenue(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, venue)
	}
}

func updateVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewVenue
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		venue, err := models.UpdateVenue(c.Request.Context(), id, &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, venue)
	}
}

func deleteVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		venue, err := models.DeleteVenue(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, venue)
	}
}

func listMovementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.MovementFilter
		if raw := c.Query("product_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
				return
			}
			filter.ProductId = &id
		}
		if raw := c.Query("type"); raw != "" {
			mt, err := models.ParseMovementType(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter.Type = &mt
		}
		if raw := c.Query("reservation_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation_id"})
				return
			}
			filter.ReservationId = &id
		}
		var ok bool
		if filter.From, ok = queryTime(c, "from"); !ok {
			return
		}
		if filter.To, ok = queryTime(c, "to"); !ok {
			return
		}

		// cursor pagination when requested, the full ledger otherwise
		if c.Query("limit") != "" || c.Query("after") != "" {
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
			edges, pageInfo, err := models.PaginateMovements(c.Request.Context(), &filter, limit, after)
			if err != nil {
				respondModelError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"edges": edges, "pageInfo": pageInfo})
			return
		}

		movements, err := models.ListMovements(c.Request.Context(), &filter)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, movements)
	}
}

func createMovementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewMovement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		movement, err := models.CreateMovement(c.Request.Context(), &input)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, movement)
	}
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, ok := queryTime(c, "from")
		if !ok {
			return
		}
		to, ok := queryTime(c, "to")
		if !ok {
			return
		}
		if from == nil || to == nil {
			start, end := utils.GetThisMonthRange()
			if from == nil {
				from = &start
			}
			if to == nil {
				to = &end
			}
		}
		dashboard, err := models.GetDashboard(c.Request.Context(), *from, *to)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}
