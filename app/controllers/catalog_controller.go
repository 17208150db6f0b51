package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/bind"
	"github.com/campuseats/canteen/pkg/response"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// Canteens lists all canteens.
func (c *CatalogController) Canteens(w http.ResponseWriter, r *http.Request) {
	canteens, err := c.catalog.Canteens()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, canteens)
}

// ShowCanteen returns one canteen by id.
func (c *CatalogController) ShowCanteen(w http.ResponseWriter, r *http.Request) {
	canteen, err := c.catalog.Canteen(paramUint(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, canteen)
}

// Categories lists all categories.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, categories)
}

// MenuItems lists available menu items, filterable by canteen_id and
// category_id query parameters.
func (c *CatalogController) MenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := c.catalog.MenuItems(queryUint(r, "canteen_id"), queryUint(r, "category_id"), false)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, items)
}

// AdminMenuItems lists all menu items including unavailable ones.
func (c *CatalogController) AdminMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := c.catalog.MenuItems(queryUint(r, "canteen_id"), queryUint(r, "category_id"), true)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, items)
}

type menuItemRequest struct {
	CanteenID   uint            `json:"canteen_id" validate:"required"`
	CategoryID  *uint           `json:"category_id"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description" validate:"nullable,max=1000"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
}

func (body menuItemRequest) toInput() services.MenuItemInput {
	// Omitted is_available defaults to on sale.
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	return services.MenuItemInput{
		CanteenID:   body.CanteenID,
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		IsAvailable: available,
	}
}

// CreateMenuItem adds a menu item to the catalog.
func (c *CatalogController) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var body menuItemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	item, err := c.catalog.CreateMenuItem(body.toInput())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, item)
}

// UpdateMenuItem edits a menu item.
func (c *CatalogController) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var body menuItemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	item, err := c.catalog.UpdateMenuItem(paramUint(r, "id"), body.toInput())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, item)
}

// DeleteMenuItem removes a menu item.
func (c *CatalogController) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteMenuItem(paramUint(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.NoContent(w)
}

type canteenRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=1000"`
}

// CreateCanteen adds a canteen.
func (c *CatalogController) CreateCanteen(w http.ResponseWriter, r *http.Request) {
	var body canteenRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	canteen, err := c.catalog.CreateCanteen(body.Name, body.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, canteen)
}

// UpdateCanteen edits a canteen.
func (c *CatalogController) UpdateCanteen(w http.ResponseWriter, r *http.Request) {
	var body canteenRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	canteen, err := c.catalog.UpdateCanteen(paramUint(r, "id"), body.Name, body.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, canteen)
}

// DeleteCanteen removes a canteen.
func (c *CatalogController) DeleteCanteen(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteCanteen(paramUint(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.NoContent(w)
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CreateCategory adds a category.
func (c *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	category, err := c.catalog.CreateCategory(body.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, category)
}

// UpdateCategory renames a category.
func (c *CatalogController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	category, err := c.catalog.UpdateCategory(paramUint(r, "id"), body.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, category)
}

// DeleteCategory removes a category.
func (c *CatalogController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteCategory(paramUint(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.NoContent(w)
}
