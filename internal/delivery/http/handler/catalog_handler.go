package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/response"
	"medcenter-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	validator      *validator.CustomValidator
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, validator *validator.CustomValidator) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

func (h *CatalogHandler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.catalogUsecase.GetDepartments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *CatalogHandler) GetServicesByType(w http.ResponseWriter, r *http.Request) {
	h.servicesByType(w, r, mux.Vars(r)["type"])
}

func (h *CatalogHandler) GetHomeServices(w http.ResponseWriter, r *http.Request) {
	h.servicesByType(w, r, "home")
}

func (h *CatalogHandler) servicesByType(w http.ResponseWriter, r *http.Request, serviceType string) {
	services, err := h.catalogUsecase.GetServicesByType(r.Context(), serviceType)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidServiceType):
			response.BadRequest(w, "Unknown service type")
		default:
			response.InternalServerError(w, "Failed to get services")
		}
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *CatalogHandler) GetServiceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.GetServiceCategories(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get service categories")
		return
	}

	response.Success(w, http.StatusOK, "Service categories retrieved successfully", categories)
}

func (h *CatalogHandler) GetServicesByCategory(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogUsecase.GetServicesByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		response.InternalServerError(w, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

// CreateService adds a catalog service (admin)
// @Summary Create catalog service
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /service-categories [post]
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.catalogUsecase.CreateService(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidServiceType):
			response.BadRequest(w, "Unknown service type")
		case errors.Is(err, usecase.ErrServiceCodeExists):
			response.Conflict(w, "Service code already exists")
		default:
			response.InternalServerError(w, "Failed to create service")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

// UpdateService changes the fields present in the body (admin)
// @Summary Update catalog service
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Update Service Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /service-categories/{id} [put]
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req dto.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.catalogUsecase.UpdateService(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrServiceNotFound):
			response.NotFound(w, "Service not found")
		default:
			response.InternalServerError(w, "Failed to update service")
		}
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", svc)
}
