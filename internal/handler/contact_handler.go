package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/service"
)

type ContactHandler struct {
	svc service.ContactService
}

func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type ContactResponse struct {
	ID           uint64   `json:"id"`
	ProductID    uint64   `json:"productId"`
	BuyerUID     string   `json:"buyerUid"`
	SellerUID    string   `json:"sellerUid"`
	Status       string   `json:"status"`
	NextStatuses []string `json:"nextStatuses"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func toContactResponse(ct *model.Contact) ContactResponse {
	next := ct.Status.NextStatuses()
	nextStr := make([]string, 0, len(next))
	for _, n := range next {
		nextStr = append(nextStr, string(n))
	}
	return ContactResponse{
		ID:           ct.ID,
		ProductID:    ct.ProductID,
		BuyerUID:     ct.BuyerUID,
		SellerUID:    ct.SellerUID,
		Status:       string(ct.Status),
		NextStatuses: nextStr,
		CreatedAt:    ct.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    ct.UpdatedAt.Format(time.RFC3339),
	}
}

// ContactSeller handles POST /products/:id/contact.
func (h *ContactHandler) ContactSeller(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	idParam := c.Param("id")
	productID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	ct, err := h.svc.ContactSeller(c.Request().Context(), productID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toContactResponse(ct))
}

func (h *ContactHandler) GetByProduct(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	idParam := c.Param("id")
	productID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	ct, err := h.svc.GetByProduct(c.Request().Context(), productID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "contact not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch contact"))
		}
	}
	return c.JSON(http.StatusOK, toContactResponse(ct))
}

type UpdateContactStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /contacts/:id/status (seller only).
func (h *ContactHandler) UpdateStatus(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	idParam := c.Param("id")
	contactID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid contact id"))
	}
	var req UpdateContactStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	target, ok := model.ParseContactStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unknown status"))
	}
	ct, err := h.svc.UpdateStatus(c.Request().Context(), contactID, target, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "contact not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "status change not allowed"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toContactResponse(ct))
}

type ContactWithProductResponse struct {
	Contact ContactResponse `json:"contact"`
	Product ProductResponse `json:"product"`
}

func (h *ContactHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch contacts"))
	}
	return c.JSON(http.StatusOK, toContactWithProductResponses(list))
}

func (h *ContactHandler) ListSales(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch sales"))
	}
	return c.JSON(http.StatusOK, toContactWithProductResponses(list))
}

func toContactWithProductResponses(list []service.ContactWithProduct) []ContactWithProductResponse {
	resp := make([]ContactWithProductResponse, 0, len(list))
	for _, row := range list {
		productResp := ProductResponse{
			ID:        row.Contact.ProductID,
			SellerUID: row.Contact.SellerUID,
		}
		if row.Product != nil {
			productResp = toProductResponse(row.Product)
		}
		resp = append(resp, ContactWithProductResponse{
			Contact: toContactResponse(&row.Contact),
			Product: productResp,
		})
	}
	return resp
}
