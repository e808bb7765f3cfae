package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewResponse struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"productId"`
	BuyerUID  string `json:"buyerUid"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

func toReviewResponse(rv *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        rv.ID,
		ProductID: rv.ProductID,
		BuyerUID:  rv.BuyerUID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.Format(time.RFC3339),
	}
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Average float64          `json:"average"`
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	idParam := c.Param("id")
	productID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	page, err := h.svc.ListByProduct(c.Request().Context(), productID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch reviews"))
	}
	resp := make([]ReviewResponse, 0, len(page.Reviews))
	for i := range page.Reviews {
		resp = append(resp, toReviewResponse(&page.Reviews[i]))
	}
	return c.JSON(http.StatusOK, ReviewListResponse{Reviews: resp, Total: page.Total, Average: page.Average})
}

type EligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	State    string `json:"state"`
}

// Eligibility handles GET /products/:id/reviews/eligibility for the caller.
func (h *ReviewHandler) Eligibility(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	idParam := c.Param("id")
	productID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	elig, err := h.svc.Eligibility(c.Request().Context(), productID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to check eligibility"))
	}
	return c.JSON(http.StatusOK, EligibilityResponse{Eligible: elig.Eligible, State: string(elig.State)})
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Submit(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	idParam := c.Param("id")
	productID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	var req SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rv, err := h.svc.Submit(c.Request().Context(), productID, uid, req.Rating, req.Comment)
	if err != nil {
		switch err {
		case service.ErrInvalidRating, service.ErrEmptyComment:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		case service.ErrNotEligible:
			return c.JSON(http.StatusConflict, NewErrorResponse("not_eligible", "review not allowed for this purchase cycle"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to submit review"))
		}
	}
	return c.JSON(http.StatusCreated, toReviewResponse(rv))
}
