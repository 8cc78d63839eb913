package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/domain/entity"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
	"valomarket/pkg/response"
	"valomarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
	userUseCase    *usecase.UserUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, userUseCase *usecase.UserUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		userUseCase:    userUseCase,
	}
}

type contactRequest struct {
	Facebook string `json:"facebook" validate:"max=200"`
	Line     string `json:"line" validate:"max=100"`
	Discord  string `json:"discord" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=20"`
}

func (r contactRequest) toEntity() entity.Contact {
	return entity.Contact{
		Facebook: r.Facebook,
		Line:     r.Line,
		Discord:  r.Discord,
		Phone:    r.Phone,
	}
}

type createListingRequest struct {
	Rank          string         `json:"rank" validate:"required"`
	Skins         int            `json:"skins" validate:"gte=0"`
	Price         int64          `json:"price" validate:"required,gt=0"`
	FeaturedSkins string         `json:"featured_skins" validate:"max=500"`
	Highlights    string         `json:"highlights" validate:"max=1000"`
	SellType      string         `json:"sell_type" validate:"omitempty,oneof=full partial"`
	Image         string         `json:"image" validate:"omitempty,url"`
	Images        []string       `json:"images" validate:"max=5,dive,url"`
	Contact       contactRequest `json:"contact"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.UID(c), usecase.CreateListingInput{
		Rank:          req.Rank,
		Skins:         req.Skins,
		Price:         req.Price,
		FeaturedSkins: req.FeaturedSkins,
		Highlights:    req.Highlights,
		SellType:      req.SellType,
		Image:         req.Image,
		Images:        req.Images,
		Contact:       req.Contact.toEntity(),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

// GetListing is public; the caller's identity, when present, decides whether
// a non-approved listing or its contact is visible.
func (h *ListingHandler) GetListing(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UID(c)

	isAdmin := false
	if uid != "" {
		var err error
		if isAdmin, err = h.userUseCase.IsAdmin(ctx, uid); err != nil {
			return response.Error(c, err)
		}
	}

	listing, err := h.listingUseCase.GetListing(ctx, c.Param("id"), uid, isAdmin)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) Marketplace(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	minPrice, err := queryInt64(c, "min_price")
	if err != nil {
		return response.Error(c, err)
	}
	maxPrice, err := queryInt64(c, "max_price")
	if err != nil {
		return response.Error(c, err)
	}

	listings, total, err := h.listingUseCase.Marketplace(c.Request().Context(), usecase.MarketplaceFilter{
		Rank:     c.QueryParam("rank"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Search:   c.QueryParam("search"),
		Limit:    pagination.PageSize,
		Offset:   pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) MyListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.MyListings(c.Request().Context(), middleware.UID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) UploadImages(c echo.Context) error {
	uploads, err := formImages(c, "images", usecase.MaxListingImages)
	if err != nil {
		return response.Error(c, err)
	}

	urls, err := h.listingUseCase.UploadImages(c.Request().Context(), middleware.UID(c), uploads)
	if err != nil {
		return response.Error(c, err)
	}

	logger.Debug("Uploaded %d listing images for %s", len(urls), middleware.UID(c))
	return response.Created(c, map[string]interface{}{
		"urls": urls,
	})
}

func (h *ListingHandler) SiteStats(c echo.Context) error {
	stats, err := h.listingUseCase.SiteStats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func queryInt64(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, errors.Validation(name + " must be a non-negative integer")
	}
	return v, nil
}
