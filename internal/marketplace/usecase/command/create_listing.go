package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
)

// CreateListingCommand represents the command to list a new product
type CreateListingCommand struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Location    string
	Images      []string
	Video       string
	PlusCode    string
}

// CreateListingHandler handles product listing command
type CreateListingHandler struct {
	repo domain.Repository
}

// NewCreateListingHandler creates a new create listing handler
func NewCreateListingHandler(repo domain.Repository) *CreateListingHandler {
	return &CreateListingHandler{repo: repo}
}

// Handle lists the product on behalf of the session user
func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*domain.Product, error) {
	seller, err := requireSession(ctx, h.repo)
	if err != nil {
		return nil, err
	}

	draft, err := cmd.draft()
	if err != nil {
		return nil, err
	}
	draft.SellerID = seller.ID

	product, err := h.repo.AddProduct(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

func (cmd CreateListingCommand) draft() (domain.ProductDraft, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.ProductDraft{}, domain.NewValidationError("name", "name is required")
	}
	description := strings.TrimSpace(cmd.Description)
	if description == "" {
		return domain.ProductDraft{}, domain.NewValidationError("description", "description is required")
	}
	if cmd.Price < 0 {
		return domain.ProductDraft{}, domain.NewValidationError("price", "price cannot be negative")
	}
	if !domain.IsCategory(cmd.Category) {
		return domain.ProductDraft{}, domain.NewValidationError("category", "unknown category")
	}
	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		return domain.ProductDraft{}, domain.NewValidationError("location", "location is required")
	}

	images := make([]string, 0, len(cmd.Images))
	for _, img := range cmd.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
		if len(images) == domain.MaxProductImages {
			break
		}
	}
	if len(images) == 0 {
		return domain.ProductDraft{}, domain.NewValidationError("images", "at least one image is required")
	}

	var video *string
	if v := strings.TrimSpace(cmd.Video); v != "" {
		video = &v
	}

	plusCode := strings.ToUpper(strings.TrimSpace(cmd.PlusCode))
	if plusCode != "" {
		if _, ok := feed.Locate(plusCode); !ok {
			return domain.ProductDraft{}, domain.NewValidationError("plusCode", "invalid plus code")
		}
	}

	return domain.ProductDraft{
		Name:        name,
		Description: description,
		Price:       cmd.Price,
		Category:    cmd.Category,
		Location:    location,
		Images:      images,
		Video:       video,
		PlusCode:    plusCode,
	}, nil
}
