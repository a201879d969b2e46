package command

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// SeedSampleDataCommand populates an empty marketplace with demo records
type SeedSampleDataCommand struct{}

// SeedResult counts the records inserted by a seed run
type SeedResult struct {
	Users    int `json:"users"`
	Products int `json:"products"`
}

// SeedSampleDataHandler handles sample data seeding
type SeedSampleDataHandler struct {
	repo domain.Repository
}

// NewSeedSampleDataHandler creates a new seed handler
func NewSeedSampleDataHandler(repo domain.Repository) *SeedSampleDataHandler {
	return &SeedSampleDataHandler{repo: repo}
}

var sampleUsers = []domain.UserDraft{
	{
		Name:     "João Silva",
		Email:    "joao@example.com",
		Phone:    "(11) 98765-4321",
		Location: "São Paulo, SP",
		Password: "123456",
		Photo:    "https://randomuser.me/api/portraits/men/1.jpg",
	},
	{
		Name:     "Maria Oliveira",
		Email:    "maria@example.com",
		Phone:    "(21) 98765-4321",
		Location: "Rio de Janeiro, RJ",
		Password: "123456",
		Photo:    "https://randomuser.me/api/portraits/women/1.jpg",
	},
}

// seller is an index into the user list at seed time
var sampleProducts = []struct {
	seller int
	draft  domain.ProductDraft
}{
	{0, domain.ProductDraft{
		Name:        "iPhone 13 Pro",
		Description: "iPhone 13 Pro Max 256GB, cor grafite, em perfeito estado. Acompanha carregador e caixa original.",
		Price:       5999.99,
		Category:    domain.CategoryElectronics,
		Location:    "São Paulo, SP",
		Images:      []string{"https://images.unsplash.com/photo-1632661674596-df8be070a5c5?auto=format&fit=crop&w=1000&q=80"},
		PlusCode:    "588MF9X8+QC",
	}},
	{1, domain.ProductDraft{
		Name:        "Bicicleta Mountain Bike",
		Description: "Bicicleta Mountain Bike aro 29, 21 marchas, freio a disco, suspensão dianteira. Usada apenas 3 vezes.",
		Price:       1299.99,
		Category:    domain.CategorySports,
		Location:    "Rio de Janeiro, RJ",
		Images:      []string{"https://images.unsplash.com/photo-1485965120184-e220f721d03e?auto=format&fit=crop&w=1000&q=80"},
		PlusCode:    "589R3RXX+2V",
	}},
	{0, domain.ProductDraft{
		Name:        "Sofá 3 lugares",
		Description: "Sofá retrátil e reclinável, 3 lugares, tecido suede, cor cinza. Pouco tempo de uso, em ótimo estado.",
		Price:       1899.99,
		Category:    domain.CategoryHome,
		Location:    "São Paulo, SP",
		Images:      []string{"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?auto=format&fit=crop&w=1000&q=80"},
		PlusCode:    "588MF9X8+QC",
	}},
}

// Handle seeds users when there are none, then products when there are none
func (h *SeedSampleDataHandler) Handle(ctx context.Context, _ SeedSampleDataCommand) (*SeedResult, error) {
	result := &SeedResult{}

	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		for _, draft := range sampleUsers {
			if _, err := h.repo.AddUser(ctx, draft); err != nil {
				return nil, fmt.Errorf("failed to seed user %s: %w", draft.Email, err)
			}
			result.Users++
		}
		if users, err = h.repo.ListUsers(ctx); err != nil {
			return nil, err
		}
	}

	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 || len(users) < len(sampleUsers) {
		return result, nil
	}

	for _, sample := range sampleProducts {
		draft := sample.draft
		draft.SellerID = users[sample.seller].ID
		if _, err := h.repo.AddProduct(ctx, draft); err != nil {
			return nil, fmt.Errorf("failed to seed product %s: %w", draft.Name, err)
		}
		result.Products++
	}

	return result, nil
}
