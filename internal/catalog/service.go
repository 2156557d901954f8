package catalog

import "context"

// Service exposes the catalog to the presentation layer and the offer lookup
// used by the basket manager at add time.
type Service interface {
	Categories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context, categoryID int64) ([]Product, error)
	Offers(ctx context.Context, productID int64) ([]Offer, error)
	Offer(ctx context.Context, productID, sellerID int64) (*Offer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) Products(ctx context.Context, categoryID int64) ([]Product, error) {
	return s.repo.ListProducts(ctx, categoryID)
}

func (s *service) Offers(ctx context.Context, productID int64) ([]Offer, error) {
	return s.repo.ListOffers(ctx, productID)
}

// Offer fails with ErrOfferNotFound when the seller does not sell the product.
func (s *service) Offer(ctx context.Context, productID, sellerID int64) (*Offer, error) {
	o, err := s.repo.GetOffer(ctx, productID, sellerID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOfferNotFound
	}
	return o, nil
}
