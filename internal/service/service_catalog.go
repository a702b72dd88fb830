package service

import (
	"context"
	"fmt"
	"strings"

	"procurement/internal/models"
	"procurement/internal/search"
)

func (s *Service) Products(ctx context.Context, q ListQuery) ([]models.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.Products: %w", err)
	}

	products, err := s.client.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Products: %w", err)
	}
	products, err = applyQuery(products, q, models.ProductSearchFields)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Products: %w", err)
	}
	return products, nil
}

func (s *Service) Product(ctx context.Context, id models.ID) (models.Product, error) {
	if id.Empty() {
		return models.Product{}, validationErr("product id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.Product{}, fmt.Errorf("service.Service.Product: %w", err)
	}

	p, err := s.client.Product(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("service.Service.Product: %w", err)
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if len(p.Name) == 0 {
		return models.Product{}, validationErr("product name is required")
	}
	if p.Price < 0 {
		return models.Product{}, validationErr("product price is negative")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.Product{}, fmt.Errorf("service.Service.CreateProduct: %w", err)
	}

	created, err := s.client.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("service.Service.CreateProduct: %w", err)
	}
	s.log.Infof("product %s created", created.Id)
	return created, nil
}

// UpdateProduct applies a partial update. The id always travels with the changes.
func (s *Service) UpdateProduct(ctx context.Context, id models.ID, changes map[string]any) (models.Product, error) {
	if id.Empty() {
		return models.Product{}, validationErr("product id is required")
	}
	if len(changes) == 0 {
		return models.Product{}, validationErr("nothing to update")
	}
	if name, ok := changes["name"].(string); ok && len(strings.TrimSpace(name)) == 0 {
		return models.Product{}, validationErr("product name must not be blank")
	}
	if price, ok := changes["price"].(float64); ok && price < 0 {
		return models.Product{}, validationErr("product price is negative")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.Product{}, fmt.Errorf("service.Service.UpdateProduct: %w", err)
	}

	body := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		body[k] = v
	}
	body["id"] = id.String()

	updated, err := s.client.UpdateProduct(ctx, body)
	if err != nil {
		return models.Product{}, fmt.Errorf("service.Service.UpdateProduct: %w", err)
	}
	return updated, nil
}

func (s *Service) Enquiries(ctx context.Context, q ListQuery) ([]models.ProductEnquiry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.Enquiries: %w", err)
	}

	enquiries, err := s.client.Enquiries(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Enquiries: %w", err)
	}
	enquiries, err = applyQuery(enquiries, q, models.EnquirySearchFields)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Enquiries: %w", err)
	}
	return enquiries, nil
}

// UpdateEnquiry answers a pending enquiry. Answered enquiries are final.
func (s *Service) UpdateEnquiry(ctx context.Context, id models.ID, status models.EnquiryStatus) (models.ProductEnquiry, error) {
	if id.Empty() {
		return models.ProductEnquiry{}, validationErr("enquiry id is required")
	}
	if !models.ValidEnquiryStatus(status) {
		return models.ProductEnquiry{}, validationErr("unknown enquiry status: %d", status)
	}
	if err := s.requireSession(ctx); err != nil {
		return models.ProductEnquiry{}, fmt.Errorf("service.Service.UpdateEnquiry: %w", err)
	}

	current, err := s.enquiry(ctx, id)
	if err != nil {
		return models.ProductEnquiry{}, fmt.Errorf("service.Service.UpdateEnquiry: %w", err)
	}
	if !models.EnquiryTransitionAllowed(current.Status, status) {
		return models.ProductEnquiry{}, fmt.Errorf("service.Service.UpdateEnquiry: %w: %d to %d",
			models.ErrTransition, current.Status, status)
	}

	if err := s.client.UpdateEnquiry(ctx, id, status); err != nil {
		return models.ProductEnquiry{}, fmt.Errorf("service.Service.UpdateEnquiry: %w", err)
	}

	updated, err := s.enquiry(ctx, id)
	if err != nil {
		return models.ProductEnquiry{}, fmt.Errorf("service.Service.UpdateEnquiry: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteEnquiry(ctx context.Context, id models.ID) error {
	if id.Empty() {
		return validationErr("enquiry id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return fmt.Errorf("service.Service.DeleteEnquiry: %w", err)
	}
	if err := s.client.DeleteEnquiry(ctx, id); err != nil {
		return fmt.Errorf("service.Service.DeleteEnquiry: %w", err)
	}
	return nil
}

// enquiry looks one enquiry up in the list, the API has no detail endpoint for it.
func (s *Service) enquiry(ctx context.Context, id models.ID) (models.ProductEnquiry, error) {
	enquiries, err := s.client.Enquiries(ctx)
	if err != nil {
		return models.ProductEnquiry{}, err
	}
	for _, e := range enquiries {
		if e.Id == id {
			return e, nil
		}
	}
	return models.ProductEnquiry{}, fmt.Errorf("%w: enquiry %s not found", models.ErrValidation, id)
}

//// Organisations

func (s *Service) Sellers(ctx context.Context, q ListQuery) ([]models.Organisation, error) {
	return s.organisations(ctx, q, s.client.Sellers)
}

func (s *Service) Clients(ctx context.Context, q ListQuery) ([]models.Organisation, error) {
	return s.organisations(ctx, q, s.client.Clients)
}

// organisations carry no creation time, so only search and paging apply.
func (s *Service) organisations(ctx context.Context, q ListQuery,
	fetch func(context.Context) ([]models.Organisation, error)) ([]models.Organisation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.organisations: %w", err)
	}

	orgs, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.organisations: %w", err)
	}
	orgs = search.Filter(orgs, q.Search, models.OrganisationSearchFields)
	return search.Paginate(orgs, q.Limit, q.Offset), nil
}
