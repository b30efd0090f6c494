package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditService interface {
	CreatePackage(ctx context.Context, req dto.CreateCreditPackageRequest) (*model.CreditPackage, error)
	ListPackages(ctx context.Context, includeInactive bool) ([]model.CreditPackage, error)
	DeactivatePackage(ctx context.Context, id uuid.UUID) error

	// Purchase grants the units and creates a draft invoice over the package
	// price. The credit is usable immediately; collecting the money is the
	// invoice lifecycle's business.
	Purchase(ctx context.Context, req dto.PurchaseCreditRequest) (*model.CustomerCredit, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerCredit, error)
}

type creditService struct {
	credits  repository.CreditRepository
	invoices InvoiceService
}

func NewCreditService(credits repository.CreditRepository, invoices InvoiceService) CreditService {
	return &creditService{credits: credits, invoices: invoices}
}

func (s *creditService) CreatePackage(ctx context.Context, req dto.CreateCreditPackageRequest) (*model.CreditPackage, error) {
	if req.Units < 1 {
		return nil, apierror.Validation("Paket muss mindestens eine Einheit enthalten")
	}
	if req.Price.IsNegative() {
		return nil, apierror.Validation("Preis darf nicht negativ sein")
	}
	taxRate := req.TaxRate
	if taxRate.IsZero() {
		taxRate = defaultTaxRate
	}

	pkg := &model.CreditPackage{
		Name:        req.Name,
		Units:       req.Units,
		Price:       req.Price,
		TaxRate:     taxRate,
		ValidMonths: req.ValidMonths,
		Active:      true,
	}
	if err := s.credits.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *creditService) ListPackages(ctx context.Context, includeInactive bool) ([]model.CreditPackage, error) {
	return s.credits.ListPackages(ctx, includeInactive)
}

func (s *creditService) DeactivatePackage(ctx context.Context, id uuid.UUID) error {
	pkg, err := s.credits.FindPackageByID(ctx, id)
	if err != nil {
		return err
	}
	pkg.Active = false
	return s.credits.UpdatePackage(ctx, pkg)
}

func (s *creditService) Purchase(ctx context.Context, req dto.PurchaseCreditRequest) (*model.CustomerCredit, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Kunden-ID")
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Paket-ID")
	}

	pkg, err := s.credits.FindPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.Active {
		return nil, apierror.InvalidState("Paket wird nicht mehr angeboten")
	}

	items := []dto.InvoiceItemRequest{{
		Description: fmt.Sprintf("%s (%d Einheiten)", pkg.Name, pkg.Units),
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   pkg.Price,
		TaxRate:     pkg.TaxRate,
	}}
	inv, err := s.invoices.CreateForCustomer(ctx, customerID, items, nil)
	if err != nil {
		return nil, err
	}

	credit := &model.CustomerCredit{
		CustomerID:     customerID,
		PackageID:      pkg.ID,
		UnitsTotal:     pkg.Units,
		UnitsRemaining: pkg.Units,
		InvoiceID:      &inv.ID,
	}
	if pkg.ValidMonths > 0 {
		expires := time.Now().AddDate(0, pkg.ValidMonths, 0)
		credit.ExpiresAt = &expires
	}
	if err := s.credits.CreateCredit(ctx, nil, credit); err != nil {
		return nil, err
	}
	return credit, nil
}

func (s *creditService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerCredit, error) {
	return s.credits.ListCreditsByCustomer(ctx, customerID)
}
