// Package productrepo provides data transfer objects and mapping functions
// for the product catalog. The catalog is read-mostly from the core's point
// of view: orders resolve products and ownerships through here but never
// write them.
package productrepo

import (
	"database/sql"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the database structure for persisting catalog
// products. Pricing and metadata are owned by the product and embedded in
// the same row; formats and contact persons are small bounded lists stored
// as JSON.
type ProductDTO struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Label              string      `gorm:"type:text;uniqueIndex"`
	Status             int         `gorm:"index"`
	MaxOrderArea       float64     `gorm:"column:max_order_area"`
	GroupID            *uuid.UUID  `gorm:"type:uuid"`
	FreeWhenSubscribed bool        `gorm:"column:free_when_subscribed"`
	ProviderID         uuid.UUID   `gorm:"type:uuid"`
	Formats            []string    `gorm:"type:jsonb;serializer:json"`
	Pricing            PricingDTO  `gorm:"embedded;embeddedPrefix:pricing_"`
	Metadata           MetadataDTO `gorm:"embedded;embeddedPrefix:metadata_"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// PricingDTO represents the pricing strategy columns embedded in the product
// row. Money parameters are nullable; which ones are set depends on the
// strategy.
type PricingDTO struct {
	ID               uuid.UUID           `gorm:"type:uuid"`
	Name             string              `gorm:"type:text"`
	Type             string              `gorm:"type:text"`
	UnitAmount       decimal.NullDecimal `gorm:"type:numeric"`
	UnitCurrency     sql.NullString      `gorm:"type:text"`
	BaseFeeAmount    decimal.NullDecimal `gorm:"type:numeric"`
	BaseFeeCurrency  sql.NullString      `gorm:"type:text"`
	MinPriceAmount   decimal.NullDecimal `gorm:"type:numeric"`
	MinPriceCurrency sql.NullString      `gorm:"type:text"`
	MaxPriceAmount   decimal.NullDecimal `gorm:"type:numeric"`
	MaxPriceCurrency sql.NullString      `gorm:"type:text"`
}

// MetadataDTO represents the metadata columns embedded in the product row.
type MetadataDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid"`
	IDName         string      `gorm:"column:id_name;type:text"`
	Accessibility  int         `gorm:"column:accessibility"`
	ContactPersons []uuid.UUID `gorm:"type:jsonb;serializer:json"`
}

// OwnershipDTO represents one ownership coverage: a user group already owning
// a product over a geographic extent.
type OwnershipDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserGroup    string    `gorm:"type:text;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;index"`
	CoverageWKT  string    `gorm:"column:coverage_wkt;type:text"`
	CoverageSRID int       `gorm:"column:coverage_srid"`
}

// TableName specifies the database table name for ownership entities.
func (OwnershipDTO) TableName() string {
	return "ownerships"
}

// FromDomain converts a product domain entity to its database representation.
// Exported so catalog seeding can reuse the mapping.
func FromDomain(p *product.Product) ProductDTO {
	dto := ProductDTO{
		ID:                 p.ID().Bytes(),
		Label:              p.Label(),
		Status:             int(p.Status()),
		MaxOrderArea:       p.MaxOrderArea(),
		FreeWhenSubscribed: p.FreeWhenSubscribed(),
		ProviderID:         p.ProviderID().Bytes(),
		Formats:            p.Formats(),
		Pricing:            pricingFromDomain(p.Pricing()),
		Metadata:           metadataFromDomain(p.Metadata()),
	}

	if groupID := p.GroupID(); groupID != nil {
		raw := groupID.Bytes()
		dto.GroupID = &raw
	}

	return dto
}

func pricingFromDomain(p *product.Pricing) PricingDTO {
	unitAmount, unitCurrency := moneyToColumns(p.UnitPrice())
	fee := p.BaseFee()
	feeAmount, feeCurrency := moneyToColumns(&fee)
	minAmount, minCurrency := moneyToColumns(p.MinPrice())
	maxAmount, maxCurrency := moneyToColumns(p.MaxPrice())

	return PricingDTO{
		ID:               p.ID().Bytes(),
		Name:             p.Name(),
		Type:             string(p.Type()),
		UnitAmount:       unitAmount,
		UnitCurrency:     unitCurrency,
		BaseFeeAmount:    feeAmount,
		BaseFeeCurrency:  feeCurrency,
		MinPriceAmount:   minAmount,
		MinPriceCurrency: minCurrency,
		MaxPriceAmount:   maxAmount,
		MaxPriceCurrency: maxCurrency,
	}
}

func metadataFromDomain(m product.Metadata) MetadataDTO {
	persons := make([]uuid.UUID, 0, len(m.ContactPersons()))
	for _, id := range m.ContactPersons() {
		persons = append(persons, id.Bytes())
	}

	return MetadataDTO{
		ID:             m.ID().Bytes(),
		IDName:         m.IDName(),
		Accessibility:  int(m.Accessibility()),
		ContactPersons: persons,
	}
}

// OwnershipFromDomain converts an ownership to its database representation.
func OwnershipFromDomain(o *product.Ownership) OwnershipDTO {
	return OwnershipDTO{
		ID:           o.ID().Bytes(),
		UserGroup:    o.UserGroup(),
		ProductID:    o.ProductID().Bytes(),
		CoverageWKT:  o.Coverage().AsText(),
		CoverageSRID: o.Coverage().SRID(),
	}
}

// toDomain converts a database DTO back to a product domain entity.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	var groupID *kernel.UUID
	if dto.GroupID != nil {
		gID, groupErr := kernel.UUIDFromBytes((*dto.GroupID)[:])
		if groupErr != nil {
			return nil, groupErr
		}
		groupID = &gID
	}

	pricing, err := pricingToDomain(dto.Pricing)
	if err != nil {
		return nil, err
	}
	metadata, err := metadataToDomain(dto.Metadata)
	if err != nil {
		return nil, err
	}

	return product.NewProduct(
		id,
		dto.Label,
		product.Status(dto.Status),
		pricing,
		metadata,
		dto.MaxOrderArea,
		groupID,
		dto.FreeWhenSubscribed,
		providerID,
		dto.Formats,
	)
}

func pricingToDomain(dto PricingDTO) (*product.Pricing, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	unitPrice, err := moneyFromColumns(dto.UnitAmount, dto.UnitCurrency)
	if err != nil {
		return nil, err
	}
	baseFee, err := moneyFromColumns(dto.BaseFeeAmount, dto.BaseFeeCurrency)
	if err != nil {
		return nil, err
	}
	minPrice, err := moneyFromColumns(dto.MinPriceAmount, dto.MinPriceCurrency)
	if err != nil {
		return nil, err
	}
	maxPrice, err := moneyFromColumns(dto.MaxPriceAmount, dto.MaxPriceCurrency)
	if err != nil {
		return nil, err
	}

	return product.NewPricing(id, dto.Name, product.PricingType(dto.Type),
		unitPrice, baseFee, minPrice, maxPrice)
}

func metadataToDomain(dto MetadataDTO) (product.Metadata, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return product.Metadata{}, err
	}

	persons := make([]kernel.UUID, 0, len(dto.ContactPersons))
	for _, raw := range dto.ContactPersons {
		person, personErr := kernel.UUIDFromBytes(raw[:])
		if personErr != nil {
			return product.Metadata{}, personErr
		}
		persons = append(persons, person)
	}

	return product.NewMetadata(id, dto.IDName,
		product.Accessibility(dto.Accessibility), persons)
}

func ownershipToDomain(dto OwnershipDTO) (*product.Ownership, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	coverage, err := kernel.RestoreGeometry(dto.CoverageWKT, dto.CoverageSRID)
	if err != nil {
		return nil, err
	}

	return product.NewOwnership(id, dto.UserGroup, productID, coverage)
}

func moneyToColumns(m *kernel.Money) (decimal.NullDecimal, sql.NullString) {
	if m == nil {
		return decimal.NullDecimal{}, sql.NullString{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true},
		sql.NullString{String: m.Currency(), Valid: true}
}

func moneyFromColumns(amount decimal.NullDecimal, currency sql.NullString) (*kernel.Money, error) {
	if !amount.Valid || !currency.Valid {
		return nil, nil
	}
	m, err := kernel.NewMoney(amount.Decimal, currency.String)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
