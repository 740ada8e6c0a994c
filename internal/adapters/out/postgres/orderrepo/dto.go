// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between domain entities and
// database representations. Orders and their items are stored in two tables
// and always loaded and saved together.
package orderrepo

import (
	"database/sql"
	"time"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Geometries are stored as WKT with their SRID alongside, so the database
// needs no spatial extension.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ClientID         uuid.UUID  `gorm:"type:uuid;index"`
	OrderType        int        `gorm:"column:order_type"`
	Title            string     `gorm:"type:text"`
	Description      string     `gorm:"type:text"`
	GeometryWKT      string     `gorm:"column:geometry_wkt;type:text"`
	GeometrySRID     int        `gorm:"column:geometry_srid"`
	ExcludedWKT      string     `gorm:"column:excluded_wkt;type:text"`
	ExcludedSRID     int        `gorm:"column:excluded_srid"`
	Status           int        `gorm:"index"`
	DownloadGUID     *uuid.UUID `gorm:"column:download_guid;type:uuid;index"`
	InvoiceContactID *uuid.UUID `gorm:"column:invoice_contact_id;type:uuid"`
	DateOrdered      *time.Time `gorm:"index"`
	ExtractResult    string     `gorm:"type:text"`
	Items            []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one ordered product within an order. Money values are
// split into a nullable numeric amount and a currency code; the pair is set
// or unset together.
type ItemDTO struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID           `gorm:"type:uuid;index"`
	ProductID       uuid.UUID           `gorm:"type:uuid"`
	ProductLabel    string              `gorm:"type:text"`
	ProviderID      uuid.UUID           `gorm:"type:uuid"`
	DataFormat      string              `gorm:"type:text"`
	PriceAmount     decimal.NullDecimal `gorm:"type:numeric"`
	PriceCurrency   sql.NullString      `gorm:"type:text"`
	BaseFeeAmount   decimal.NullDecimal `gorm:"type:numeric"`
	BaseFeeCurrency sql.NullString      `gorm:"type:text"`
	PriceStatus     int                 `gorm:"column:price_status"`
	Status          int                 `gorm:"index"`
	DownloadGUID    *uuid.UUID          `gorm:"column:download_guid;type:uuid;index"`
	TokenValue      string              `gorm:"column:token_value;type:text;index"`
	TokenConsumed   bool                `gorm:"column:token_consumed"`
	ExtractFileRef  string              `gorm:"type:text"`
	FailureReason   string              `gorm:"type:text"`
}

// TableName specifies the database table name for order item entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database
// representation, items included.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		ClientID:         aggregate.ClientID().Bytes(),
		OrderType:        int(aggregate.OrderType()),
		Title:            aggregate.Title(),
		Description:      aggregate.Description(),
		GeometryWKT:      aggregate.Geometry().AsText(),
		GeometrySRID:     aggregate.Geometry().SRID(),
		ExcludedWKT:      aggregate.ExcludedGeometry().AsText(),
		ExcludedSRID:     aggregate.ExcludedGeometry().SRID(),
		Status:           int(aggregate.Status()),
		DownloadGUID:     uuidToRaw(aggregate.DownloadGUID()),
		InvoiceContactID: uuidToRaw(aggregate.InvoiceContact()),
		DateOrdered:      aggregate.DateOrdered(),
		ExtractResult:    aggregate.ExtractResult(),
	}

	dto.Items = make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		dto.Items = append(dto.Items, itemFromDomain(dto.ID, item))
	}

	return dto
}

// itemFromDomain converts one order item to its database representation.
func itemFromDomain(orderID uuid.UUID, item *order.Item) ItemDTO {
	priceAmount, priceCurrency := moneyToColumns(item.Price())
	feeAmount, feeCurrency := moneyToColumns(item.BaseFee())

	dto := ItemDTO{
		ID:              item.ID().Bytes(),
		OrderID:         orderID,
		ProductID:       item.ProductID().Bytes(),
		ProductLabel:    item.ProductLabel(),
		ProviderID:      item.ProviderID().Bytes(),
		DataFormat:      item.DataFormat(),
		PriceAmount:     priceAmount,
		PriceCurrency:   priceCurrency,
		BaseFeeAmount:   feeAmount,
		BaseFeeCurrency: feeCurrency,
		PriceStatus:     int(item.PriceStatus()),
		Status:          int(item.Status()),
		DownloadGUID:    uuidToRaw(item.DownloadGUID()),
		ExtractFileRef:  item.ExtractFileRef(),
		FailureReason:   item.FailureReason(),
	}

	if token := item.Token(); token != nil {
		dto.TokenValue = token.Value()
		dto.TokenConsumed = token.IsConsumed()
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate, items included, using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	geometry, err := kernel.RestoreGeometry(dto.GeometryWKT, dto.GeometrySRID)
	if err != nil {
		return nil, err
	}
	excluded := kernel.EmptyGeometry(dto.GeometrySRID)
	if dto.ExcludedWKT != "" {
		excluded, err = kernel.RestoreGeometry(dto.ExcludedWKT, dto.ExcludedSRID)
		if err != nil {
			return nil, err
		}
	}

	downloadGUID, err := uuidFromRaw(dto.DownloadGUID)
	if err != nil {
		return nil, err
	}
	invoiceContactID, err := uuidFromRaw(dto.InvoiceContactID)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, clientID,
		order.Type(dto.OrderType),
		dto.Title, dto.Description,
		geometry, excluded,
		order.Status(dto.Status),
		downloadGUID, invoiceContactID,
		dto.DateOrdered,
		dto.ExtractResult,
		items,
	)
}

// itemToDomain converts one item DTO back to the domain entity.
func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	price, err := moneyFromColumns(dto.PriceAmount, dto.PriceCurrency)
	if err != nil {
		return nil, err
	}
	baseFee, err := moneyFromColumns(dto.BaseFeeAmount, dto.BaseFeeCurrency)
	if err != nil {
		return nil, err
	}

	downloadGUID, err := uuidFromRaw(dto.DownloadGUID)
	if err != nil {
		return nil, err
	}

	var token *order.ValidationToken
	if dto.TokenValue != "" {
		token, err = order.RestoreValidationToken(dto.TokenValue, dto.TokenConsumed)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreItem(
		id, productID,
		dto.ProductLabel,
		providerID,
		dto.DataFormat,
		price, baseFee,
		product.PriceStatus(dto.PriceStatus),
		order.ItemStatus(dto.Status),
		downloadGUID,
		token,
		dto.ExtractFileRef,
		dto.FailureReason,
	)
}

// uuidToRaw maps an optional domain UUID to its raw database form.
func uuidToRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// uuidFromRaw maps an optional raw UUID back to the domain form.
func uuidFromRaw(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// moneyToColumns splits an optional money value into its amount and currency
// columns.
func moneyToColumns(m *kernel.Money) (decimal.NullDecimal, sql.NullString) {
	if m == nil {
		return decimal.NullDecimal{}, sql.NullString{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true},
		sql.NullString{String: m.Currency(), Valid: true}
}

// moneyFromColumns rebuilds an optional money value from its columns.
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
