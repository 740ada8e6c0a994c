package http

import (
	"errors"
	"net/http"
	"strings"

	"geoshop/internal/core/application/usecases/commands"
	"geoshop/internal/core/application/usecases/queries"
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server handles the HTTP API of the ordering platform. It coordinates
// between HTTP handlers and application use cases: the client-facing order
// endpoints, the validation endpoints addressed by token, and the internal
// endpoints the extraction backend polls.
type Server struct {
	// Command handlers
	createOrderHandler         commands.CreateOrderCommandHandler
	deleteOrderHandler         commands.DeleteOrderCommandHandler
	setOrderItemsHandler       commands.SetOrderItemsCommandHandler
	confirmOrderHandler        commands.ConfirmOrderCommandHandler
	setPriceHandler            commands.SetPriceCommandHandler
	quoteDoneHandler           commands.QuoteDoneCommandHandler
	validateOrderItemHandler   commands.ValidateOrderItemCommandHandler
	startExtractHandler        commands.StartExtractCommandHandler
	recordExtractResultHandler commands.RecordExtractResultCommandHandler
	rejectOrderHandler         commands.RejectOrderCommandHandler

	// Query handlers
	getReadyOrdersHandler        queries.GetReadyOrdersQueryHandler
	getPendingExtractionsHandler queries.GetPendingExtractionsQueryHandler
	getOrderItemByTokenHandler   queries.GetOrderItemByTokenQueryHandler
	getDownloadHandler           queries.GetDownloadQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	setOrderItemsHandler commands.SetOrderItemsCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	setPriceHandler commands.SetPriceCommandHandler,
	quoteDoneHandler commands.QuoteDoneCommandHandler,
	validateOrderItemHandler commands.ValidateOrderItemCommandHandler,
	startExtractHandler commands.StartExtractCommandHandler,
	recordExtractResultHandler commands.RecordExtractResultCommandHandler,
	rejectOrderHandler commands.RejectOrderCommandHandler,
	getReadyOrdersHandler queries.GetReadyOrdersQueryHandler,
	getPendingExtractionsHandler queries.GetPendingExtractionsQueryHandler,
	getOrderItemByTokenHandler queries.GetOrderItemByTokenQueryHandler,
	getDownloadHandler queries.GetDownloadQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:           createOrderHandler,
		deleteOrderHandler:           deleteOrderHandler,
		setOrderItemsHandler:         setOrderItemsHandler,
		confirmOrderHandler:          confirmOrderHandler,
		setPriceHandler:              setPriceHandler,
		quoteDoneHandler:             quoteDoneHandler,
		validateOrderItemHandler:     validateOrderItemHandler,
		startExtractHandler:          startExtractHandler,
		recordExtractResultHandler:   recordExtractResultHandler,
		rejectOrderHandler:           rejectOrderHandler,
		getReadyOrdersHandler:        getReadyOrdersHandler,
		getPendingExtractionsHandler: getPendingExtractionsHandler,
		getOrderItemByTokenHandler:   getOrderItemByTokenHandler,
		getDownloadHandler:           getDownloadHandler,
	}
}

// RegisterRoutes wires all API endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	// Client-facing order lifecycle.
	api.POST("/orders", s.CreateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.PUT("/orders/:id/items", s.SetOrderItems)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/reject", s.RejectOrder)

	// Administrative quoting.
	api.PUT("/orders/:id/items/:item_id/price", s.SetPrice)
	api.POST("/orders/:id/quote-done", s.QuoteDone)

	// Third-party validation, addressed by opaque token.
	api.GET("/validate/:token", s.GetOrderItemByToken)
	api.PUT("/validate/:token", s.ValidateOrderItem)

	// Extraction backend.
	api.GET("/extract/orders", s.GetPendingExtractions)
	api.PUT("/extract/items/:id", s.RecordExtractResult)

	// Result download, addressed by GUID.
	api.GET("/download/:guid", s.GetDownload)
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health - liveness check.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	ClientID    string `json:"client_id"`
	OrderType   string `json:"order_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GeometryWKT string `json:"geometry_wkt"`
	SRID        int    `json:"srid"`
}

// CreateOrderResponse reports the identifier assigned to the new draft.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

// CreateOrder handles POST /api/v1/orders - opens a new draft order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return respondError(ctx, err)
	}

	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		return respondError(ctx, err)
	}

	srid := req.SRID
	if srid == 0 {
		srid = kernel.DefaultSRID
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, clientID, orderType,
		req.Title, req.Description, req.GeometryWKT, srid)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - discards a draft order.
// Confirmed orders are part of the business record and cannot be deleted.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// OrderItemSpec is one requested item in PUT /api/v1/orders/:id/items.
type OrderItemSpec struct {
	ProductLabel string `json:"product_label"`
	DataFormat   string `json:"data_format"`
}

// SetOrderItemsRequest is the body of PUT /api/v1/orders/:id/items. The list
// replaces the current items of the draft; an empty list clears the order.
type SetOrderItemsRequest struct {
	Items []OrderItemSpec `json:"items"`
}

// SetOrderItemsResponse echoes the items with their assigned identifiers.
type SetOrderItemsResponse struct {
	Items []SetOrderItemsResponseItem `json:"items"`
}

// SetOrderItemsResponseItem pairs an assigned item ID with its product label.
type SetOrderItemsResponseItem struct {
	ItemID       string `json:"item_id"`
	ProductLabel string `json:"product_label"`
}

// SetOrderItems handles PUT /api/v1/orders/:id/items - replaces the item
// list of a draft order.
func (s *Server) SetOrderItems(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req SetOrderItemsRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	specs := make([]commands.ItemSpec, len(req.Items))
	for i, item := range req.Items {
		specs[i] = commands.ItemSpec{
			ItemID:       kernel.NewUUID(),
			ProductLabel: item.ProductLabel,
			DataFormat:   item.DataFormat,
		}
	}

	cmd, err := commands.NewSetOrderItemsCommand(orderID, specs)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.setOrderItemsHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	response := SetOrderItemsResponse{Items: make([]SetOrderItemsResponseItem, len(specs))}
	for i, spec := range specs {
		response.Items[i] = SetOrderItemsResponseItem{
			ItemID:       spec.ItemID.String(),
			ProductLabel: spec.ProductLabel,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ConfirmOrderRequest is the body of POST /api/v1/orders/:id/confirm.
// ClientGroups is the group membership of the authenticated client, resolved
// by the authentication middleware in front of this API.
type ConfirmOrderRequest struct {
	ClientGroups []string `json:"client_groups"`
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm - commits a draft or
// accepts a finished quote.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req ConfirmOrderRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, req.ClientGroups)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectOrder handles POST /api/v1/orders/:id/reject - rejects a quoted
// order the client does not accept.
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRejectOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.rejectOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetPriceRequest is the body of PUT /api/v1/orders/:id/items/:item_id/price.
// Amounts are decimal strings; currency defaults to the platform currency.
type SetPriceRequest struct {
	Price    string `json:"price"`
	BaseFee  string `json:"base_fee"`
	Currency string `json:"currency"`
}

// SetPrice handles PUT /api/v1/orders/:id/items/:item_id/price - records the
// manually quoted price of one item.
func (s *Server) SetPrice(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	itemID, err := kernel.UUIDFromString(ctx.Param("item_id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req SetPriceRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	currency := req.Currency
	if currency == "" {
		currency = kernel.DefaultCurrency
	}

	price, err := parseMoney("price", req.Price, currency)
	if err != nil {
		return respondError(ctx, err)
	}
	baseFee, err := parseMoney("base fee", req.BaseFee, currency)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSetPriceCommand(orderID, itemID, price, baseFee)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.setPriceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// QuoteDone handles POST /api/v1/orders/:id/quote-done - marks the manual
// quote of an order as complete and notifies the client.
func (s *Server) QuoteDone(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewQuoteDoneCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.quoteDoneHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// OrderItemView is the approver's view of the item behind a validation token.
type OrderItemView struct {
	OrderID      string `json:"order_id"`
	OrderTitle   string `json:"order_title"`
	ItemID       string `json:"item_id"`
	ProductLabel string `json:"product_label"`
	DataFormat   string `json:"data_format,omitempty"`
	Price        string `json:"price,omitempty"`
}

// GetOrderItemByToken handles GET /api/v1/validate/:token - shows the
// approver what they are deciding on.
func (s *Server) GetOrderItemByToken(ctx echo.Context) error {
	query, err := queries.NewGetOrderItemByTokenQuery(ctx.Param("token"))
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getOrderItemByTokenHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := OrderItemView{
		OrderID:      view.OrderID.String(),
		OrderTitle:   view.OrderTitle,
		ItemID:       view.ItemID.String(),
		ProductLabel: view.ProductLabel,
		DataFormat:   view.DataFormat,
	}
	if view.Price != nil {
		response.Price = view.Price.String()
	}

	return ctx.JSON(http.StatusOK, response)
}

// ValidateOrderItemRequest is the body of PUT /api/v1/validate/:token.
type ValidateOrderItemRequest struct {
	IsValidated bool `json:"is_validated"`
}

// ValidateOrderItem handles PUT /api/v1/validate/:token - records the
// approver's decision and consumes the token.
func (s *Server) ValidateOrderItem(ctx echo.Context) error {
	var req ValidateOrderItemRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewValidateOrderItemCommand(ctx.Param("token"), req.IsValidated)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.validateOrderItemHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ExtractionJob is one unit of work for the extraction backend.
type ExtractionJob struct {
	OrderID      string `json:"order_id"`
	ItemID       string `json:"item_id"`
	ProductLabel string `json:"product_label"`
	DataFormat   string `json:"data_format,omitempty"`
	GeometryWKT  string `json:"geometry_wkt"`
	SRID         int    `json:"srid"`
}

// GetPendingExtractions handles GET /api/v1/extract/orders - hands the
// extraction backend its work queue. Ready orders are claimed into the
// extracting status first; a concurrent poll losing the claim race skips the
// order instead of failing the whole request.
func (s *Server) GetPendingExtractions(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	readyIDs, err := s.getReadyOrdersHandler.Handle(reqCtx, queries.NewGetReadyOrdersQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	for _, orderID := range readyIDs {
		cmd, cmdErr := commands.NewStartExtractCommand(orderID)
		if cmdErr != nil {
			return respondError(ctx, cmdErr)
		}

		handleErr := s.startExtractHandler.Handle(reqCtx, cmd)
		if handleErr != nil && !errors.Is(handleErr, errs.ErrConflict) {
			return respondError(ctx, handleErr)
		}
	}

	jobs, err := s.getPendingExtractionsHandler.Handle(reqCtx, queries.NewGetPendingExtractionsQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]ExtractionJob, len(jobs))
	for i, job := range jobs {
		response[i] = ExtractionJob{
			OrderID:      job.OrderID.String(),
			ItemID:       job.ItemID.String(),
			ProductLabel: job.ProductLabel,
			DataFormat:   job.DataFormat,
			GeometryWKT:  job.GeometryWKT,
			SRID:         job.SRID,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RecordExtractResultRequest is the body of PUT /api/v1/extract/items/:id.
// A non-empty file_ref reports success; otherwise the item is recorded as
// failed with failure_reason.
type RecordExtractResultRequest struct {
	FileRef       string `json:"file_ref"`
	FailureReason string `json:"failure_reason"`
}

// RecordExtractResult handles PUT /api/v1/extract/items/:id - records the
// outcome the extraction backend reports for one item.
func (s *Server) RecordExtractResult(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req RecordExtractResultRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var cmd commands.RecordExtractResultCommand
	if req.FileRef != "" {
		cmd, err = commands.NewRecordExtractResultCommand(itemID, req.FileRef)
	} else {
		cmd, err = commands.NewRecordExtractFailureCommand(itemID, req.FailureReason)
	}
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.recordExtractResultHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DownloadResponse lists the result files behind a download GUID.
type DownloadResponse struct {
	OrderID string   `json:"order_id"`
	Files   []string `json:"files"`
}

// GetDownload handles GET /api/v1/download/:guid - resolves a download GUID
// to the result files it covers.
func (s *Server) GetDownload(ctx echo.Context) error {
	guid, err := kernel.UUIDFromString(ctx.Param("guid"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetDownloadQuery(guid)
	if err != nil {
		return respondError(ctx, err)
	}

	download, err := s.getDownloadHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, DownloadResponse{
		OrderID: download.OrderID.String(),
		Files:   download.Files,
	})
}

func parseOrderType(value string) (order.Type, error) {
	switch strings.ToUpper(value) {
	case "PRIVATE":
		return order.TypePrivate, nil
	case "PUBLIC":
		return order.TypePublic, nil
	case "SUBSCRIBED":
		return order.TypeSubscribed, nil
	default:
		return order.TypeUnknown, errs.NewValueIsInvalidError("order type")
	}
}

func parseMoney(param, amount, currency string) (kernel.Money, error) {
	if amount == "" {
		return kernel.Money{}, errs.NewValueIsRequiredError(param)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return kernel.NewMoney(value, currency)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps domain and application errors onto HTTP statuses. The
// error text is passed through: these errors are built for end users and
// never carry internals.
func respondError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrFileMissing):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrForbiddenAction):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrGeometryIsInvalid),
		errors.Is(err, errs.ErrAreaTooLarge),
		errors.Is(err, errs.ErrPricingUnsupported):
		status = http.StatusBadRequest
	}

	message := "Internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}
